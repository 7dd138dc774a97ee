package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultMaxChars is the longest accepted input, in characters, after trimming.
const DefaultMaxChars = 200

// Validation rejections. None of them changes session state.
var (
	ErrEmptyInput   = errors.New("chat: input is empty")
	ErrInputTooLong = errors.New("chat: input exceeds maximum length")
	ErrBusy         = errors.New("chat: a response is still pending")
	ErrClosed       = errors.New("chat: session is closed")

	errAborted = errors.New("exchange aborted before completion")
)

// Completer produces a reply for a single user turn.
type Completer interface {
	Generate(ctx context.Context, systemInstruction, contents string) (string, error)
}

type TranscriptStore interface {
	Load(ctx context.Context) []Message
	Save(ctx context.Context, msgs []Message) error
}

type Options struct {
	ID                uuid.UUID
	MaxChars          int
	SystemInstruction string
	Listener          Listener
	Now               func() time.Time
}

// Manager owns one conversation: the message log, the pending flag and the
// last error. It makes at most one Completer call at a time.
type Manager struct {
	id        uuid.UUID
	completer Completer
	logger    *slog.Logger
	listener  Listener
	maxChars  int
	system    string
	now       func() time.Time
	persist   *persister

	// notify orders listener callbacks with the mutations that caused them.
	notify sync.Mutex
	// inflight counts exchanges Close must wait for.
	inflight sync.WaitGroup

	mu        sync.Mutex
	log       []Message
	pending   bool
	lastError string
	closed    bool
}

// New loads the stored transcript and starts the session's persistence writer.
// Call Close to flush outstanding writes.
func New(ctx context.Context, completer Completer, transcript TranscriptStore, logger *slog.Logger, opts Options) *Manager {
	m := &Manager{
		id:        opts.ID,
		completer: completer,
		logger:    logger,
		listener:  opts.Listener,
		maxChars:  opts.MaxChars,
		system:    opts.SystemInstruction,
		now:       opts.Now,
		log:       transcript.Load(ctx),
	}
	if m.id == uuid.Nil {
		m.id = uuid.New()
	}
	if m.listener == nil {
		m.listener = nopListener{}
	}
	if m.maxChars <= 0 {
		m.maxChars = DefaultMaxChars
	}
	if m.system == "" {
		m.system = SystemInstruction
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.persist = newPersister(transcript, m.messages, logger)

	logger.Info("chat session loaded", "session_id", m.id, "messages", len(m.log))
	return m
}

func (m *Manager) ID() uuid.UUID { return m.id }

func (m *Manager) MaxChars() int { return m.maxChars }

// Validate reports why text would be rejected by Submit, ignoring the pending flag.
func (m *Manager) Validate(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(trimmed) > m.maxChars {
		return ErrInputTooLong
	}
	return nil
}

// Submit sends text to the Completer and records the exchange. It returns a
// validation error without touching state when the input is empty, too long
// or another exchange is in flight. A failed completion is not an error: it is
// recorded as a fallback reply plus LastError. After Close it returns
// ErrClosed.
func (m *Manager) Submit(ctx context.Context, text string) error {
	if err := m.Validate(text); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(text)

	m.notify.Lock()
	m.mu.Lock()
	switch {
	case m.closed:
		m.mu.Unlock()
		m.notify.Unlock()
		return ErrClosed
	case m.pending:
		m.mu.Unlock()
		m.notify.Unlock()
		return ErrBusy
	}
	m.lastError = ""
	m.pending = true
	m.inflight.Add(1)
	userMsg := Message{Sender: SenderUser, Text: trimmed, Timestamp: m.now().UnixMilli()}
	m.log = append(m.log, userMsg)
	m.mu.Unlock()

	// Settling runs on every exit path so pending is always released and the
	// user entry always gets its reply.
	reply, err := "", errAborted
	defer func() {
		defer m.inflight.Done()
		m.notify.Lock()
		defer m.notify.Unlock()
		replyMsg, snap := m.settle(reply, err)
		m.persist.request()
		m.listener.MessageAppended(replyMsg)
		m.listener.ResponseSettled(snap)
	}()

	func() {
		defer m.notify.Unlock()
		m.persist.request()
		m.listener.MessageAppended(userMsg)
	}()

	reply, err = m.complete(ctx, trimmed)
	return nil
}

func (m *Manager) complete(ctx context.Context, text string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completer panic: %v", r)
		}
	}()
	return m.completer.Generate(ctx, m.system, text)
}

func (m *Manager) settle(reply string, err error) (Message, Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := Message{Sender: SenderAssistant, Text: reply, Timestamp: m.now().UnixMilli()}
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		m.logger.Error("completion failed", "session_id", m.id, "error", err)
		m.lastError = ErrorNotice
		msg.Text = FallbackReply
	}
	m.log = append(m.log, msg)
	m.pending = false
	return msg, m.snapshotLocked()
}

// Clear empties the log and the last error. It is refused with ErrBusy while
// an exchange is in flight and with ErrClosed after Close.
func (m *Manager) Clear() error {
	m.notify.Lock()
	defer m.notify.Unlock()

	m.mu.Lock()
	switch {
	case m.closed:
		m.mu.Unlock()
		return ErrClosed
	case m.pending:
		m.mu.Unlock()
		return ErrBusy
	}
	m.log = []Message{}
	m.lastError = ""
	m.mu.Unlock()

	m.persist.request()
	m.listener.Cleared()
	m.logger.Info("chat session cleared", "session_id", m.id)
	return nil
}

func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Session {
	return Session{
		ID:        m.id,
		Messages:  append([]Message{}, m.log...),
		Pending:   m.pending,
		LastError: m.lastError,
	}
}

func (m *Manager) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message{}, m.log...)
}

// Flush waits until every change made before the call is persisted.
func (m *Manager) Flush(ctx context.Context) error {
	return m.persist.flush(ctx)
}

// Close refuses further changes, waits for an exchange in flight to settle,
// then flushes pending writes and stops the persistence writer.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	settled := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(settled)
	}()
	select {
	case <-settled:
	case <-ctx.Done():
		return fmt.Errorf("wait for pending response: %w", ctx.Err())
	}
	return m.persist.close(ctx)
}
