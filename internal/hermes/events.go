package hermes

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

const (
	SubjectMessageAppended = "astra.chat.message.appended"
	SubjectResponseSettled = "astra.chat.response.settled"
	SubjectCleared         = "astra.chat.cleared"
)

// MessageEvent is published for every transcript append.
type MessageEvent struct {
	EventID   string       `json:"event_id"`
	SessionID string       `json:"session_id"`
	Message   chat.Message `json:"message"`
}

// SettledEvent is published once an exchange finishes, successfully or not.
type SettledEvent struct {
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
	Messages  int    `json:"messages"`
	Failed    bool   `json:"failed"`
	LastError string `json:"last_error,omitempty"`
}

type ClearedEvent struct {
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

type Publisher interface {
	Publish(subject string, data any) error
}

// Notifier publishes session events. Publish failures are logged and dropped.
type Notifier struct {
	pub       Publisher
	sessionID uuid.UUID
	logger    *slog.Logger
}

func NewNotifier(pub Publisher, sessionID uuid.UUID, logger *slog.Logger) *Notifier {
	return &Notifier{pub: pub, sessionID: sessionID, logger: logger}
}

func (n *Notifier) MessageAppended(msg chat.Message) {
	n.publish(SubjectMessageAppended, MessageEvent{
		EventID:   uuid.NewString(),
		SessionID: n.sessionID.String(),
		Message:   msg,
	})
}

func (n *Notifier) ResponseSettled(s chat.Session) {
	n.publish(SubjectResponseSettled, SettledEvent{
		EventID:   uuid.NewString(),
		SessionID: n.sessionID.String(),
		Messages:  len(s.Messages),
		Failed:    s.LastError != "",
		LastError: s.LastError,
	})
}

func (n *Notifier) Cleared() {
	n.publish(SubjectCleared, ClearedEvent{
		EventID:   uuid.NewString(),
		SessionID: n.sessionID.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) publish(subject string, evt any) {
	if err := n.pub.Publish(subject, evt); err != nil {
		n.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
