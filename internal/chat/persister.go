package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const saveTimeout = 10 * time.Second

// persister serializes transcript writes for one session. Each write saves the
// log as it is when the write starts, never a copy captured at request time, so
// a write triggered before a clear cannot bring cleared messages back.
type persister struct {
	snapshot func() []Message
	store    TranscriptStore
	logger   *slog.Logger

	kick    chan struct{}
	flushes chan chan struct{}
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newPersister(store TranscriptStore, snapshot func() []Message, logger *slog.Logger) *persister {
	p := &persister{
		snapshot: snapshot,
		store:    store,
		logger:   logger,
		kick:     make(chan struct{}, 1),
		flushes:  make(chan chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// request schedules a write without waiting for it. Requests that arrive while
// one is already queued collapse into it.
func (p *persister) request() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// flush blocks until every request made before the call has been written.
func (p *persister) flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case p.flushes <- ack:
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) close(ctx context.Context) error {
	p.once.Do(func() { close(p.stop) })
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.kick:
			p.write()
		case ack := <-p.flushes:
			p.drain()
			close(ack)
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *persister) drain() {
	select {
	case <-p.kick:
		p.write()
	default:
	}
}

func (p *persister) write() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	msgs := p.snapshot()
	if err := p.store.Save(ctx, msgs); err != nil {
		p.logger.Warn("transcript save failed", "messages", len(msgs), "error", err)
	}
}
