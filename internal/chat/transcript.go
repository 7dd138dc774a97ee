package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/astra/internal/store"
)

// StorageKey is the key the transcript is kept under in every backend.
const StorageKey = "chat_messages"

// Transcript persists the message log as one JSON array in a key-value store.
type Transcript struct {
	kv     store.KV
	key    string
	logger *slog.Logger
}

func NewTranscript(kv store.KV, logger *slog.Logger) *Transcript {
	return &Transcript{kv: kv, key: StorageKey, logger: logger}
}

// Load returns the stored log. Missing, unreadable or corrupt data all yield
// an empty log.
func (t *Transcript) Load(ctx context.Context) []Message {
	data, err := t.kv.Get(ctx, t.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			t.logger.Warn("transcript read failed, starting empty", "key", t.key, "error", err)
		}
		return []Message{}
	}
	msgs, err := Decode(data)
	if err != nil {
		t.logger.Warn("transcript corrupt, starting empty", "key", t.key, "error", err)
		return []Message{}
	}
	if msgs == nil {
		return []Message{}
	}
	return msgs
}

// Save overwrites the stored log with msgs.
func (t *Transcript) Save(ctx context.Context, msgs []Message) error {
	data, err := Encode(msgs)
	if err != nil {
		return err
	}
	if err := t.kv.Set(ctx, t.key, data); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}
