package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "ai"
)

// Message is one entry of the transcript. Timestamp is milliseconds since the
// Unix epoch and is only used for display.
type Message struct {
	Sender    Sender `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Session is a point-in-time view of the conversation state.
type Session struct {
	ID        uuid.UUID `json:"session_id"`
	Messages  []Message `json:"messages"`
	Pending   bool      `json:"pending"`
	LastError string    `json:"last_error,omitempty"`
}

// Encode serializes a log as a JSON array. A nil log encodes as [].
func Encode(msgs []Message) ([]byte, error) {
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(msgs)
}

// Decode parses a serialized log. Entries with an unknown sender or empty text
// make the whole value invalid.
func Decode(data []byte) ([]Message, error) {
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	for i := range msgs {
		switch msgs[i].Sender {
		case SenderUser, SenderAssistant:
		case "assistant":
			msgs[i].Sender = SenderAssistant
		default:
			return nil, fmt.Errorf("decode transcript: entry %d has unknown sender %q", i, msgs[i].Sender)
		}
		if msgs[i].Text == "" {
			return nil, fmt.Errorf("decode transcript: entry %d has empty text", i)
		}
	}
	return msgs, nil
}
