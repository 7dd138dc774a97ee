//go:build integration

package hermes

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_NotifierPublishes(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	logger := slog.Default()

	client, err := NewClient(natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	received := make(chan MessageEvent, 1)

	err = client.Subscribe("astra.chat.>", func(subject string, data []byte) {
		if subject != SubjectMessageAppended {
			return
		}
		var evt MessageEvent
		json.Unmarshal(data, &evt)
		received <- evt
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	n := NewNotifier(client, uuid.New(), logger)
	n.MessageAppended(chat.Message{Sender: chat.SenderUser, Text: "hello from integration test", Timestamp: 1})

	select {
	case evt := <-received:
		if evt.Message.Text != "hello from integration test" {
			t.Errorf("expected hello message, got %+v", evt)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}
