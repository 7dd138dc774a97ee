package hermes

import (
	"io"
	"log/slog"
	"testing"
)

func TestNewClient_ServerDownStillReturnsClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Nothing listens on port 1; the client keeps retrying in the background.
	c, err := NewClient("nats://127.0.0.1:1", "", logger)
	if err != nil {
		t.Fatalf("expected client while server is down, got error: %v", err)
	}
	c.Close()
}
