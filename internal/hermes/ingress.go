package hermes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

const (
	SubjectSubmit = "astra.chat.submit"
	SubjectClear  = "astra.chat.clear"
)

// Session is the part of chat.Manager the ingress drives.
type Session interface {
	Submit(ctx context.Context, text string) error
	Clear() error
}

type SubmitRequest struct {
	Text string `json:"text"`
}

// Ingress turns NATS messages into session operations.
type Ingress struct {
	session Session
	logger  *slog.Logger
}

func NewIngress(session Session, logger *slog.Logger) *Ingress {
	return &Ingress{session: session, logger: logger}
}

// Register subscribes the ingress handlers on c.
func (in *Ingress) Register(c *Client) error {
	if err := c.Subscribe(SubjectSubmit, in.HandleSubmit); err != nil {
		return err
	}
	return c.Subscribe(SubjectClear, in.HandleClear)
}

// HandleSubmit is the NATS handler for astra.chat.submit.
func (in *Ingress) HandleSubmit(subject string, data []byte) {
	var req SubmitRequest
	if err := json.Unmarshal(data, &req); err != nil {
		in.logger.Error("failed to parse submit request", "subject", subject, "error", err)
		return
	}
	if err := in.session.Submit(context.Background(), req.Text); err != nil {
		in.logRejection("submit", err)
	}
}

// HandleClear is the NATS handler for astra.chat.clear.
func (in *Ingress) HandleClear(subject string, _ []byte) {
	if err := in.session.Clear(); err != nil {
		in.logRejection("clear", err)
	}
}

func (in *Ingress) logRejection(op string, err error) {
	switch {
	case errors.Is(err, chat.ErrBusy), errors.Is(err, chat.ErrEmptyInput),
		errors.Is(err, chat.ErrInputTooLong), errors.Is(err, chat.ErrClosed):
		in.logger.Debug("ingress request rejected", "op", op, "reason", err)
	default:
		in.logger.Error("ingress request failed", "op", op, "error", err)
	}
}
