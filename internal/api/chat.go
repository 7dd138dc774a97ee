package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

// ChatView is the session as rendered to clients.
type ChatView struct {
	chat.Session
	MaxChars int `json:"max_chars"`
}

type SubmitRequest struct {
	Text string `json:"text"`
}

// ActionResponse reports whether a submit or clear was accepted. Rejections
// are not HTTP errors; the reason is informational.
type ActionResponse struct {
	Accepted bool     `json:"accepted"`
	Reason   string   `json:"reason,omitempty"`
	Chat     ChatView `json:"chat"`
}

func (s *Server) view() ChatView {
	return ChatView{Session: s.session.Snapshot(), MaxChars: s.session.MaxChars()}
}

// getChat handles GET /api/v1/chat
func (s *Server) getChat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

// postMessage handles POST /api/v1/chat/messages
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	// The exchange is not cancellable once accepted, so a client hanging up
	// must not abort the completion call.
	err := s.session.Submit(context.WithoutCancel(r.Context()), req.Text)
	writeJSON(w, http.StatusOK, ActionResponse{
		Accepted: err == nil,
		Reason:   rejectionReason(err),
		Chat:     s.view(),
	})
}

// clearMessages handles DELETE /api/v1/chat/messages
func (s *Server) clearMessages(w http.ResponseWriter, r *http.Request) {
	err := s.session.Clear()
	writeJSON(w, http.StatusOK, ActionResponse{
		Accepted: err == nil,
		Reason:   rejectionReason(err),
		Chat:     s.view(),
	})
}

func rejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, chat.ErrEmptyInput):
		return "empty"
	case errors.Is(err, chat.ErrInputTooLong):
		return "too_long"
	case errors.Is(err, chat.ErrBusy):
		return "busy"
	case errors.Is(err, chat.ErrClosed):
		return "closed"
	default:
		return "rejected"
	}
}
