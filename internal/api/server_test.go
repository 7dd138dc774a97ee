package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/astra/internal/chat"
	"github.com/MikeSquared-Agency/astra/internal/store"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Generate(context.Context, string, string) (string, error) {
	return s.reply, s.err
}

func newTestServer(t *testing.T, token string, llm chat.Completer) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := chat.New(context.Background(), llm, chat.NewTranscript(store.NewMemory(), logger), logger, chat.Options{})
	t.Cleanup(func() { mgr.Close(context.Background()) })
	return NewServer(8760, token, mgr)
}

func do(t *testing.T, srv *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func decodeAction(t *testing.T, w *httptest.ResponseRecorder) ActionResponse {
	t.Helper()
	var resp ActionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, "", stubCompleter{reply: "hi"})

	w := do(t, srv, "GET", "/health", "", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestGetChat_Empty(t *testing.T) {
	srv := newTestServer(t, "", stubCompleter{reply: "hi"})

	w := do(t, srv, "GET", "/api/v1/chat", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var view ChatView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(view.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(view.Messages))
	}
	if view.MaxChars != 200 {
		t.Errorf("expected max_chars 200, got %d", view.MaxChars)
	}
	if view.Pending {
		t.Error("expected pending false")
	}
}

func TestPostMessage_Success(t *testing.T) {
	srv := newTestServer(t, "", stubCompleter{reply: "hi there"})

	w := do(t, srv, "POST", "/api/v1/chat/messages", `{"text":"hello"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeAction(t, w)
	if !resp.Accepted {
		t.Errorf("expected accepted, got reason %q", resp.Reason)
	}
	msgs := resp.Chat.Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != chat.SenderUser || msgs[0].Text != "hello" {
		t.Errorf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Sender != chat.SenderAssistant || msgs[1].Text != "hi there" {
		t.Errorf("unexpected reply: %+v", msgs[1])
	}
}

func TestPostMessage_ServiceFailure(t *testing.T) {
	srv := newTestServer(t, "", stubCompleter{err: errors.New("quota")})

	resp := decodeAction(t, do(t, srv, "POST", "/api/v1/chat/messages", `{"text":"hi"}`, nil))

	if !resp.Accepted {
		t.Error("a failed completion is still an accepted submit")
	}
	if resp.Chat.LastError != chat.ErrorNotice {
		t.Errorf("expected error notice, got %q", resp.Chat.LastError)
	}
	if resp.Chat.Messages[1].Text != chat.FallbackReply {
		t.Errorf("expected fallback reply, got %q", resp.Chat.Messages[1].Text)
	}
}

func TestPostMessage_Rejections(t *testing.T) {
	srv := newTestServer(t, "", stubCompleter{reply: "unused"})

	cases := map[string]string{
		`{"text":"   "}`:                                  "empty",
		`{"text":"` + strings.Repeat("x", 201) + `"}`: "too_long",
	}
	for body, reason := range cases {
		w := do(t, srv, "POST", "/api/v1/chat/messages", body, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp := decodeAction(t, w)
		if resp.Accepted {
			t.Errorf("expected rejection for %s", reason)
		}
		if resp.Reason != reason {
			t.Errorf("expected reason %q, got %q", reason, resp.Reason)
		}
		if len(resp.Chat.Messages) != 0 {
			t.Errorf("expected no messages after rejection, got %d", len(resp.Chat.Messages))
		}
	}
}

func TestPostMessage_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, "", stubCompleter{reply: "unused"})

	w := do(t, srv, "POST", "/api/v1/chat/messages", `{nope`, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestClearMessages(t *testing.T) {
	srv := newTestServer(t, "", stubCompleter{reply: "hi"})
	do(t, srv, "POST", "/api/v1/chat/messages", `{"text":"hello"}`, nil)

	resp := decodeAction(t, do(t, srv, "DELETE", "/api/v1/chat/messages", "", nil))

	if !resp.Accepted {
		t.Errorf("expected clear accepted, got %q", resp.Reason)
	}
	if len(resp.Chat.Messages) != 0 {
		t.Errorf("expected empty log, got %d", len(resp.Chat.Messages))
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer(t, "secret", stubCompleter{reply: "hi"})

	if w := do(t, srv, "GET", "/api/v1/chat", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/api/v1/chat", "", map[string]string{"Authorization": "Bearer wrong"}); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/api/v1/chat", "", map[string]string{"Authorization": "Bearer secret"}); w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("expected health to stay open, got %d", w.Code)
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := newTestServer(t, "", stubCompleter{reply: "hi"})

	w := do(t, srv, "GET", "/nonexistent", "", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRejectionReason(t *testing.T) {
	if got := rejectionReason(chat.ErrBusy); got != "busy" {
		t.Errorf("expected busy, got %q", got)
	}
	if got := rejectionReason(chat.ErrClosed); got != "closed" {
		t.Errorf("expected closed, got %q", got)
	}
	if got := rejectionReason(nil); got != "" {
		t.Errorf("expected empty reason for nil, got %q", got)
	}
	if got := rejectionReason(errors.New("other")); got != "rejected" {
		t.Errorf("expected rejected, got %q", got)
	}
}
