package terminal

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

type fakeSession struct {
	snap      chat.Session
	submitted []string
	clears    int
	reply     string
}

func (f *fakeSession) Submit(_ context.Context, text string) error {
	f.submitted = append(f.submitted, text)
	f.snap.Messages = append(f.snap.Messages,
		chat.Message{Sender: chat.SenderUser, Text: text},
		chat.Message{Sender: chat.SenderAssistant, Text: f.reply},
	)
	return nil
}

func (f *fakeSession) Clear() error {
	f.clears++
	f.snap.Messages = nil
	return nil
}

func (f *fakeSession) Snapshot() chat.Session { return f.snap }

func (f *fakeSession) MaxChars() int { return 200 }

func newTestModel(s *fakeSession) Model {
	return NewModel(context.Background(), s, NewEvents(), "gemini-2.5-flash")
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestView_EmptyTranscript(t *testing.T) {
	m := newTestModel(&fakeSession{})

	view := m.View()
	assert.Contains(t, view, "Astra AI")
	assert.Contains(t, view, "powered by gemini-2.5-flash")
	assert.Contains(t, view, emptyTranscript)
	assert.Contains(t, view, "0 / 200")
}

func TestView_Counter(t *testing.T) {
	m := newTestModel(&fakeSession{})
	m = typeText(t, m, "hello")

	assert.Equal(t, "hello", m.input.Value())
	assert.Contains(t, m.View(), "5 / 200")
}

func TestEnter_SubmitsAndResetsComposer(t *testing.T) {
	s := &fakeSession{reply: "hi there"}
	m := newTestModel(s)
	m = typeText(t, m, "hello")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())
	assert.True(t, m.snap.Pending)
	assert.Contains(t, m.View(), "Astra is typing...")

	done := cmd()
	require.IsType(t, submitDoneMsg{}, done)
	assert.Equal(t, []string{"hello"}, s.submitted)

	m, _ = update(t, m, done)
	assert.False(t, m.snap.Pending)
	assert.Contains(t, m.View(), "hi there")
}

func TestEnter_IgnoresBlankInput(t *testing.T) {
	s := &fakeSession{}
	m := newTestModel(s)
	m = typeText(t, m, "   ")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, s.submitted)
}

func TestPending_DisablesComposerAndClear(t *testing.T) {
	s := &fakeSession{snap: chat.Session{Pending: true}}
	m := newTestModel(s)

	m = typeText(t, m, "ignored")
	assert.Empty(t, m.input.Value())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Zero(t, s.clears)
}

func TestCtrlL_Clears(t *testing.T) {
	s := &fakeSession{snap: chat.Session{Messages: []chat.Message{{Sender: chat.SenderUser, Text: "old"}}}}
	m := newTestModel(s)
	assert.Contains(t, m.View(), "old")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, 1, s.clears)
	assert.Contains(t, m.View(), emptyTranscript)
}

func TestView_ErrorBanner(t *testing.T) {
	s := &fakeSession{snap: chat.Session{LastError: chat.ErrorNotice}}
	m := newTestModel(s)

	assert.Contains(t, m.View(), chat.ErrorNotice)
}

func TestEscQuits(t *testing.T) {
	m := newTestModel(&fakeSession{})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEvents_DeliverListenerCallbacks(t *testing.T) {
	e := NewEvents()
	e.MessageAppended(chat.Message{Sender: chat.SenderUser, Text: "hi"})
	e.ResponseSettled(chat.Session{})
	e.Cleared()

	assert.IsType(t, appendedMsg{}, e.wait()())
	assert.IsType(t, settledMsg{}, e.wait()())
	assert.IsType(t, clearedMsg{}, e.wait()())
}

func TestEvents_SendNeverBlocks(t *testing.T) {
	e := NewEvents()
	for i := 0; i < 1000; i++ {
		e.Cleared()
	}
	assert.Len(t, e.ch, cap(e.ch))
}

func TestRenderTranscript(t *testing.T) {
	out := renderTranscript([]chat.Message{
		{Sender: chat.SenderUser, Text: "hello"},
		{Sender: chat.SenderAssistant, Text: "hi there"},
	}, 60)

	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "hi there")
	assert.Less(t, strings.Index(out, "hello"), strings.Index(out, "hi there"))
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(&fakeSession{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 40-chrome, m.viewport.Height)
}
