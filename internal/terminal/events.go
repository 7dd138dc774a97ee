package terminal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

type appendedMsg struct{ msg chat.Message }

type settledMsg struct{ session chat.Session }

type clearedMsg struct{}

type submitDoneMsg struct{ err error }

// Events adapts chat.Listener callbacks into bubbletea messages.
type Events struct {
	ch chan tea.Msg
}

func NewEvents() *Events {
	return &Events{ch: make(chan tea.Msg, 64)}
}

func (e *Events) MessageAppended(msg chat.Message) { e.send(appendedMsg{msg: msg}) }

func (e *Events) ResponseSettled(s chat.Session) { e.send(settledMsg{session: s}) }

func (e *Events) Cleared() { e.send(clearedMsg{}) }

// send never blocks the session; the view re-reads the snapshot on the next
// event anyway, so a dropped event only delays a redraw.
func (e *Events) send(msg tea.Msg) {
	select {
	case e.ch <- msg:
	default:
	}
}

func (e *Events) wait() tea.Cmd {
	return func() tea.Msg {
		return <-e.ch
	}
}
