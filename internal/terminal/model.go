// Package terminal is the interactive chat surface: a scrolling transcript,
// a composer capped at the session's input limit with a live counter, a
// typing indicator and an inline error banner.
package terminal

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

// chrome is the number of lines the view uses outside the transcript.
const chrome = 7

type Session interface {
	Submit(ctx context.Context, text string) error
	Clear() error
	Snapshot() chat.Session
	MaxChars() int
}

type Model struct {
	ctx      context.Context
	session  Session
	events   *Events
	model    string
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	snap     chat.Session
	width    int
}

func NewModel(ctx context.Context, session Session, events *Events, modelName string) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = session.MaxChars()
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = typingStyle

	m := Model{
		ctx:      ctx,
		session:  session,
		events:   events,
		model:    modelName,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		width:    80,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.events.wait())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch ev := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = ev.Width
		m.viewport.Width = ev.Width
		m.viewport.Height = max(ev.Height-chrome, 3)
		m.input.Width = max(ev.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch ev.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.send()
		case tea.KeyCtrlL:
			return m.clear()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case appendedMsg, clearedMsg:
		m.refresh()
		return m, m.events.wait()

	case settledMsg:
		m.refresh()
		return m, tea.Batch(m.input.Focus(), m.events.wait())

	case submitDoneMsg:
		m.refresh()
		return m, m.input.Focus()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.snap.Pending {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send starts an exchange in the background. The composer stays disabled
// until the session reports the response settled.
func (m Model) send() (tea.Model, tea.Cmd) {
	if m.snap.Pending {
		return m, nil
	}
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.snap.Pending = true

	ctx, session := m.ctx, m.session
	return m, func() tea.Msg {
		return submitDoneMsg{err: session.Submit(ctx, text)}
	}
}

func (m Model) clear() (tea.Model, tea.Cmd) {
	if m.snap.Pending {
		return m, nil
	}
	_ = m.session.Clear()
	m.refresh()
	return m, nil
}

// refresh re-reads the session and keeps the newest message in view.
func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	m.viewport.SetContent(renderTranscript(m.snap.Messages, m.width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder

	header := headerStyle.Render("Astra AI")
	if m.model != "" {
		powered := poweredStyle.Render("powered by " + m.model)
		gap := max(m.width-lipgloss.Width(header)-lipgloss.Width(powered), 1)
		header += strings.Repeat(" ", gap) + powered
	}
	b.WriteString(header + "\n\n")
	b.WriteString(m.viewport.View() + "\n")

	switch {
	case m.snap.Pending:
		b.WriteString(m.spinner.View() + typingStyle.Render(" Astra is typing...") + "\n")
	case m.snap.LastError != "":
		b.WriteString(errorStyle.Render(m.snap.LastError) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(m.input.View() + "\n")
	counter := fmt.Sprintf("%d / %d", utf8.RuneCountInString(m.input.Value()), m.session.MaxChars())
	b.WriteString(counterStyle.Render(counter+"  •  enter send  •  ctrl+l clear  •  esc quit"))
	return b.String()
}
