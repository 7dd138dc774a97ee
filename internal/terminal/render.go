package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

const emptyTranscript = "No messages yet. Say hello 👋"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	poweredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("62")).Padding(0, 1)
	aiStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 1)
	typingStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("246"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// renderTranscript lays out messages as bubbles, user on the right and
// assistant on the left, each at most 80% of width.
func renderTranscript(msgs []chat.Message, width int) string {
	if width <= 0 {
		width = 80
	}
	if len(msgs) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, emptyStyle.Render(emptyTranscript))
	}

	bubbleWidth := width * 4 / 5
	if bubbleWidth < 10 {
		bubbleWidth = width
	}

	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Sender == chat.SenderUser {
			bubble := userStyle.MaxWidth(bubbleWidth).Render(wrap(msg.Text, bubbleWidth-2))
			blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
			continue
		}
		bubble := aiStyle.MaxWidth(bubbleWidth).Render(wrap(msg.Text, bubbleWidth-2))
		blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Left, bubble))
	}
	return strings.Join(blocks, "\n\n")
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
