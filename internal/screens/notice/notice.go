// Package notice shows a static message, such as why AI features are
// unavailable.
package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/router"
	"github.com/abhisek/edututor/internal/screen"
	"github.com/abhisek/edututor/internal/ui/theme"
)

// NoticeScreen displays a centered message until dismissed.
type NoticeScreen struct {
	title string
	body  string
}

var _ screen.Screen = (*NoticeScreen)(nil)

// New creates a NoticeScreen with the given title and body.
func New(title, body string) *NoticeScreen {
	return &NoticeScreen{title: title, body: body}
}

// Unavailable explains that an LLM provider must be configured first.
func Unavailable(title string, cause error) *NoticeScreen {
	body := "AI features need an LLM provider.\n\n" +
		"Set ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY\n" +
		"or OPENROUTER_API_KEY and restart."
	if cause != nil {
		body += "\n\n" + cause.Error()
	}
	return New(title, body)
}

func (n *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (n *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return n, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return n, nil
}

func (n *NoticeScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(n.body)
}

func (n *NoticeScreen) Title() string {
	return n.title
}
