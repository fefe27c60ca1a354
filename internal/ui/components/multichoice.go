package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/ui/theme"
)

// MultiChoice is a single multiple-choice question. Options are shown as
// given, so they should already carry their "A) " labels.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int

	// Chosen is the index picked with Enter or a letter key, -1 if none.
	Chosen int

	// Correct is the index to highlight once Revealed.
	Correct  int
	Revealed bool
}

// NewMultiChoice creates an unanswered question.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
		Correct:  -1,
	}
}

// Update handles navigation. Enter picks the highlighted option; a-d pick
// directly. Once revealed the component ignores input.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Chosen = m.Selected
	case "a", "b", "c", "d":
		i := int(key[0] - 'a')
		if i < len(m.Options) {
			m.Selected = i
			m.Chosen = i
		}
	}
	return m, nil
}

// Answered reports whether an option has been picked.
func (m MultiChoice) Answered() bool {
	return m.Chosen >= 0 && m.Chosen < len(m.Options)
}

// Answer returns the picked option text.
func (m MultiChoice) Answer() (string, bool) {
	if !m.Answered() {
		return "", false
	}
	return m.Options[m.Chosen], true
}

// Reveal marks correct as the right answer and freezes the component.
func (m MultiChoice) Reveal(correct int) MultiChoice {
	m.Correct = correct
	m.Revealed = true
	return m
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Revealed {
			prefix = "▸ "
		}
		mark := "  "
		if i == m.Chosen {
			mark = "● "
		}
		line := prefix + mark + opt

		var style lipgloss.Style
		switch {
		case m.Revealed && i == m.Correct:
			style = theme.Correct
		case m.Revealed && i == m.Chosen:
			style = theme.Incorrect
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
