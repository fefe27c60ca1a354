package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/ui/theme"
)

// ContentWidth returns the uniform inner width for stacked sections so
// they line up. It keeps prose at a readable measure.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 90 {
		w = 90
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel renders a titled, bordered box at content width cw. Focused panels
// get the primary border color.
func Panel(title, body string, cw int, focused bool) string {
	style := theme.Card
	if focused {
		style = theme.FocusedCard
	}
	var b strings.Builder
	if title != "" {
		b.WriteString(theme.Heading.Render(title))
		b.WriteString("\n")
	}
	b.WriteString(body)
	return style.Width(cw).Render(b.String())
}

// Wrap hard-wraps s to width cells for display inside a panel.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

// Centered places content in the middle of a width x height area.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Status renders a one-line status message: errors in red, warnings in
// yellow, anything else dimmed.
func Status(msg string, kind StatusKind) string {
	switch kind {
	case StatusError:
		return theme.Incorrect.Render(msg)
	case StatusWarning:
		return theme.Warning.Render(msg)
	default:
		return theme.Hint.Render(msg)
	}
}

// StatusKind selects the Status style.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusWarning
	StatusError
)
