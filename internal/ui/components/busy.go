package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/ui/theme"
)

// Busy is a spinner with a label, shown while an LLM call is in flight.
type Busy struct {
	spinner spinner.Model
	Label   string
	Active  bool
}

// NewBusy creates an idle Busy indicator.
func NewBusy() Busy {
	return Busy{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

// Start activates the indicator and returns the first tick.
func (b Busy) Start(label string) (Busy, tea.Cmd) {
	b.Active = true
	b.Label = label
	return b, b.spinner.Tick
}

// Stop deactivates the indicator; pending ticks are dropped.
func (b Busy) Stop() Busy {
	b.Active = false
	return b
}

// Update advances the animation while active.
func (b Busy) Update(msg tea.Msg) (Busy, tea.Cmd) {
	if !b.Active {
		return b, nil
	}
	var cmd tea.Cmd
	b.spinner, cmd = b.spinner.Update(msg)
	return b, cmd
}

// View renders the spinner and label, or nothing when idle.
func (b Busy) View() string {
	if !b.Active {
		return ""
	}
	return b.spinner.View() + " " + theme.Hint.Render(b.Label)
}
