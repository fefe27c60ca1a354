package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// TextArea wraps bubbles/textarea for pasting paragraphs of study
// material.
type TextArea struct {
	Model textarea.Model
}

// NewTextArea creates a focused, unlimited text area.
func NewTextArea(placeholder string) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()
	return TextArea{Model: ta}
}

// Update handles messages.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text area.
func (t TextArea) View() string {
	return t.Model.View()
}

// Value returns the text.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text.
func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
}

// SetSize sets the visible width and height.
func (t *TextArea) SetSize(width, height int) {
	t.Model.SetWidth(width)
	t.Model.SetHeight(height)
}

// Focus focuses the text area.
func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextArea) Blur() {
	t.Model.Blur()
}

// Focused reports whether the text area has focus.
func (t TextArea) Focused() bool {
	return t.Model.Focused()
}
