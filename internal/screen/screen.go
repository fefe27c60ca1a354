package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/edututor/internal/store"
	"github.com/abhisek/edututor/internal/tutor"
	"github.com/abhisek/edututor/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that are currently editing
// text, so the app does not treat Esc or letter keys as navigation.
type InputCapturer interface {
	CapturingInput() bool
}

// Workspace is the state shared by the screens of one TUI run. Screens
// run on the Bubble Tea update loop, so no locking is needed; background
// commands must hand results back as messages instead of writing here.
type Workspace struct {
	// Tutor is nil when no LLM provider is configured.
	Tutor *tutor.Service

	// Events backs the LLM history screen. May be nil.
	Events store.EventRepo

	// Model is shown in the header.
	Model string

	// SetupErr explains why Tutor is nil.
	SetupErr error

	Session tutor.Session
}

// Ready reports whether AI features are available.
func (w *Workspace) Ready() bool {
	return w != nil && w.Tutor != nil
}

// SwitchRole starts a fresh session as role.
func (w *Workspace) SwitchRole(role tutor.Role) {
	w.Session = w.Session.Reset(role)
}
