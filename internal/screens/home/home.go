package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/router"
	"github.com/abhisek/edututor/internal/screen"
	"github.com/abhisek/edututor/internal/screens/history"
	"github.com/abhisek/edututor/internal/screens/notice"
	"github.com/abhisek/edututor/internal/screens/student"
	"github.com/abhisek/edututor/internal/screens/teacher"
	"github.com/abhisek/edututor/internal/tutor"
	"github.com/abhisek/edututor/internal/ui/components"
	"github.com/abhisek/edututor/internal/ui/theme"
)

const titleCompact = "E · D · U · T · U · T · O · R"

// HomeScreen lets the user pick a role.
type HomeScreen struct {
	ws   *screen.Workspace
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen over the shared workspace.
func New(ws *screen.Workspace) *HomeScreen {
	h := &HomeScreen{ws: ws}

	items := []components.MenuItem{
		{Label: "I'M A STUDENT", Action: func() tea.Cmd {
			return h.enter(tutor.RoleStudent, "Student", func() screen.Screen { return student.New(ws) })
		}},
		{Label: "I'M A TEACHER", Action: func() tea.Cmd {
			return h.enter(tutor.RoleTeacher, "Teacher", func() screen.Screen { return teacher.New(ws) })
		}},
		{Label: "LLM HISTORY", Disabled: ws.Events == nil, Action: func() tea.Cmd {
			return push(history.New(ws.Events))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

// enter switches the workspace to role, starting a fresh session, and
// opens the role's screen.
func (h *HomeScreen) enter(role tutor.Role, title string, next func() screen.Screen) tea.Cmd {
	if !h.ws.Ready() {
		return push(notice.Unavailable(title, h.ws.SetupErr))
	}
	if h.ws.Session.Role != role {
		h.ws.SwitchRole(role)
	}
	return push(next())
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 60 {
		cw = 60
	}

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render(titleCompact)))
	sections = append(sections, theme.Subtitle.Width(cw).Render("Who is learning today?"))
	sections = append(sections, components.Panel("", h.menu.View(), cw, true))

	if !h.ws.Ready() {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(components.Status("No LLM provider configured", components.StatusWarning)))
	} else if h.ws.Session.Role != tutor.RoleNone {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Hint.Render("Current session: "+string(h.ws.Session.Role))))
	}

	return components.Centered(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
