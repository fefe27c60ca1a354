package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/router"
	"github.com/abhisek/edututor/internal/screen"
	"github.com/abhisek/edututor/internal/store"
	"github.com/abhisek/edututor/internal/ui/layout"
	"github.com/abhisek/edututor/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Events []store.LLMEvent
	Usage  []store.PurposeUsage
	Err    error
}

// HistoryScreen lists recent LLM calls with token usage.
type HistoryScreen struct {
	eventRepo store.EventRepo
	events    []store.LLMEvent
	usage     []store.PurposeUsage
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		events, err := s.eventRepo.QueryLLMEvents(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Usage totals are a nice-to-have; show the list without them.
		usage, err := s.eventRepo.LLMUsageByPurpose(ctx)
		if err != nil {
			return historyLoadedMsg{Events: events}
		}
		return historyLoadedMsg{Events: events, Usage: usage}
	}
}

func (s *HistoryScreen) Title() string {
	return "LLM History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.usage = msg.Usage
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No LLM calls yet.")
	}

	var lines []string
	lines = append(lines, "")
	if u := s.usageLine(); u != "" {
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(u)), "")
	}

	for i, ev := range s.events {
		status := theme.Correct.Render("ok ")
		if !ev.Success {
			status = theme.Incorrect.Render("err")
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-12s %-28s %5d→%-5d %6dms ",
			prefix, ev.Timestamp.Local().Format("Jan 02 15:04"), ev.Purpose,
			truncate(ev.Model, 28), ev.InputTokens, ev.OutputTokens, ev.LatencyMs)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)+status))

		if s.expanded[i] {
			lines = append(lines, s.details(ev, width)...)
		}
	}

	// Keep the selected row on screen.
	if len(lines) > height && height > 0 {
		start := s.selected + 3 - height/2
		start = max(0, min(start, len(lines)-height))
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}

func (s *HistoryScreen) usageLine() string {
	parts := make([]string, 0, len(s.usage))
	for _, u := range s.usage {
		parts = append(parts, fmt.Sprintf("%s: %d calls, %d tokens", u.Purpose, u.Calls, u.InputTokens+u.OutputTokens))
	}
	return strings.Join(parts, "   ")
}

func (s *HistoryScreen) details(ev store.LLMEvent, width int) []string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var out []string
	add := func(label, value string) {
		value = truncate(strings.Join(strings.Fields(value), " "), 200)
		out = append(out, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.Width(min(width-8, 90)).Render("    "+label+": "+value)))
	}
	add("provider", ev.Provider)
	if ev.ErrorMessage != "" {
		add("error", ev.ErrorMessage)
	}
	if ev.ResponseBody != "" {
		add("response", ev.ResponseBody)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
