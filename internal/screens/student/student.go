// Package student is the screen where a student pastes study text, gets
// a simplified explanation and a quiz, and asks follow-up questions.
package student

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/router"
	"github.com/abhisek/edututor/internal/screen"
	"github.com/abhisek/edututor/internal/screens/practice"
	"github.com/abhisek/edututor/internal/tutor"
	"github.com/abhisek/edututor/internal/ui/components"
	"github.com/abhisek/edututor/internal/ui/layout"
	"github.com/abhisek/edututor/internal/ui/theme"
)

type focus int

const (
	focusText focus = iota
	focusQuestion
	focusNone
)

type processDoneMsg struct {
	sess tutor.Session
	err  error
}

type askDoneMsg struct {
	sess tutor.Session
	err  error
}

// StudentScreen drives the student workflow.
type StudentScreen struct {
	ws       *screen.Workspace
	text     components.TextArea
	question components.TextInput
	results  viewport.Model
	busy     components.Busy
	focus    focus

	status     string
	statusKind components.StatusKind
}

var _ screen.Screen = (*StudentScreen)(nil)
var _ screen.KeyHintProvider = (*StudentScreen)(nil)
var _ screen.InputCapturer = (*StudentScreen)(nil)

// New creates a StudentScreen, restoring the text already in the
// workspace session.
func New(ws *screen.Workspace) *StudentScreen {
	s := &StudentScreen{
		ws:       ws,
		text:     components.NewTextArea("Paste or type what you are studying..."),
		question: components.NewTextInput("Ask about the text and press Enter", 500),
		results:  viewport.New(),
		busy:     components.NewBusy(),
	}
	s.text.SetValue(ws.Session.StudentText)
	s.question.Blur()
	if ws.Session.ProcessedText != "" {
		s.setFocus(focusNone)
	}
	return s
}

func (s *StudentScreen) Init() tea.Cmd {
	return s.setFocus(s.focus)
}

func (s *StudentScreen) Title() string {
	return "Student"
}

// CapturingInput reports whether keys go to a text field.
func (s *StudentScreen) CapturingInput() bool {
	return s.focus != focusNone
}

func (s *StudentScreen) KeyHints() []layout.KeyHint {
	switch s.focus {
	case focusText:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Simplify & quiz"},
			{Key: "Tab", Description: "Next field"},
			{Key: "Esc", Description: "Done editing"},
		}
	case focusQuestion:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Ask"},
			{Key: "Tab", Description: "Next field"},
			{Key: "Esc", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "E", Description: "Edit"},
		{Key: "S", Description: "Simplify & quiz"},
		{Key: "T", Description: "Take quiz"},
		{Key: "?", Description: "Ask"},
		{Key: "N", Description: "New text"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StudentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case processDoneMsg:
		s.busy = s.busy.Stop()
		if msg.err != nil {
			s.setStatus(screen.Describe(msg.err), components.StatusError)
			return s, nil
		}
		s.ws.Session = msg.sess
		b := msg.sess.StudentQuiz
		switch {
		case b.Err() != nil:
			s.setStatus("Simplified. "+screen.Describe(b.Err()), components.StatusWarning)
		case b.Empty():
			s.setStatus("Simplified, but no quiz came back.", components.StatusWarning)
		default:
			s.setStatus(fmt.Sprintf("Simplified. %d quiz questions ready, press T.", b.Len()), components.StatusInfo)
		}
		s.results.GotoTop()
		return s, s.setFocus(focusQuestion)

	case askDoneMsg:
		s.busy = s.busy.Stop()
		if msg.err != nil {
			s.setStatus(screen.Describe(msg.err), components.StatusError)
			return s, nil
		}
		s.ws.Session = msg.sess
		s.question.Reset()
		s.status = ""
		s.refreshResults()
		s.results.GotoBottom()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return s, s.process()
		case "ctrl+t":
			return s, s.takeQuiz()
		case "tab":
			return s, s.setFocus(s.nextFocus())
		}
		switch s.focus {
		case focusText:
			return s.updateText(msg)
		case focusQuestion:
			return s.updateQuestion(msg)
		}
		return s.updateBrowsing(msg)
	}

	var cmd tea.Cmd
	s.busy, cmd = s.busy.Update(msg)
	return s, cmd
}

func (s *StudentScreen) updateText(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		return s, s.setFocus(focusNone)
	}
	var cmd tea.Cmd
	s.text, cmd = s.text.Update(msg)
	return s, cmd
}

func (s *StudentScreen) updateQuestion(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, s.setFocus(focusNone)
	case "enter":
		return s, s.ask()
	}
	var cmd tea.Cmd
	s.question, cmd = s.question.Update(msg)
	return s, cmd
}

func (s *StudentScreen) updateBrowsing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "e", "i":
		return s, s.setFocus(focusText)
	case "?", "/":
		return s, s.setFocus(focusQuestion)
	case "s":
		return s, s.process()
	case "t":
		return s, s.takeQuiz()
	case "n":
		if s.busy.Active {
			return s, nil
		}
		s.ws.Session = s.ws.Session.WithStudentText("").ClearStudentWork()
		s.text.SetValue("")
		s.status = ""
		return s, s.setFocus(focusText)
	}
	var cmd tea.Cmd
	s.results, cmd = s.results.Update(msg)
	return s, cmd
}

func (s *StudentScreen) nextFocus() focus {
	switch s.focus {
	case focusText:
		if s.ws.Session.ProcessedText != "" {
			return focusQuestion
		}
		return focusNone
	case focusQuestion:
		return focusNone
	}
	return focusText
}

func (s *StudentScreen) setFocus(f focus) tea.Cmd {
	s.focus = f
	s.text.Blur()
	s.question.Blur()
	switch f {
	case focusText:
		return s.text.Focus()
	case focusQuestion:
		return s.question.Focus()
	}
	return nil
}

func (s *StudentScreen) process() tea.Cmd {
	if s.busy.Active {
		return nil
	}
	text := s.text.Value()
	if strings.TrimSpace(text) == "" {
		s.setStatus(screen.Describe(tutor.ErrEmptyContent), components.StatusWarning)
		return nil
	}
	s.ws.Session = s.ws.Session.WithStudentText(text)
	sess := s.ws.Session
	svc := s.ws.Tutor
	s.status = ""

	var tick tea.Cmd
	s.busy, tick = s.busy.Start("Simplifying and writing a quiz...")
	return tea.Batch(tick, func() tea.Msg {
		next, err := svc.ProcessStudentText(context.Background(), sess)
		return processDoneMsg{sess: next, err: err}
	})
}

func (s *StudentScreen) ask() tea.Cmd {
	if s.busy.Active {
		return nil
	}
	question := strings.TrimSpace(s.question.Value())
	if question == "" {
		s.setStatus(screen.Describe(tutor.ErrEmptyQuestion), components.StatusWarning)
		return nil
	}
	if s.ws.Session.ProcessedText == "" {
		s.setStatus(screen.Describe(tutor.ErrNoContext), components.StatusWarning)
		return nil
	}
	sess := s.ws.Session
	svc := s.ws.Tutor
	s.status = ""

	var tick tea.Cmd
	s.busy, tick = s.busy.Start("Thinking...")
	return tea.Batch(tick, func() tea.Msg {
		next, err := svc.Ask(context.Background(), sess, question)
		return askDoneMsg{sess: next, err: err}
	})
}

func (s *StudentScreen) takeQuiz() tea.Cmd {
	if s.busy.Active {
		return nil
	}
	if s.ws.Session.StudentQuiz.Empty() {
		s.setStatus(screen.Describe(tutor.ErrNoQuiz), components.StatusWarning)
		return nil
	}
	next := practice.New(s.ws)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (s *StudentScreen) setStatus(msg string, kind components.StatusKind) {
	s.status = msg
	s.statusKind = kind
}

func (s *StudentScreen) refreshResults() {
	width := s.results.Width()
	if width <= 0 {
		width = 80
	}
	s.results.SetContent(renderResults(s.ws.Session, width))
}

func renderResults(sess tutor.Session, width int) string {
	var b strings.Builder

	b.WriteString(theme.Heading.Render("Simplified"))
	b.WriteString("\n")
	if sess.Simplified == "" {
		b.WriteString(theme.Hint.Render("Press Ctrl+S to get a plain-language explanation and a quiz."))
	} else {
		b.WriteString(components.Wrap(sess.Simplified, width))
	}
	b.WriteString("\n\n")

	b.WriteString(theme.Heading.Render("Quiz"))
	b.WriteString("\n")
	switch {
	case sess.StudentQuiz.Empty():
		b.WriteString(theme.Hint.Render("No quiz yet."))
	case sess.Submitted && sess.Result != nil:
		b.WriteString(theme.Selected.Render(fmt.Sprintf("Score: %d/%d", sess.Result.Score, sess.Result.Total)))
		b.WriteString("\n")
		for _, line := range sess.Result.Feedback {
			style := theme.Incorrect
			if strings.HasSuffix(line, " - correct") {
				style = theme.Correct
			}
			b.WriteString(components.Wrap(style.Render(line), width))
			b.WriteString("\n")
		}
	default:
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d questions ready. Press T to take the quiz.", sess.StudentQuiz.Len())))
	}
	b.WriteString("\n\n")

	if len(sess.Conversation) > 0 {
		b.WriteString(theme.Heading.Render("Your questions"))
		b.WriteString("\n")
		for _, ex := range sess.Conversation {
			b.WriteString(components.Wrap(theme.Selected.Render("Q: ")+ex.Question, width))
			b.WriteString("\n")
			b.WriteString(components.Wrap(theme.Body.Render("A: "+ex.Answer), width))
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func (s *StudentScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	textLines := 8
	if layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight) {
		textLines = 4
	}
	s.text.SetSize(cw-4, textLines)
	s.question.SetWidth(cw - 8)

	statusLine := s.busy.View()
	if statusLine == "" && s.status != "" {
		statusLine = components.Status(s.status, s.statusKind)
	}

	top := []string{
		components.Panel("Study text", s.text.View(), cw, s.focus == focusText),
	}
	bottom := []string{
		components.Panel("Ask a question", s.question.View(), cw, s.focus == focusQuestion),
		statusLine,
	}
	used := lipgloss.Height(strings.Join(top, "\n")) + lipgloss.Height(strings.Join(bottom, "\n"))

	resultsHeight := height - used - 3
	if resultsHeight < 3 {
		resultsHeight = 3
	}
	s.results.SetWidth(cw - 4)
	s.results.SetHeight(resultsHeight)
	s.refreshResults()

	sections := append(top, components.Panel("", s.results.View(), cw, false))
	sections = append(sections, bottom...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n"))
}
