// Package teacher is the screen where a teacher pastes material, previews
// a personalized version of it and generates a quiz with answers shown.
package teacher

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/quiz"
	"github.com/abhisek/edututor/internal/screen"
	"github.com/abhisek/edututor/internal/tutor"
	"github.com/abhisek/edututor/internal/ui/components"
	"github.com/abhisek/edututor/internal/ui/layout"
	"github.com/abhisek/edututor/internal/ui/theme"
)

var difficulties = []string{"easy", "medium", "hard"}

type previewDoneMsg struct {
	sess tutor.Session
	err  error
}

type quizDoneMsg struct {
	sess tutor.Session
	err  error
}

// TeacherScreen edits teacher content and shows the preview and quiz.
type TeacherScreen struct {
	ws      *screen.Workspace
	editor  components.TextArea
	results viewport.Model
	busy    components.Busy

	difficulty int
	count      int

	status     string
	statusKind components.StatusKind
}

var _ screen.Screen = (*TeacherScreen)(nil)
var _ screen.KeyHintProvider = (*TeacherScreen)(nil)
var _ screen.InputCapturer = (*TeacherScreen)(nil)

// New creates a TeacherScreen, restoring any content already in the
// workspace session.
func New(ws *screen.Workspace) *TeacherScreen {
	cfg := ws.Tutor.Config()
	s := &TeacherScreen{
		ws:      ws,
		editor:  components.NewTextArea("Paste your lesson content here..."),
		results: viewport.New(),
		busy:    components.NewBusy(),
		count:   cfg.DefaultQuestions,
	}
	for i, d := range difficulties {
		if d == cfg.Difficulty {
			s.difficulty = i
		}
	}
	s.editor.SetValue(ws.Session.TeacherContent)
	s.refreshResults()
	return s
}

func (s *TeacherScreen) Init() tea.Cmd {
	return s.editor.Focus()
}

func (s *TeacherScreen) Title() string {
	return "Teacher"
}

// CapturingInput reports whether keys go to the editor.
func (s *TeacherScreen) CapturingInput() bool {
	return s.editor.Focused()
}

func (s *TeacherScreen) KeyHints() []layout.KeyHint {
	if s.editor.Focused() {
		return []layout.KeyHint{
			{Key: "Ctrl+P", Description: "Preview"},
			{Key: "Ctrl+G", Description: "Quiz"},
			{Key: "Esc", Description: "Done editing"},
		}
	}
	return []layout.KeyHint{
		{Key: "E", Description: "Edit"},
		{Key: "D", Description: "Difficulty"},
		{Key: "+/-", Description: "Questions"},
		{Key: "P", Description: "Preview"},
		{Key: "G", Description: "Quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TeacherScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case previewDoneMsg:
		s.busy = s.busy.Stop()
		if msg.err != nil {
			s.setStatus(screen.Describe(msg.err), components.StatusError)
			return s, nil
		}
		s.ws.Session = msg.sess
		s.setStatus("Preview ready.", components.StatusInfo)
		s.refreshResults()
		return s, nil

	case quizDoneMsg:
		s.busy = s.busy.Stop()
		if msg.err != nil {
			s.setStatus(screen.Describe(msg.err), components.StatusError)
			return s, nil
		}
		s.ws.Session = msg.sess
		s.reportBatch(msg.sess.TeacherQuiz)
		s.refreshResults()
		s.results.GotoTop()
		return s, nil

	case tea.KeyMsg:
		if s.editor.Focused() {
			return s.updateEditing(msg)
		}
		return s.updateBrowsing(msg)
	}

	var cmd tea.Cmd
	s.busy, cmd = s.busy.Update(msg)
	if s.editor.Focused() {
		var ecmd tea.Cmd
		s.editor, ecmd = s.editor.Update(msg)
		cmd = tea.Batch(cmd, ecmd)
	}
	return s, cmd
}

func (s *TeacherScreen) updateEditing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editor.Blur()
		return s, nil
	case "ctrl+p":
		return s, s.preview()
	case "ctrl+g":
		return s, s.generate()
	}
	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return s, cmd
}

func (s *TeacherScreen) updateBrowsing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "e", "i", "enter":
		return s, s.editor.Focus()
	case "d":
		s.difficulty = (s.difficulty + 1) % len(difficulties)
		return s, nil
	case "+", "=":
		if limit := s.ws.Tutor.Config().MaxQuestions; limit <= 0 || s.count < limit {
			s.count++
		}
		return s, nil
	case "-":
		if s.count > 1 {
			s.count--
		}
		return s, nil
	case "p", "ctrl+p":
		return s, s.preview()
	case "g", "ctrl+g":
		return s, s.generate()
	}
	var cmd tea.Cmd
	s.results, cmd = s.results.Update(msg)
	return s, cmd
}

// begin stores the editor content in the session and starts the spinner.
// It returns false when there is nothing to send or a call is running.
func (s *TeacherScreen) begin(label string) (tutor.Session, tea.Cmd, bool) {
	if s.busy.Active {
		return tutor.Session{}, nil, false
	}
	content := s.editor.Value()
	if strings.TrimSpace(content) == "" {
		s.setStatus(screen.Describe(tutor.ErrEmptyContent), components.StatusWarning)
		return tutor.Session{}, nil, false
	}
	s.ws.Session = s.ws.Session.WithTeacherContent(content)
	s.refreshResults()
	s.status = ""

	var tick tea.Cmd
	s.busy, tick = s.busy.Start(label)
	return s.ws.Session, tick, true
}

func (s *TeacherScreen) preview() tea.Cmd {
	sess, tick, ok := s.begin("Personalizing a preview...")
	if !ok {
		return nil
	}
	svc := s.ws.Tutor
	difficulty := difficulties[s.difficulty]
	return tea.Batch(tick, func() tea.Msg {
		next, err := svc.PreviewPersonalized(context.Background(), sess, difficulty)
		return previewDoneMsg{sess: next, err: err}
	})
}

func (s *TeacherScreen) generate() tea.Cmd {
	sess, tick, ok := s.begin(fmt.Sprintf("Writing %d questions...", s.count))
	if !ok {
		return nil
	}
	svc := s.ws.Tutor
	n := s.count
	return tea.Batch(tick, func() tea.Msg {
		next, err := svc.TeacherQuiz(context.Background(), sess, n)
		return quizDoneMsg{sess: next, err: err}
	})
}

func (s *TeacherScreen) reportBatch(b quiz.Batch) {
	switch {
	case b.Err() != nil:
		s.setStatus(screen.Describe(b.Err()), components.StatusError)
	case b.Short():
		s.setStatus(fmt.Sprintf("Only %d of %d questions could be read.", b.Len(), b.Requested), components.StatusWarning)
	default:
		s.setStatus(fmt.Sprintf("Quiz ready: %d questions.", b.Len()), components.StatusInfo)
	}
}

func (s *TeacherScreen) setStatus(msg string, kind components.StatusKind) {
	s.status = msg
	s.statusKind = kind
}

// refreshResults re-renders the preview and quiz into the viewport.
func (s *TeacherScreen) refreshResults() {
	width := s.results.Width()
	if width <= 0 {
		width = 80
	}
	s.results.SetContent(renderResults(s.ws.Session, width))
}

func renderResults(sess tutor.Session, width int) string {
	var b strings.Builder

	b.WriteString(theme.Heading.Render("Personalized preview"))
	b.WriteString("\n")
	if sess.Preview == "" {
		b.WriteString(theme.Hint.Render("Press P to personalize the start of your content."))
	} else {
		b.WriteString(components.Wrap(sess.Preview, width))
	}
	b.WriteString("\n\n")

	b.WriteString(theme.Heading.Render("Quiz"))
	b.WriteString("\n")
	if sess.TeacherQuiz.Empty() {
		b.WriteString(theme.Hint.Render("Press G to generate questions with answers."))
		return b.String()
	}
	for i, q := range sess.TeacherQuiz.Questions {
		b.WriteString(components.Wrap(theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", i+1, q.Text)), width))
		b.WriteString("\n")
		correct := q.AnswerIndex()
		for j, opt := range q.Options {
			if j == correct {
				b.WriteString(theme.Correct.Render("   ✓ " + opt))
			} else {
				b.WriteString(theme.Unselected.Render("     " + opt))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *TeacherScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	editorLines := 10
	if layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight) {
		editorLines = 5
	}
	s.editor.SetSize(cw-4, editorLines)

	settings := fmt.Sprintf("Difficulty: %s   Questions: %d",
		theme.Selected.Render(difficulties[s.difficulty]),
		s.count)

	statusLine := s.busy.View()
	if statusLine == "" && s.status != "" {
		statusLine = components.Status(s.status, s.statusKind)
	}

	top := []string{
		theme.Body.Render(settings),
		components.Panel("Content", s.editor.View(), cw, s.editor.Focused()),
		statusLine,
	}
	used := lipgloss.Height(strings.Join(top, "\n"))

	resultsHeight := height - used - 3
	if resultsHeight < 3 {
		resultsHeight = 3
	}
	if s.results.Width() != cw-4 || s.results.Height() != resultsHeight {
		s.results.SetWidth(cw - 4)
		s.results.SetHeight(resultsHeight)
		s.refreshResults()
	}
	top = append(top, components.Panel("", s.results.View(), cw, false))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(top, "\n"))
}
