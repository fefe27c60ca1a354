// Package practice is the screen where a student answers the quiz built
// from their text, submits it once and reviews the graded result.
package practice

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/quiz"
	"github.com/abhisek/edututor/internal/screen"
	"github.com/abhisek/edututor/internal/tutor"
	"github.com/abhisek/edututor/internal/ui/components"
	"github.com/abhisek/edututor/internal/ui/layout"
	"github.com/abhisek/edututor/internal/ui/theme"
)

// PracticeScreen presents the student quiz one question at a time.
type PracticeScreen struct {
	ws        *screen.Workspace
	batch     quiz.Batch
	questions []components.MultiChoice
	current   int
	status    string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New builds the screen from the workspace's student quiz. A quiz that
// was already submitted opens in review mode.
func New(ws *screen.Workspace) *PracticeScreen {
	batch := ws.Session.StudentQuiz
	p := &PracticeScreen{
		ws:        ws,
		batch:     batch,
		questions: make([]components.MultiChoice, len(batch.Questions)),
	}
	for i, q := range batch.Questions {
		mc := components.NewMultiChoice(fmt.Sprintf("%d. %s", i+1, q.Text), q.Options)
		if picked, ok := ws.Session.Answers[q.ID]; ok {
			for j, opt := range q.Options {
				if opt == picked {
					mc.Chosen = j
					mc.Selected = j
				}
			}
		}
		p.questions[i] = mc
	}
	if ws.Session.Submitted {
		p.reveal()
	}
	return p
}

func (p *PracticeScreen) Init() tea.Cmd {
	return nil
}

func (p *PracticeScreen) Title() string {
	return "Quiz"
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	if p.submitted() {
		return []layout.KeyHint{
			{Key: "←→", Description: "Review"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "A-D", Description: "Answer"},
		{Key: "←→", Description: "Question"},
		{Key: "S", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PracticeScreen) submitted() bool {
	return p.ws.Session.Submitted
}

// Answered returns how many questions have a picked option.
func (p *PracticeScreen) Answered() int {
	n := 0
	for _, q := range p.questions {
		if q.Answered() {
			n++
		}
	}
	return n
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(p.questions) == 0 {
		return p, nil
	}

	switch kmsg.String() {
	case "left", "h", "p":
		if p.current > 0 {
			p.current--
		}
		return p, nil
	case "right", "l", "n":
		if p.current < len(p.questions)-1 {
			p.current++
		}
		return p, nil
	case "s", "ctrl+s":
		p.submit()
		return p, nil
	}

	if p.submitted() {
		return p, nil
	}

	before := p.questions[p.current].Chosen
	var cmd tea.Cmd
	p.questions[p.current], cmd = p.questions[p.current].Update(msg)
	if chosen := p.questions[p.current].Chosen; chosen >= 0 && chosen != before && p.current < len(p.questions)-1 {
		p.current++
	}
	return p, cmd
}

func (p *PracticeScreen) submit() {
	if p.submitted() {
		p.status = screen.Describe(tutor.ErrAlreadySubmitted)
		return
	}
	answers := quiz.Answers{}
	for i, q := range p.batch.Questions {
		if opt, ok := p.questions[i].Answer(); ok {
			answers[q.ID] = opt
		}
	}
	next, err := p.ws.Tutor.Submit(p.ws.Session, answers)
	if err != nil {
		p.status = screen.Describe(err)
		return
	}
	p.ws.Session = next
	p.status = ""
	p.current = 0
	p.reveal()
}

func (p *PracticeScreen) reveal() {
	for i, q := range p.batch.Questions {
		p.questions[i] = p.questions[i].Reveal(q.AnswerIndex())
	}
}

func (p *PracticeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if len(p.questions) == 0 {
		return components.Centered(theme.Hint.Render("There is no quiz yet."), width, height)
	}

	var sections []string

	if res := p.ws.Session.Result; p.submitted() && res != nil {
		score := fmt.Sprintf("Score: %d/%d", res.Score, res.Total)
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Title.Render(score)))
	} else {
		sections = append(sections, components.NewProgressBar("Answered", p.Answered(), len(p.questions), cw).View())
	}

	body := components.Wrap(p.questions[p.current].View(), cw-4)
	if res := p.ws.Session.Result; p.submitted() && res != nil && p.current < len(res.Feedback) {
		line := res.Feedback[p.current]
		style := theme.Incorrect
		if strings.HasSuffix(line, " - correct") {
			style = theme.Correct
		}
		body += "\n" + components.Wrap(style.Render(line), cw-4)
	}
	sections = append(sections, components.Panel(
		fmt.Sprintf("Question %d of %d", p.current+1, len(p.questions)), body, cw, true))

	sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(p.dots()))

	if p.status != "" {
		sections = append(sections, components.Status(p.status, components.StatusWarning))
	}

	return components.Centered(strings.Join(sections, "\n\n"), width, height)
}

// dots renders one marker per question: filled when answered, ringed for
// the current one.
func (p *PracticeScreen) dots() string {
	marks := make([]string, len(p.questions))
	for i, q := range p.questions {
		mark := "○"
		if q.Answered() {
			mark = "●"
		}
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case i == p.current:
			style = theme.Selected
		case q.Revealed && q.Chosen == q.Correct:
			style = theme.Correct
		case q.Revealed:
			style = theme.Incorrect
		}
		marks[i] = style.Render(mark)
	}
	return strings.Join(marks, " ")
}
