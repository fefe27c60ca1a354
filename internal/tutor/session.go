package tutor

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/abhisek/edututor/internal/quiz"
)

// Role is who is using the session.
type Role string

const (
	RoleNone    Role = ""
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole maps user input to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleTeacher:
		return RoleTeacher, true
	}
	return RoleNone, false
}

// Exchange is one follow-up question and its answer.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is the state of one user's visit. It is a value: operations
// return an updated copy and never modify the Session they were given,
// so a failed operation leaves the caller's state untouched.
type Session struct {
	Role Role `json:"role"`

	// Teacher side.
	TeacherContent string     `json:"teacher_content,omitempty"`
	Preview        string     `json:"preview,omitempty"`
	TeacherQuiz    quiz.Batch `json:"teacher_quiz"`

	// Student side.
	StudentText   string            `json:"student_text,omitempty"`
	ProcessedText string            `json:"processed_text,omitempty"`
	Simplified    string            `json:"simplified,omitempty"`
	StudentQuiz   quiz.Batch        `json:"student_quiz"`
	Answers       quiz.Answers      `json:"answers,omitempty"`
	Submitted     bool              `json:"submitted"`
	Result        *quiz.GradeResult `json:"result,omitempty"`
	Conversation  []Exchange        `json:"conversation,omitempty"`
}

// NewSession returns a fresh session for role.
func NewSession(role Role) Session {
	return Session{Role: role}
}

// Reset discards every per-session field and starts over as role.
func (s Session) Reset(role Role) Session {
	return NewSession(role)
}

// ClearStudentWork drops the processed text and everything derived from
// it, keeping the role and the text the student typed.
func (s Session) ClearStudentWork() Session {
	return Session{
		Role:           s.Role,
		TeacherContent: s.TeacherContent,
		Preview:        s.Preview,
		TeacherQuiz:    s.TeacherQuiz,
		StudentText:    s.StudentText,
	}
}

// WithTeacherContent sets the teacher's content, dropping results derived
// from earlier content.
func (s Session) WithTeacherContent(content string) Session {
	if content == s.TeacherContent {
		return s
	}
	s.TeacherContent = content
	s.Preview = ""
	s.TeacherQuiz = quiz.Batch{}
	return s
}

// WithStudentText sets the student's input text.
func (s Session) WithStudentText(text string) Session {
	s.StudentText = text
	return s
}

// PreviewPersonalized personalizes the start of the teacher's content.
func (svc *Service) PreviewPersonalized(ctx context.Context, s Session, difficulty string) (Session, error) {
	content := truncateRunes(s.TeacherContent, svc.cfg.PreviewChars)
	out, err := svc.Personalize(ctx, content, difficulty)
	if err != nil {
		return s, err
	}
	s.Preview = out
	return s, nil
}

// TeacherQuiz generates a quiz of n questions from the teacher's content.
func (svc *Service) TeacherQuiz(ctx context.Context, s Session, n int) (Session, error) {
	batch, err := svc.GenerateQuiz(ctx, s.TeacherContent, n)
	if err != nil {
		return s, err
	}
	s.TeacherQuiz = batch
	return s, nil
}

// ProcessStudentText simplifies the student's text and builds a quiz of
// the default size from it. Answers, the submitted flag and the
// conversation start over.
func (svc *Service) ProcessStudentText(ctx context.Context, s Session) (Session, error) {
	text := s.StudentText
	simplified, err := svc.Simplify(ctx, text)
	if err != nil {
		return s, err
	}
	batch, err := svc.GenerateQuiz(ctx, text, svc.cfg.DefaultQuestions)
	if err != nil {
		return s, err
	}

	next := s.ClearStudentWork()
	next.ProcessedText = text
	next.Simplified = simplified
	next.StudentQuiz = batch
	return next, nil
}

// Ask answers a follow-up question about the processed text and appends
// the exchange to the conversation.
func (svc *Service) Ask(ctx context.Context, s Session, question string) (Session, error) {
	if strings.TrimSpace(s.ProcessedText) == "" {
		return s, ErrNoContext
	}
	answer, err := svc.AnswerFollowUp(ctx, question, s.ProcessedText)
	if err != nil {
		return s, err
	}
	s.Conversation = append(slices.Clip(s.Conversation), Exchange{Question: question, Answer: answer})
	return s, nil
}

// Submit grades answers against the student quiz and marks it submitted.
func (svc *Service) Submit(s Session, answers quiz.Answers) (Session, error) {
	if s.StudentQuiz.Empty() {
		return s, ErrNoQuiz
	}
	if s.Submitted {
		return s, ErrAlreadySubmitted
	}
	s.Answers = maps.Clone(answers)
	if s.Answers == nil {
		s.Answers = quiz.Answers{}
	}
	result := svc.Grade(s.Answers, s.StudentQuiz)
	s.Result = &result
	s.Submitted = true
	return s, nil
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
