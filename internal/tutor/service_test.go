package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/edututor/internal/llm"
	"github.com/abhisek/edututor/internal/quiz"
)

const twoQuestions = `Q1: What do plants need for photosynthesis?
A) Sunlight
B) Darkness
C) Salt
D) Sand
ANSWER: A
Q2: What gas do plants release?
A) Carbon dioxide
B) Oxygen
C) Helium
D) Neon
ANSWER: B`

func newTestService(responses ...llm.MockResponse) (*Service, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return NewService(llm.NewGateway(mock), DefaultConfig()), mock
}

func lastPrompt(t *testing.T, mock *llm.MockProvider) string {
	t.Helper()
	call := mock.LastCall()
	if len(call.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(call.Messages))
	}
	return call.Messages[0].Content
}

func TestPersonalize(t *testing.T) {
	svc, mock := newTestService(llm.MockResponse{Content: "Think of a leaf as a kitchen."})

	out, err := svc.Personalize(context.Background(), "Photosynthesis", "easy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Think of a leaf as a kitchen." {
		t.Errorf("got %q", out)
	}
	if p := lastPrompt(t, mock); !strings.Contains(p, "easy level student") {
		t.Errorf("prompt missing difficulty: %q", p)
	}
	if got := mock.LastCall().MaxTokens; got != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", got)
	}
}

func TestPersonalize_DefaultDifficulty(t *testing.T) {
	svc, mock := newTestService(llm.MockResponse{Content: "ok"})

	if _, err := svc.Personalize(context.Background(), "Gravity", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := lastPrompt(t, mock); !strings.Contains(p, "medium level student") {
		t.Errorf("prompt missing default difficulty: %q", p)
	}
}

func TestInputValidationSkipsLLM(t *testing.T) {
	svc, mock := newTestService()
	ctx := context.Background()

	checks := []struct {
		name string
		call func() error
		want error
	}{
		{"personalize blank", func() error { _, err := svc.Personalize(ctx, "  ", "easy"); return err }, ErrEmptyContent},
		{"quiz blank", func() error { _, err := svc.GenerateQuiz(ctx, "", 3); return err }, ErrEmptyContent},
		{"quiz zero", func() error { _, err := svc.GenerateQuiz(ctx, "text", 0); return err }, ErrInvalidQuestionCount},
		{"quiz over cap", func() error { _, err := svc.GenerateQuiz(ctx, "text", 11); return err }, ErrInvalidQuestionCount},
		{"simplify blank", func() error { _, err := svc.Simplify(ctx, "\n"); return err }, ErrEmptyContent},
		{"ask no question", func() error { _, err := svc.AnswerFollowUp(ctx, "", "context"); return err }, ErrEmptyQuestion},
		{"ask no context", func() error { _, err := svc.AnswerFollowUp(ctx, "why?", ""); return err }, ErrEmptyContent},
	}
	for _, c := range checks {
		if err := c.call(); !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}

	if n := mock.CallCount(); n != 0 {
		t.Errorf("expected no LLM calls, got %d", n)
	}
}

func TestGenerateQuiz_CountBounds(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService()
	_, err := svc.GenerateQuiz(ctx, "text", 11)
	if err == nil || !strings.Contains(err.Error(), "allowed 1-10") {
		t.Errorf("capped error = %v, want it to name the 1-10 range", err)
	}

	mock := llm.NewMockProvider(llm.MockResponse{Content: twoQuestions})
	cfg := DefaultConfig()
	cfg.MaxQuestions = 0
	uncapped := NewService(llm.NewGateway(mock), cfg)

	_, err = uncapped.GenerateQuiz(ctx, "text", 0)
	if !errors.Is(err, ErrInvalidQuestionCount) {
		t.Fatalf("expected ErrInvalidQuestionCount, got %v", err)
	}
	if strings.Contains(err.Error(), "1-0") {
		t.Errorf("uncapped error names an empty range: %v", err)
	}

	if _, err := uncapped.GenerateQuiz(ctx, "text", 25); err != nil {
		t.Errorf("uncapped service rejected 25 questions: %v", err)
	}
}

func TestGenerateQuiz(t *testing.T) {
	svc, mock := newTestService(llm.MockResponse{Content: twoQuestions})

	batch, err := svc.GenerateQuiz(context.Background(), "Plants make food from light.", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := batch.Err(); err != nil {
		t.Fatalf("unexpected batch error: %v", err)
	}
	if batch.Len() != 2 || batch.Requested != 2 {
		t.Fatalf("got %d questions (requested %d), want 2", batch.Len(), batch.Requested)
	}
	if got := batch.Questions[1].CorrectAnswer; got != "B) Oxygen" {
		t.Errorf("CorrectAnswer = %q", got)
	}

	if p := lastPrompt(t, mock); !strings.HasPrefix(p, "Generate 2 multiple-choice questions") {
		t.Errorf("unexpected prompt start: %q", p)
	}
	if got := mock.LastCall().MaxTokens; got != 2048 {
		t.Errorf("MaxTokens = %d, want 2048", got)
	}
}

func TestGenerateQuiz_NothingParsedIsNotGatewayFailure(t *testing.T) {
	svc, _ := newTestService(llm.MockResponse{Content: "I cannot write a quiz about that."})

	batch, err := svc.GenerateQuiz(context.Background(), "text", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !batch.Empty() {
		t.Errorf("expected empty batch, got %d questions", batch.Len())
	}
	if !errors.Is(batch.Err(), quiz.ErrNothingParsed) {
		t.Errorf("expected ErrNothingParsed, got %v", batch.Err())
	}
	if batch.Raw != "I cannot write a quiz about that." {
		t.Errorf("Raw = %q", batch.Raw)
	}
}

func TestGenerateQuiz_GatewayFailure(t *testing.T) {
	svc, _ := newTestService(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})

	_, err := svc.GenerateQuiz(context.Background(), "text", 3)
	var ce *llm.CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompletionError, got %v", err)
	}
	if ce.Purpose != llm.PurposeQuiz {
		t.Errorf("Purpose = %q, want %q", ce.Purpose, llm.PurposeQuiz)
	}
	if errors.Is(err, quiz.ErrNothingParsed) {
		t.Error("gateway failure must not look like an unreadable reply")
	}
}

func TestSimplify(t *testing.T) {
	svc, mock := newTestService(llm.MockResponse{Content: "Plants eat sunlight."})

	out, err := svc.Simplify(context.Background(), "Photosynthesis converts light energy.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Plants eat sunlight." {
		t.Errorf("got %q", out)
	}
	if p := lastPrompt(t, mock); !strings.Contains(p, "Photosynthesis converts light energy.") {
		t.Errorf("prompt missing text: %q", p)
	}
}

func TestAnswerFollowUp(t *testing.T) {
	svc, mock := newTestService(llm.MockResponse{Content: "Because of chlorophyll."})

	out, err := svc.AnswerFollowUp(context.Background(), "Why are leaves green?", "Leaves contain chlorophyll.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Because of chlorophyll." {
		t.Errorf("got %q", out)
	}

	prompt := lastPrompt(t, mock)
	for _, want := range []string{"Leaves contain chlorophyll.", "Why are leaves green?"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestModelOverride(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "ok"})
	cfg := DefaultConfig()
	cfg.Model = "google/gemma-3-27b-it:free"
	svc := NewService(llm.NewGateway(mock), cfg)

	if _, err := svc.Simplify(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mock.LastCall().Model; got != "google/gemma-3-27b-it:free" {
		t.Errorf("Model = %q", got)
	}
}

type stubParser struct{ calls int }

func (p *stubParser) Parse(raw string, requested int) quiz.Batch {
	p.calls++
	return quiz.Batch{Raw: raw, Requested: requested}
}

func TestWithParser(t *testing.T) {
	parser := &stubParser{}
	mock := llm.NewMockProvider(llm.MockResponse{Content: twoQuestions})
	svc := NewService(llm.NewGateway(mock), DefaultConfig(), WithParser(parser))

	batch, err := svc.GenerateQuiz(context.Background(), "text", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parser.calls != 1 {
		t.Errorf("parser called %d times, want 1", parser.calls)
	}
	if !batch.Empty() {
		t.Errorf("expected the stub's empty batch, got %d questions", batch.Len())
	}
}

func TestGrade(t *testing.T) {
	svc, _ := newTestService(llm.MockResponse{Content: twoQuestions})
	batch, err := svc.GenerateQuiz(context.Background(), "text", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := svc.Grade(quiz.Answers{batch.Questions[0].ID: "A) Sunlight"}, batch)
	if result.Score != 1 || result.Total != 2 {
		t.Errorf("score = %d/%d, want 1/2", result.Score, result.Total)
	}
	if len(result.Feedback) != 2 {
		t.Errorf("got %d feedback lines, want 2", len(result.Feedback))
	}
}
