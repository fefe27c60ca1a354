// Package tutor orchestrates the tutor tasks: personalize, quiz,
// simplify, follow-up answering and grading.
package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/edututor/internal/llm"
	"github.com/abhisek/edututor/internal/prompts"
	"github.com/abhisek/edututor/internal/quiz"
)

// Completer sends a prompt to the LLM. *llm.Gateway implements it.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...llm.CompleteOption) (string, error)
}

// Service runs tutor tasks against a Completer.
type Service struct {
	llm    Completer
	parser quiz.Parser
	cfg    Config
}

// Option configures a Service.
type Option func(*Service)

// WithParser replaces the default grammar parser.
func WithParser(p quiz.Parser) Option {
	return func(s *Service) { s.parser = p }
}

// NewService creates a tutor service.
func NewService(c Completer, cfg Config, opts ...Option) *Service {
	s := &Service{
		llm:    c,
		parser: quiz.NewGrammarParser(),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Personalize rewrites content for a student at difficulty. An empty
// difficulty uses the configured default.
func (s *Service) Personalize(ctx context.Context, content, difficulty string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	if strings.TrimSpace(difficulty) == "" {
		difficulty = s.cfg.Difficulty
	}

	ctx = llm.WithPurpose(ctx, llm.PurposePersonalize)
	out, err := s.llm.Complete(ctx, prompts.Personalize(content, difficulty), s.textOpts()...)
	if err != nil {
		return "", fmt.Errorf("personalize: %w", err)
	}
	return out, nil
}

// GenerateQuiz asks for n questions about content and parses the
// completion. A gateway failure is returned as an error; a completion
// that yields no questions is not, check Batch.Err.
func (s *Service) GenerateQuiz(ctx context.Context, content string, n int) (quiz.Batch, error) {
	if strings.TrimSpace(content) == "" {
		return quiz.Batch{}, ErrEmptyContent
	}
	if err := s.checkCount(n); err != nil {
		return quiz.Batch{}, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)
	raw, err := s.llm.Complete(ctx, prompts.Quiz(content, n), s.quizOpts()...)
	if err != nil {
		return quiz.Batch{}, fmt.Errorf("generate quiz: %w", err)
	}

	batch := s.parser.Parse(raw, n)
	if len(batch.Anomalies) > 0 || batch.Short() {
		slog.InfoContext(ctx, "quiz parsed with gaps",
			"requested", n,
			"parsed", batch.Len(),
			"anomalies", len(batch.Anomalies))
	}
	return batch, nil
}

// checkCount rejects n outside 1..MaxQuestions. A zero MaxQuestions
// means no upper bound.
func (s *Service) checkCount(n int) error {
	limit := s.cfg.MaxQuestions
	switch {
	case limit > 0 && (n < 1 || n > limit):
		return fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidQuestionCount, n, limit)
	case n < 1:
		return fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidQuestionCount, n)
	}
	return nil
}

// Simplify explains text in plain language.
func (s *Service) Simplify(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeSimplify)
	out, err := s.llm.Complete(ctx, prompts.Simplify(text), s.textOpts()...)
	if err != nil {
		return "", fmt.Errorf("simplify: %w", err)
	}
	return out, nil
}

// AnswerFollowUp answers question using only contextText.
func (s *Service) AnswerFollowUp(ctx context.Context, question, contextText string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	if strings.TrimSpace(contextText) == "" {
		return "", ErrEmptyContent
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeFollowUp)
	out, err := s.llm.Complete(ctx, prompts.FollowUp(question, contextText), s.textOpts()...)
	if err != nil {
		return "", fmt.Errorf("answer follow-up: %w", err)
	}
	return out, nil
}

// Grade scores answers against batch.
func (s *Service) Grade(answers quiz.Answers, batch quiz.Batch) quiz.GradeResult {
	return quiz.Grade(answers, batch)
}

func (s *Service) textOpts() []llm.CompleteOption {
	return s.opts(s.cfg.TextMaxTokens, s.cfg.Temperature)
}

func (s *Service) quizOpts() []llm.CompleteOption {
	return s.opts(s.cfg.QuizMaxTokens, s.cfg.QuizTemperature)
}

func (s *Service) opts(maxTokens int, temperature float64) []llm.CompleteOption {
	var opts []llm.CompleteOption
	if s.cfg.Model != "" {
		opts = append(opts, llm.WithModel(s.cfg.Model))
	}
	if maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(maxTokens))
	}
	if temperature > 0 {
		opts = append(opts, llm.WithTemperature(temperature))
	}
	return opts
}
