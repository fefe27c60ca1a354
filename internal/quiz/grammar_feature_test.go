package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
)

func TestGrammarFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-grammar",
		ScenarioInitializer: initializeGrammarScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/grammar.feature"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

type grammarScenario struct {
	raw       string
	requested int
	batch     Batch
}

func initializeGrammarScenario(ctx *godog.ScenarioContext) {
	s := &grammarScenario{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*s = grammarScenario{}
		return ctx, nil
	})

	ctx.Step(`^a completion requested with (\d+) questions:$`, s.givenCompletion)
	ctx.Step(`^the completion is parsed$`, s.whenParsed)
	ctx.Step(`^the batch has (\d+) questions$`, s.thenCount)
	ctx.Step(`^question (\d+) reads "([^"]*)"$`, s.thenStem)
	ctx.Step(`^question (\d+) has correct answer "([^"]*)"$`, s.thenAnswer)
	ctx.Step(`^question (\d+) has option (\d+) "([^"]*)"$`, s.thenOption)
	ctx.Step(`^block (\d+) is reported as "([^"]*)"$`, s.thenAnomaly)
	ctx.Step(`^no error is reported$`, s.thenNoError)
	ctx.Step(`^nothing parsed is reported$`, s.thenNothingParsed)
}

func (s *grammarScenario) givenCompletion(n int, doc *godog.DocString) error {
	s.requested = n
	s.raw = doc.Content
	return nil
}

func (s *grammarScenario) whenParsed() error {
	s.batch = NewGrammarParser().Parse(s.raw, s.requested)
	return nil
}

func (s *grammarScenario) thenCount(n int) error {
	if s.batch.Len() != n {
		return fmt.Errorf("got %d questions, want %d (anomalies: %v)", s.batch.Len(), n, s.batch.Anomalies)
	}
	return nil
}

func (s *grammarScenario) question(n int) (Question, error) {
	if n < 1 || n > s.batch.Len() {
		return Question{}, fmt.Errorf("no question %d in batch of %d", n, s.batch.Len())
	}
	return s.batch.Questions[n-1], nil
}

func (s *grammarScenario) thenStem(n int, want string) error {
	q, err := s.question(n)
	if err != nil {
		return err
	}
	if q.Text != want {
		return fmt.Errorf("question %d text = %q, want %q", n, q.Text, want)
	}
	return nil
}

func (s *grammarScenario) thenAnswer(n int, want string) error {
	q, err := s.question(n)
	if err != nil {
		return err
	}
	if q.CorrectAnswer != want {
		return fmt.Errorf("question %d answer = %q, want %q", n, q.CorrectAnswer, want)
	}
	return nil
}

func (s *grammarScenario) thenOption(n, i int, want string) error {
	q, err := s.question(n)
	if err != nil {
		return err
	}
	if i < 1 || i > len(q.Options) {
		return fmt.Errorf("question %d has no option %d", n, i)
	}
	if q.Options[i-1] != want {
		return fmt.Errorf("question %d option %d = %q, want %q", n, i, q.Options[i-1], want)
	}
	return nil
}

func (s *grammarScenario) thenAnomaly(ordinal int, reason string) error {
	for _, a := range s.batch.Anomalies {
		if a.Ordinal == ordinal && a.Reason == reason {
			return nil
		}
	}
	return fmt.Errorf("no anomaly %q for block %d in %v", reason, ordinal, s.batch.Anomalies)
}

func (s *grammarScenario) thenNoError() error {
	if err := s.batch.Err(); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

func (s *grammarScenario) thenNothingParsed() error {
	if !s.batch.Empty() {
		return fmt.Errorf("expected empty batch, got %d questions", s.batch.Len())
	}
	if !errors.Is(s.batch.Err(), ErrNothingParsed) {
		return fmt.Errorf("expected ErrNothingParsed, got %v", s.batch.Err())
	}
	return nil
}
