package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/edututor/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: "Q1: stem",
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})
	repo := &recordingRepo{}
	p := WithLogging(mock, "openrouter", repo)

	ctx := WithPurpose(context.Background(), PurposeQuiz)
	_, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "make a quiz"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Provider != "openrouter" || e.Purpose != PurposeQuiz || !e.Success {
		t.Errorf("unexpected event %+v", e)
	}
	if e.InputTokens != 12 || e.OutputTokens != 34 {
		t.Errorf("tokens = %d/%d, want 12/34", e.InputTokens, e.OutputTokens)
	}
	if e.ResponseBody != "Q1: stem" {
		t.Errorf("ResponseBody = %q", e.ResponseBody)
	}
	for _, want := range []string{"[system]\nsys", "[user]\nmake a quiz"} {
		if !strings.Contains(e.RequestBody, want) {
			t.Errorf("RequestBody missing %q: %q", want, e.RequestBody)
		}
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	repo := &recordingRepo{}
	p := WithLogging(mock, "openai", repo)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Success {
		t.Error("failed call recorded as success")
	}
	if !strings.Contains(e.ErrorMessage, "rate limited") {
		t.Errorf("ErrorMessage = %q", e.ErrorMessage)
	}
	if e.Purpose != "unknown" {
		t.Errorf("Purpose = %q, want %q", e.Purpose, "unknown")
	}
}

func TestLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "fine"})
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(mock, "mock", repo)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "fine" {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestLogging_WritesToStore(t *testing.T) {
	s, err := store.Open("file:llm_logging_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(MockResponse{Content: "Plants eat light."})
	p := WithLogging(mock, "mock", s.EventRepo())

	ctx := WithPurpose(context.Background(), PurposeSimplify)
	if _, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "simplify"}}}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Purpose: PurposeSimplify})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ResponseBody != "Plants eat light." {
		t.Errorf("ResponseBody = %q", events[0].ResponseBody)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "carrier-pigeon"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_OpenRouterWithoutRepo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.ModelID(); got != "meta-llama/llama-3.3-8b-instruct:free" {
		t.Errorf("ModelID = %q", got)
	}
}
