package llm

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestGateway_CompleteReturnsText(t *testing.T) {
	mock := NewMockProvider()
	mock.AddText("Photosynthesis turns light into sugar.")
	g := NewGateway(mock)

	out, err := g.Complete(context.Background(), "Explain photosynthesis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Photosynthesis turns light into sugar." {
		t.Errorf("got %q", out)
	}

	call := mock.LastCall()
	if len(call.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(call.Messages))
	}
	if m := call.Messages[0]; m.Role != RoleUser || m.Content != "Explain photosynthesis" {
		t.Errorf("unexpected message %+v", m)
	}
	if call.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", call.MaxTokens)
	}
}

func TestGateway_EmptyCompletionIsSuccess(t *testing.T) {
	mock := NewMockProvider()
	mock.AddText("")
	g := NewGateway(mock)

	out, err := g.Complete(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("got %q, want empty", out)
	}
}

func TestGateway_Options(t *testing.T) {
	mock := NewMockProvider()
	mock.AddText("ok")
	g := NewGateway(mock, WithDefaultMaxTokens(256))

	_, err := g.Complete(context.Background(), "prompt",
		WithModel("openai/gpt-4o-mini"),
		WithMaxTokens(64),
		WithTemperature(0.2),
		WithSystem("Be brief."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := mock.LastCall()
	if call.Model != "openai/gpt-4o-mini" {
		t.Errorf("Model = %q", call.Model)
	}
	if call.MaxTokens != 64 {
		t.Errorf("MaxTokens = %d, want 64", call.MaxTokens)
	}
	if math.Abs(call.Temperature-0.2) > 1e-9 {
		t.Errorf("Temperature = %v, want 0.2", call.Temperature)
	}
	if call.System != "Be brief." {
		t.Errorf("System = %q", call.System)
	}
}

func TestGateway_FailureIsCompletionError(t *testing.T) {
	cause := &ErrProviderUnavailable{Err: errors.New("connection refused")}
	mock := NewMockProvider(MockResponse{Err: cause})
	g := NewGateway(mock)

	ctx := WithPurpose(context.Background(), PurposeQuiz)
	_, err := g.Complete(ctx, "quiz", WithModel("some/model"))

	var ce *CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompletionError, got %v", err)
	}
	if ce.Purpose != PurposeQuiz || ce.Model != "some/model" {
		t.Errorf("CompletionError = %+v", ce)
	}

	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestGateway_TimeoutIsCompletionError(t *testing.T) {
	mock := NewMockProvider()
	mock.Block = true
	g := NewGateway(mock, WithTimeout(10*time.Millisecond))

	_, err := g.Complete(context.Background(), "slow")

	var ce *CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompletionError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestGateway_ModelID(t *testing.T) {
	g := NewGateway(NewMockProvider())
	if got := g.ModelID(); got != "mock" {
		t.Errorf("ModelID = %q, want %q", got, "mock")
	}
}
