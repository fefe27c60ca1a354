package llm

import (
	"context"
	"log/slog"
	"time"
)

// Gateway is the single entry point for prompt completion. It sends one
// user prompt to the configured Provider and returns the raw completion
// text. Every failure surfaces as a *CompletionError.
type Gateway struct {
	provider    Provider
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithTimeout bounds every Complete call. Zero disables the deadline.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// WithDefaultMaxTokens sets the max tokens used when a call doesn't
// override it.
func WithDefaultMaxTokens(n int) GatewayOption {
	return func(g *Gateway) { g.maxTokens = n }
}

// NewGateway wraps p.
func NewGateway(p Provider, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		provider:    p,
		timeout:     60 * time.Second,
		maxTokens:   1024,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CompleteOption adjusts a single Complete call.
type CompleteOption func(*Request)

// WithModel overrides the provider's model for one call.
func WithModel(model string) CompleteOption {
	return func(r *Request) { r.Model = model }
}

// WithMaxTokens caps the completion length for one call.
func WithMaxTokens(n int) CompleteOption {
	return func(r *Request) { r.MaxTokens = n }
}

// WithTemperature sets the sampling temperature for one call.
func WithTemperature(t float64) CompleteOption {
	return func(r *Request) { r.Temperature = t }
}

// WithSystem sets a system prompt for one call.
func WithSystem(system string) CompleteOption {
	return func(r *Request) { r.System = system }
}

// Complete sends prompt as a single user message and returns the
// completion text untouched. An empty completion is a success.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts ...CompleteOption) (string, error) {
	req := Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}
	for _, opt := range opts {
		opt(&req)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := modelFor(req, g.provider.ModelID())

	resp, err := g.provider.Generate(ctx, req)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		slog.WarnContext(ctx, "llm completion failed",
			"purpose", PurposeFrom(ctx),
			"model", model,
			"error", err)
		return "", &CompletionError{
			Purpose: PurposeFrom(ctx),
			Model:   model,
			Err:     err,
		}
	}

	if resp.StopReason == "max_tokens" {
		slog.DebugContext(ctx, "llm completion truncated",
			"purpose", PurposeFrom(ctx),
			"model", resp.Model,
			"max_tokens", req.MaxTokens)
	}

	return resp.Content, nil
}

// ModelID reports the provider's configured model.
func (g *Gateway) ModelID() string {
	return g.provider.ModelID()
}
