package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient provider failures with exponential
// backoff and jitter. Every tutor call (personalize, simplify, quiz,
// follow-up) passes through it once per gateway Complete, so the
// gateway's Timeout bounds all attempts together.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic. A MaxAttempts below one
// still makes a single call.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	invalidSeen := false

	var err error
	for attempt := range attempts {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt == attempts-1 || !retryable(err, &invalidSeen) {
			break
		}

		wait := r.backoff(attempt, err)
		// Waiting past the deadline would replace the provider's error
		// with a bare DeadlineExceeded.
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
			break
		}

		slog.DebugContext(ctx, "retrying llm request",
			"purpose", PurposeFrom(ctx),
			"model", r.inner.ModelID(),
			"attempt", attempt+1,
			"wait", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err is worth another attempt. A malformed
// reply is retried once per Generate call.
func retryable(err error, invalidSeen *bool) bool {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &maxTok):
		// A quiz that does not fit will not fit next time either.
		return false
	case errors.As(err, &invalid):
		again := !*invalidSeen
		*invalidSeen = true
		return again
	}
	// Rate limits, unavailable providers and network errors.
	return true
}

// backoff returns the wait before the attempt after attempt. A rate-limit
// RetryAfter hint is used as given.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = min(wait, float64(r.config.MaxWait))

	// ±20% jitter.
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(max(wait, 0))
}
