package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/edututor/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
// A nil eventRepo disables request logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	wrapped := base
	if eventRepo != nil {
		wrapped = WithLogging(base, cfg.Provider, eventRepo)
	}
	return WithRetry(wrapped, cfg.Retry), nil
}

// NewProviderFromEnv builds a Provider from EDUTUTOR_* variables, falling
// back to key discovery when the configured provider has no credentials.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, Config, error) {
	return NewProviderFromConfig(ctx, ConfigFromEnv(), eventRepo)
}

// NewProviderFromConfig builds a Provider from cfg. When the selected
// provider has no credentials, the standard API key variables are checked.
func NewProviderFromConfig(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, Config, error) {
	if err := cfg.Validate(); err != nil {
		if !DiscoverConfig(&cfg) {
			return nil, cfg, err
		}
	}
	p, err := NewProvider(ctx, cfg, eventRepo)
	return p, cfg, err
}
