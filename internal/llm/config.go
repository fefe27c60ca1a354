package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openrouter", "openai", "anthropic", "gemini", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Gateway.Complete call, retries included.
	// Zero disables the deadline. Default: 60s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "meta-llama/llama-3.3-8b-instruct:free"
	BaseURL string // Default: "https://openrouter.ai/api/v1"

	// Referer and Title identify the app on openrouter.ai rankings.
	Referer string
	Title   string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openrouter",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model:   "meta-llama/llama-3.3-8b-instruct:free",
			Referer: "https://edututor.local",
			Title:   "EduTutorAI",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from EDUTUTOR_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays EDUTUTOR_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Provider, "EDUTUTOR_LLM_PROVIDER")

	setString(&cfg.Anthropic.APIKey, "EDUTUTOR_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "EDUTUTOR_ANTHROPIC_MODEL")

	setString(&cfg.OpenAI.APIKey, "EDUTUTOR_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "EDUTUTOR_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "EDUTUTOR_OPENAI_BASE_URL")

	setString(&cfg.Gemini.APIKey, "EDUTUTOR_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "EDUTUTOR_GEMINI_MODEL")

	setString(&cfg.OpenRouter.APIKey, "EDUTUTOR_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "EDUTUTOR_OPENROUTER_MODEL")
	setString(&cfg.OpenRouter.BaseURL, "EDUTUTOR_OPENROUTER_BASE_URL")

	if t := os.Getenv("EDUTUTOR_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
}

// DiscoverConfig checks standard API key env vars in priority order
// (OpenRouter → OpenAI → Anthropic → Gemini) and fills in the first
// provider whose key is found. The bare API_KEY variable is treated as an
// OpenRouter key. Returns false if none found.
func DiscoverConfig(cfg *Config) bool {
	for _, key := range []string{"OPENROUTER_API_KEY", "API_KEY"} {
		if k := os.Getenv(key); k != "" {
			cfg.Provider = "openrouter"
			cfg.OpenRouter.APIKey = k
			return true
		}
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return true
	}
	return false
}

// HasKey reports whether the selected provider has credentials.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("EDUTUTOR_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("EDUTUTOR_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("EDUTUTOR_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("EDUTUTOR_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
