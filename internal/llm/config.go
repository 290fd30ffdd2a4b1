package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter" or
	// "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// envKey names the KIDSDIAG_<PROVIDER>_<FIELD> variable.
func envKey(provider, field string) string {
	return fmt.Sprintf("KIDSDIAG_%s_%s", provider, field)
}

func fromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ConfigFromEnv overlays KIDSDIAG_* variables on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	fromEnv(&cfg.Provider, "KIDSDIAG_LLM_PROVIDER")

	fromEnv(&cfg.Anthropic.APIKey, envKey("ANTHROPIC", "API_KEY"))
	fromEnv(&cfg.Anthropic.Model, envKey("ANTHROPIC", "MODEL"))

	fromEnv(&cfg.OpenAI.APIKey, envKey("OPENAI", "API_KEY"))
	fromEnv(&cfg.OpenAI.Model, envKey("OPENAI", "MODEL"))
	fromEnv(&cfg.OpenAI.BaseURL, envKey("OPENAI", "BASE_URL"))

	fromEnv(&cfg.Gemini.APIKey, envKey("GEMINI", "API_KEY"))
	fromEnv(&cfg.Gemini.Model, envKey("GEMINI", "MODEL"))

	fromEnv(&cfg.OpenRouter.APIKey, envKey("OPENROUTER", "API_KEY"))
	fromEnv(&cfg.OpenRouter.Model, envKey("OPENROUTER", "MODEL"))
	return cfg
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, envKey("ANTHROPIC", "API_KEY")
	case "openai":
		key, env = c.OpenAI.APIKey, envKey("OPENAI", "API_KEY")
	case "gemini":
		key, env = c.Gemini.APIKey, envKey("GEMINI", "API_KEY")
	case "openrouter":
		key, env = c.OpenRouter.APIKey, envKey("OPENROUTER", "API_KEY")
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
