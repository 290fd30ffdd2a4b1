package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider builds the configured provider and wraps it as
// caller → retry → logging → SDK. A nil recorder disables request logging.
func NewProvider(ctx context.Context, cfg Config, rec Recorder, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
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
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if rec != nil {
		base = WithLogging(base, cfg.Provider, rec, logger)
	}
	return WithRetry(base, cfg.Retry, cfg.Timeout, logger), nil
}
