package llm

import (
	"context"
	"fmt"

	"github.com/waymark-labs/waymark/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and audit-logging middleware.
func NewProvider(ctx context.Context, cfg Config, events store.LLMEventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "lmstudio":
		base, err = NewLMStudioProvider(cfg.LMStudio)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base. A nil event
	// repo skips the audit layer entirely.
	if events != nil {
		base = WithLogging(base, events, cfg.Provider)
	}
	return WithRetry(base, cfg.Retry), nil
}

// NewProviderFromEnv builds a provider from the environment. An explicit
// WAYMARK_LLM_PROVIDER wins; otherwise the standard API key variables are
// probed via DiscoverConfig.
func NewProviderFromEnv(ctx context.Context, events store.LLMEventRepo) (Provider, error) {
	cfg := ResolveConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, events)
}
