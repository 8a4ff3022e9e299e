package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by NewProviderFromEnv when neither the
// MATHMENTOR_* variables nor a vendor API key select a usable provider.
var ErrNotConfigured = errors.New("no LLM provider configured: set MATHMENTOR_LLM_PROVIDER and its API key, or GEMINI_API_KEY")

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout, retry and logging middleware.
// A nil recorder skips request logging.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewScriptedProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → logging → base
	p := base
	if recorder != nil {
		p = WithLogging(p, cfg.Provider, recorder)
	}
	p = WithRetry(p, cfg.Retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

// NewProviderFromEnv resolves configuration from the environment and
// builds a Provider. Explicit MATHMENTOR_* settings win; otherwise the
// vendor key variables are probed.
func NewProviderFromEnv(ctx context.Context, recorder EventRecorder) (Provider, error) {
	cfg := ConfigFromEnv()
	if !cfg.hasKey() {
		discovered, ok := DiscoverConfig()
		if !ok {
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("%w (%v)", ErrNotConfigured, err)
			}
			return nil, ErrNotConfigured
		}
		discovered.Timeout = cfg.Timeout
		discovered.Retry = cfg.Retry
		cfg = discovered
	}
	return NewProvider(ctx, cfg, recorder)
}
