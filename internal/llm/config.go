package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM backend serves generation and hints.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	// Zero leaves the deadline to the caller's context.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with Gemini selected, which is what the
// hosted deployment runs on.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// ConfigFromEnv builds a Config from MATHMENTOR_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setFromEnv(&cfg.Provider, "MATHMENTOR_LLM_PROVIDER")

	setFromEnv(&cfg.Anthropic.APIKey, "MATHMENTOR_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "MATHMENTOR_ANTHROPIC_MODEL")

	setFromEnv(&cfg.OpenAI.APIKey, "MATHMENTOR_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "MATHMENTOR_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "MATHMENTOR_OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "MATHMENTOR_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "MATHMENTOR_GEMINI_MODEL")
	setFromEnv(&cfg.Gemini.BaseURL, "MATHMENTOR_GEMINI_BASE_URL")

	setFromEnv(&cfg.OpenRouter.APIKey, "MATHMENTOR_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "MATHMENTOR_OPENROUTER_MODEL")
	setFromEnv(&cfg.OpenRouter.BaseURL, "MATHMENTOR_OPENROUTER_BASE_URL")

	if v := os.Getenv("MATHMENTOR_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("MATHMENTOR_LLM_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}

	return cfg
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes the vendors' standard API key variables in
// priority order (Gemini, OpenAI, Anthropic, OpenRouter) and returns a
// Config for the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, envName string
	switch c.Provider {
	case ProviderAnthropic:
		key, envName = c.Anthropic.APIKey, "MATHMENTOR_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, envName = c.OpenAI.APIKey, "MATHMENTOR_OPENAI_API_KEY"
	case ProviderGemini:
		key, envName = c.Gemini.APIKey, "MATHMENTOR_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, envName = c.OpenRouter.APIKey, "MATHMENTOR_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", envName, c.Provider)
	}
	return nil
}

// hasKey reports whether the selected provider has credentials.
func (c Config) hasKey() bool {
	return c.Validate() == nil
}
