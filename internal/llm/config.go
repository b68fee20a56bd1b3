package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// OpenRouterBaseURL is the OpenAI-compatible endpoint used for openrouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures one provider.
type Config struct {
	// Provider is one of the Provider* names, or empty to disable model
	// calls entirely.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`

	// BaseURL overrides the endpoint of OpenAI-compatible providers.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `yaml:"timeout"`

	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
	ProviderGemini:     "gemini-flash",
}

// DefaultConfig returns a disabled Config with retry and timeout defaults.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// WithDefaults fills the model for the selected provider when unset.
func (c Config) WithDefaults() Config {
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Provider == ProviderOpenRouter && c.BaseURL == "" {
		c.BaseURL = OpenRouterBaseURL
	}
	if c.Retry.MaxAttempts < 1 {
		c.Retry.MaxAttempts = 1
	}
	return c
}

// Discover probes the vendors' standard API key variables in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and selects the first provider
// whose key is set. It reports false when none is.
func Discover(base Config) (Config, bool) {
	probes := []struct{ env, provider string }{
		{"GEMINI_API_KEY", ProviderGemini},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			base.Provider = p.provider
			base.APIKey = k
			return base, true
		}
	}
	return base, false
}

// Validate checks that the selected provider can be built.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider (EMOTIQUEST_LLM_API_KEY)", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
