package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone       = ""
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the LLM provider. The env tags are relative
// to the application prefix (TIMEZ_).
type Config struct {
	Provider string `env:"LLM_PROVIDER" toml:"provider"`

	Anthropic  KeyedModel `envPrefix:"ANTHROPIC_" toml:"anthropic"`
	OpenAI     KeyedModel `envPrefix:"OPENAI_" toml:"openai"`
	Gemini     KeyedModel `envPrefix:"GEMINI_" toml:"gemini"`
	OpenRouter KeyedModel `envPrefix:"OPENROUTER_" toml:"openrouter"`

	Retry RetryConfig `envPrefix:"LLM_RETRY_" toml:"retry"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `env:"LLM_TIMEOUT" toml:"timeout"`
}

// KeyedModel is the credential and model for one provider.
type KeyedModel struct {
	APIKey  string `env:"API_KEY" toml:"api_key"`
	Model   string `env:"MODEL" toml:"model"`
	BaseURL string `env:"BASE_URL" toml:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"ATTEMPTS" toml:"attempts"`
	InitialWait time.Duration `env:"INITIAL_WAIT" toml:"initial_wait"`
	MaxWait     time.Duration `env:"MAX_WAIT" toml:"max_wait"`
	Multiplier  float64       `env:"MULTIPLIER" toml:"multiplier"`
}

// DefaultConfig returns a Config with no provider selected and the default
// models filled in.
func DefaultConfig() Config {
	return Config{
		Anthropic:  KeyedModel{Model: "claude-haiku"},
		OpenAI:     KeyedModel{Model: "gpt-4o-mini"},
		Gemini:     KeyedModel{Model: "gemini-flash"},
		OpenRouter: KeyedModel{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// Discover fills in a provider from the vendors' standard API key
// variables when none was configured. It reports whether a provider is
// selected afterwards.
func (c *Config) Discover() bool {
	if c.Provider != ProviderNone {
		return true
	}
	probes := []struct {
		env      string
		provider string
		target   *KeyedModel
	}{
		{"GEMINI_API_KEY", ProviderGemini, &c.Gemini},
		{"OPENAI_API_KEY", ProviderOpenAI, &c.OpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &c.Anthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &c.OpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			if p.target.APIKey == "" {
				p.target.APIKey = k
			}
			return true
		}
	}
	return false
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ProviderNone
}

// Validate checks that the selected provider has its API key set.
func (c Config) Validate() error {
	var km KeyedModel
	switch c.Provider {
	case ProviderNone, ProviderMock:
		return nil
	case ProviderAnthropic:
		km = c.Anthropic
	case ProviderOpenAI:
		km = c.OpenAI
	case ProviderGemini:
		km = c.Gemini
	case ProviderOpenRouter:
		km = c.OpenRouter
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if km.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider (set TIMEZ_%s_API_KEY)", c.Provider, envName(c.Provider))
	}
	return nil
}

func envName(provider string) string {
	return strings.ToUpper(provider)
}
