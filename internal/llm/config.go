// Package llm provides the text generation backends used for resume tailoring.
// A single Backend is selected at startup; callers never branch on which one.
package llm

import (
	"fmt"
	"net/http"
	"time"
)

// Provider names a text generation backend.
type Provider string

const (
	// ProviderOpenAI is the remote OpenAI-compatible chat completions API
	ProviderOpenAI Provider = "openai"
	// ProviderOllama is a local Ollama server
	ProviderOllama Provider = "ollama"
	// ProviderGemini is the Google Gemini API
	ProviderGemini Provider = "gemini"
)

// Default endpoints, models and timeouts per provider.
const (
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAITimeout = 30 * time.Second

	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3"
	DefaultOllamaTimeout = 60 * time.Second

	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGeminiTimeout = 60 * time.Second
)

// Config selects and configures one backend.
type Config struct {
	Provider Provider
	Model    string
	// APIKey is the bearer credential for remote providers. Ollama ignores it.
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport for the langchaingo backends.
	HTTPClient *http.Client
}

// DefaultConfig returns the defaults for a provider.
func DefaultConfig(provider Provider) *Config {
	switch provider {
	case ProviderOllama:
		return &Config{
			Provider: ProviderOllama,
			Model:    DefaultOllamaModel,
			BaseURL:  DefaultOllamaBaseURL,
			Timeout:  DefaultOllamaTimeout,
		}
	case ProviderGemini:
		return &Config{
			Provider: ProviderGemini,
			Model:    DefaultGeminiModel,
			Timeout:  DefaultGeminiTimeout,
		}
	default:
		return &Config{
			Provider: ProviderOpenAI,
			Model:    DefaultOpenAIModel,
			Timeout:  DefaultOpenAITimeout,
		}
	}
}

// WithDefaults returns a copy of c with zero fields filled from the
// provider's defaults.
func (c *Config) WithDefaults() *Config {
	defaults := DefaultConfig(c.Provider)
	merged := *c
	if merged.Provider == "" {
		merged.Provider = defaults.Provider
	}
	if merged.Model == "" {
		merged.Model = defaults.Model
	}
	if merged.BaseURL == "" {
		merged.BaseURL = defaults.BaseURL
	}
	if merged.Timeout <= 0 {
		merged.Timeout = defaults.Timeout
	}
	return &merged
}

// Validate checks that the provider is known and has what it needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%s backend requires an API key", c.Provider)
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("%s backend requires a model", c.Provider)
	}
	return nil
}
