package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when a backend answers without any text.
var ErrEmptyResponse = errors.New("malformed response: model returned no text")

// Backend generates text for a prompt.
type Backend interface {
	// Generate submits prompt once and returns the generated text verbatim.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend in logs and errors.
	Name() string
	// Close releases any resources held by the backend
	Close() error
}

// NewBackend creates the backend selected by config.
func NewBackend(ctx context.Context, config *Config) (Backend, error) {
	if config == nil {
		config = DefaultConfig(ProviderOpenAI)
	}
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIBackend(config)
	case ProviderOllama:
		return NewOllamaBackend(config)
	case ProviderGemini:
		return NewGeminiBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}

// withTimeout bounds one generation call by the backend timeout.
func withTimeout(ctx context.Context, config *Config) (context.Context, context.CancelFunc) {
	if config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, config.Timeout)
}

func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
