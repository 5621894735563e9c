package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaBackend calls a local Ollama server over plain HTTP without auth.
type OllamaBackend struct {
	llm    llms.Model
	config *Config
}

// NewOllamaBackend creates the local backend.
func NewOllamaBackend(config *Config) (*OllamaBackend, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}

	opts := []ollama.Option{
		ollama.WithServerURL(baseURL),
		ollama.WithModel(config.Model),
	}
	if config.HTTPClient != nil {
		opts = append(opts, ollama.WithHTTPClient(config.HTTPClient))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaBackend{llm: client, config: config}, nil
}

// Generate submits the prompt as a single non-streaming chat message.
func (b *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, b.config)
	defer cancel()

	text, err := llms.GenerateFromSinglePrompt(ctx, b.llm, prompt, llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return nonEmpty(text)
}

// Name returns "ollama".
func (b *OllamaBackend) Name() string { return string(ProviderOllama) }

// Close is a no-op.
func (b *OllamaBackend) Close() error { return nil }
