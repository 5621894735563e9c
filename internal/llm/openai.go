package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIBackend calls an OpenAI-compatible chat completions endpoint with a
// bearer token.
type OpenAIBackend struct {
	llm    llms.Model
	config *Config
}

// NewOpenAIBackend creates the remote backend.
func NewOpenAIBackend(config *Config) (*OpenAIBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}
	if config.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(config.HTTPClient))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAIBackend{llm: client, config: config}, nil
}

// Generate submits the prompt as a single user message.
func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, b.config)
	defer cancel()

	text, err := llms.GenerateFromSinglePrompt(ctx, b.llm, prompt, llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return nonEmpty(text)
}

// Name returns "openai".
func (b *OpenAIBackend) Name() string { return string(ProviderOpenAI) }

// Close is a no-op; the HTTP client holds no dedicated resources.
func (b *OpenAIBackend) Close() error { return nil }
