// Package config provides configuration loading and validation for the
// server and the CLI.
//
// Values are layered: built-in defaults, then an optional JSON file, then
// environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resumetailor/internal/extraction"
	"github.com/jonathan/resumetailor/internal/llm"
)

// DefaultPort is the HTTP listen port.
const DefaultPort = 8080

// Duration is a time.Duration that reads and writes as a Go duration string
// ("5s", "1m30s") in JSON.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(n)
	return nil
}

// ScrapeConfig controls job page extraction.
type ScrapeConfig struct {
	AllowedPrefixes []string `json:"allowed_url_prefixes,omitempty" validate:"dive,url"`
	Delay           Duration `json:"delay,omitempty" validate:"gte=0"`
	Jitter          Duration `json:"jitter,omitempty" validate:"gte=0"`
	MaxAttempts     int      `json:"max_attempts,omitempty" validate:"gte=1,lte=10"`
	Timeout         Duration `json:"timeout,omitempty" validate:"gt=0"`
	UseBrowser      bool     `json:"use_browser,omitempty"` // Use headless browser when static HTML has no match
}

// LLMConfig selects the tailoring backend.
type LLMConfig struct {
	Backend       string   `json:"backend,omitempty" validate:"oneof=openai ollama gemini"`
	Model         string   `json:"model,omitempty"`
	OpenAIAPIKey  string   `json:"openai_api_key,omitempty"`
	OpenAIBaseURL string   `json:"openai_base_url,omitempty" validate:"omitempty,url"`
	OpenAITimeout Duration `json:"openai_timeout,omitempty" validate:"gt=0"`
	OllamaBaseURL string   `json:"ollama_base_url,omitempty" validate:"omitempty,url"`
	OllamaTimeout Duration `json:"ollama_timeout,omitempty" validate:"gt=0"`
	GeminiAPIKey  string   `json:"gemini_api_key,omitempty"`
}

// Config is the full application configuration.
type Config struct {
	Port          int          `json:"port,omitempty" validate:"gte=1,lte=65535"`
	Scrape        ScrapeConfig `json:"scrape"`
	LLM           LLMConfig    `json:"llm"`
	ScrapeLogPath string       `json:"scrape_log_path,omitempty"` // Append-only JSON log of successful extractions
	DatabaseURL   string       `json:"database_url,omitempty"`    // PostgreSQL scrape log, takes precedence over ScrapeLogPath
	Verbose       bool         `json:"verbose,omitempty"`

	// JWT is set only when JWT_SECRET is present; nil disables API auth.
	JWT *JWTConfig `json:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port: DefaultPort,
		Scrape: ScrapeConfig{
			AllowedPrefixes: extraction.DefaultAllowedPrefixes(),
			Delay:           Duration(extraction.DefaultDelay),
			MaxAttempts:     extraction.DefaultMaxAttempts,
			Timeout:         Duration(15 * time.Second),
		},
		LLM: LLMConfig{
			Backend:       string(llm.ProviderOpenAI),
			OpenAITimeout: Duration(llm.DefaultOpenAITimeout),
			OllamaBaseURL: llm.DefaultOllamaBaseURL,
			OllamaTimeout: Duration(llm.DefaultOllamaTimeout),
		},
	}
}

// Load builds the effective configuration: defaults, then the JSON file at
// path (if non-empty), then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged := fileCfg.MergeWithDefaults(*cfg)
		cfg = &merged
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	jwtCfg, err := LoadJWTConfig()
	if err != nil {
		return nil, err
	}
	cfg.JWT = jwtCfg

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints. Backend credentials are checked by
// llm.Config.Validate when a backend is created, so commands that never call
// a model run without them.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	for _, prefix := range c.Scrape.AllowedPrefixes {
		if !strings.HasSuffix(prefix, "/") {
			return fmt.Errorf("config error: allowed URL prefix %q must end with a slash", prefix)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Bool fields cannot distinguish unset from false, so they are taken as-is.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ScrapeLogPath == "" {
		result.ScrapeLogPath = defaults.ScrapeLogPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	s, d := &result.Scrape, defaults.Scrape
	if len(s.AllowedPrefixes) == 0 {
		s.AllowedPrefixes = d.AllowedPrefixes
	}
	if s.Delay == 0 {
		s.Delay = d.Delay
	}
	if s.Jitter == 0 {
		s.Jitter = d.Jitter
	}
	if s.MaxAttempts == 0 {
		s.MaxAttempts = d.MaxAttempts
	}
	if s.Timeout == 0 {
		s.Timeout = d.Timeout
	}

	l, dl := &result.LLM, defaults.LLM
	if l.Backend == "" {
		l.Backend = dl.Backend
	}
	if l.Model == "" {
		l.Model = dl.Model
	}
	if l.OpenAIAPIKey == "" {
		l.OpenAIAPIKey = dl.OpenAIAPIKey
	}
	if l.OpenAIBaseURL == "" {
		l.OpenAIBaseURL = dl.OpenAIBaseURL
	}
	if l.OpenAITimeout == 0 {
		l.OpenAITimeout = dl.OpenAITimeout
	}
	if l.OllamaBaseURL == "" {
		l.OllamaBaseURL = dl.OllamaBaseURL
	}
	if l.OllamaTimeout == 0 {
		l.OllamaTimeout = dl.OllamaTimeout
	}
	if l.GeminiAPIKey == "" {
		l.GeminiAPIKey = dl.GeminiAPIKey
	}

	if result.JWT == nil {
		result.JWT = defaults.JWT
	}

	return result
}

// Extraction returns the extractor settings. The renderer is wired by the caller.
func (c *Config) Extraction() extraction.Config {
	return extraction.Config{
		AllowedPrefixes: c.Scrape.AllowedPrefixes,
		Delay:           time.Duration(c.Scrape.Delay),
		Jitter:          time.Duration(c.Scrape.Jitter),
		MaxAttempts:     c.Scrape.MaxAttempts,
		Timeout:         time.Duration(c.Scrape.Timeout),
		Verbose:         c.Verbose,
	}
}

// Backend returns the settings for the selected tailoring backend.
func (c *Config) Backend() *llm.Config {
	provider := llm.Provider(c.LLM.Backend)
	backend := &llm.Config{Provider: provider, Model: c.LLM.Model}

	switch provider {
	case llm.ProviderOpenAI:
		backend.APIKey = c.LLM.OpenAIAPIKey
		backend.BaseURL = c.LLM.OpenAIBaseURL
		backend.Timeout = time.Duration(c.LLM.OpenAITimeout)
	case llm.ProviderOllama:
		backend.BaseURL = c.LLM.OllamaBaseURL
		backend.Timeout = time.Duration(c.LLM.OllamaTimeout)
	case llm.ProviderGemini:
		backend.APIKey = c.LLM.GeminiAPIKey
	}

	return backend.WithDefaults()
}
