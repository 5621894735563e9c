package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resumetailor/internal/llm"
)

var envKeys = []string{
	"PORT", "ALLOWED_URL_PREFIXES", "SCRAPE_DELAY", "SCRAPE_JITTER", "SCRAPE_MAX_ATTEMPTS",
	"SCRAPE_TIMEOUT", "USE_BROWSER", "LLM_BACKEND", "LLM_MODEL", "OPENAI_API_KEY",
	"OPENAI_BASE_URL", "OPENAI_TIMEOUT", "OLLAMA_BASE_URL", "OLLAMA_TIMEOUT", "GEMINI_API_KEY",
	"SCRAPE_LOG_PATH", "DATABASE_URL", "VERBOSE", "JWT_SECRET", "JWT_EXPIRATION_HOURS",
}

// clearEnv blanks every supported variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, Duration(5*time.Second), cfg.Scrape.Delay)
	assert.Equal(t, 3, cfg.Scrape.MaxAttempts)
	assert.Equal(t, Duration(15*time.Second), cfg.Scrape.Timeout)
	assert.Contains(t, cfg.Scrape.AllowedPrefixes, "https://www.linkedin.com/")
	assert.Equal(t, "openai", cfg.LLM.Backend)
	assert.Equal(t, Duration(30*time.Second), cfg.LLM.OpenAITimeout)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.OllamaBaseURL)
	assert.Equal(t, Duration(60*time.Second), cfg.LLM.OllamaTimeout)
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"scrape": {"delay": "2s", "max_attempts": 5, "use_browser": true},
		"llm": {"backend": "ollama", "model": "mistral"},
		"scrape_log_path": "data/job_descriptions.json",
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, Duration(2*time.Second), cfg.Scrape.Delay)
	assert.Equal(t, 5, cfg.Scrape.MaxAttempts)
	assert.True(t, cfg.Scrape.UseBrowser)
	assert.Equal(t, "ollama", cfg.LLM.Backend)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, "data/job_descriptions.json", cfg.ScrapeLogPath)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"scrape": {"delay": "soon"}}`))
	assert.ErrorContains(t, err, "invalid duration")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "config path is empty")
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"port": 9090, "llm": {"backend": "ollama", "model": "from-file"}}`)
	t.Setenv("LLM_MODEL", "from-env")
	t.Setenv("SCRAPE_DELAY", "0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port, "file overrides default")
	assert.Equal(t, "from-env", cfg.LLM.Model, "env overrides file")
	assert.Equal(t, Duration(0), cfg.Scrape.Delay)
	assert.Equal(t, 3, cfg.Scrape.MaxAttempts, "default survives")
	assert.Nil(t, cfg.JWT)
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ALLOWED_URL_PREFIXES", "https://www.linkedin.com/, https://boards.greenhouse.io/")
	t.Setenv("SCRAPE_TIMEOUT", "20s")
	t.Setenv("USE_BROWSER", "true")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, []string{"https://www.linkedin.com/", "https://boards.greenhouse.io/"}, cfg.Scrape.AllowedPrefixes)
	assert.Equal(t, Duration(20*time.Second), cfg.Scrape.Timeout)
	assert.True(t, cfg.Scrape.UseBrowser)
	require.NotNil(t, cfg.JWT)
	assert.Equal(t, "secret", cfg.JWT.Secret)
}

func TestLoad_WithoutBackendCredential(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err, "extraction-only commands need no LLM credential")

	err = cfg.Backend().Validate()
	assert.ErrorContains(t, err, "requires an API key")
}

func TestLoad_MalformedEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "eighty"},
		{"SCRAPE_MAX_ATTEMPTS", "many"},
		{"SCRAPE_DELAY", "later"},
		{"USE_BROWSER", "perhaps"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LLM_BACKEND", "ollama")
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid ollama", func(c *Config) { c.LLM.Backend = "ollama" }, ""},
		{"valid openai", func(c *Config) { c.LLM.OpenAIAPIKey = "k" }, ""},
		{"openai without key", func(c *Config) {}, ""},
		{"gemini without key", func(c *Config) { c.LLM.Backend = "gemini" }, ""},
		{"unknown backend", func(c *Config) { c.LLM.Backend = "claude" }, "Backend"},
		{"zero attempts", func(c *Config) { c.LLM.Backend = "ollama"; c.Scrape.MaxAttempts = 0 }, "MaxAttempts"},
		{"negative delay", func(c *Config) { c.LLM.Backend = "ollama"; c.Scrape.Delay = -1 }, "Delay"},
		{"bad port", func(c *Config) { c.LLM.Backend = "ollama"; c.Port = 70000 }, "Port"},
		{"bad prefix", func(c *Config) { c.LLM.Backend = "ollama"; c.Scrape.AllowedPrefixes = []string{"not a url"} }, "AllowedPrefixes"},
		{"prefix without slash", func(c *Config) {
			c.LLM.Backend = "ollama"
			c.Scrape.AllowedPrefixes = []string{"https://www.linkedin.com"}
		}, "must end with a slash"},
		{"bad ollama url", func(c *Config) { c.LLM.Backend = "ollama"; c.LLM.OllamaBaseURL = "localhost" }, "OllamaBaseURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Port: 9999,
		LLM:  LLMConfig{Model: "custom"},
	}

	merged := partial.MergeWithDefaults(*Default())

	assert.Equal(t, 9999, merged.Port)
	assert.Equal(t, "custom", merged.LLM.Model)
	assert.Equal(t, "openai", merged.LLM.Backend)
	assert.Equal(t, 3, merged.Scrape.MaxAttempts)
	assert.Equal(t, 0, partial.Scrape.MaxAttempts, "receiver is not modified")
}

func TestExtraction(t *testing.T) {
	cfg := Default()
	cfg.Scrape.Jitter = Duration(time.Second)
	cfg.Verbose = true

	ext := cfg.Extraction()
	assert.Equal(t, 5*time.Second, ext.Delay)
	assert.Equal(t, time.Second, ext.Jitter)
	assert.Equal(t, 3, ext.MaxAttempts)
	assert.Equal(t, 15*time.Second, ext.Timeout)
	assert.True(t, ext.Verbose)
}

func TestBackend(t *testing.T) {
	cfg := Default()
	cfg.LLM.OpenAIAPIKey = "sk-test"
	cfg.LLM.OpenAIBaseURL = "https://llm.internal/v1"

	backend := cfg.Backend()
	assert.Equal(t, llm.ProviderOpenAI, backend.Provider)
	assert.Equal(t, "sk-test", backend.APIKey)
	assert.Equal(t, "https://llm.internal/v1", backend.BaseURL)
	assert.Equal(t, 30*time.Second, backend.Timeout)
	assert.Equal(t, llm.DefaultOpenAIModel, backend.Model)

	cfg.LLM.Backend = "ollama"
	backend = cfg.Backend()
	assert.Equal(t, llm.ProviderOllama, backend.Provider)
	assert.Empty(t, backend.APIKey, "local backend gets no credential")
	assert.Equal(t, "http://localhost:11434", backend.BaseURL)
	assert.Equal(t, 60*time.Second, backend.Timeout)
}

func TestDuration_JSON(t *testing.T) {
	d := Duration(90 * time.Second)
	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))

	var parsed Duration
	require.NoError(t, parsed.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, d, parsed)

	require.NoError(t, parsed.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, Duration(time.Second), parsed)
}
