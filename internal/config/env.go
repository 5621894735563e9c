package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnv overrides c with any of the supported environment variables that
// are set. A malformed value is an error rather than silently ignored.
func (c *Config) ApplyEnv() error {
	var err error
	set := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	set(envInt("PORT", &c.Port))

	if v, ok := lookup("ALLOWED_URL_PREFIXES"); ok {
		c.Scrape.AllowedPrefixes = splitList(v)
	}
	set(envDuration("SCRAPE_DELAY", &c.Scrape.Delay))
	set(envDuration("SCRAPE_JITTER", &c.Scrape.Jitter))
	set(envInt("SCRAPE_MAX_ATTEMPTS", &c.Scrape.MaxAttempts))
	set(envDuration("SCRAPE_TIMEOUT", &c.Scrape.Timeout))
	set(envBool("USE_BROWSER", &c.Scrape.UseBrowser))

	envString("LLM_BACKEND", &c.LLM.Backend)
	envString("LLM_MODEL", &c.LLM.Model)
	envString("OPENAI_API_KEY", &c.LLM.OpenAIAPIKey)
	envString("OPENAI_BASE_URL", &c.LLM.OpenAIBaseURL)
	set(envDuration("OPENAI_TIMEOUT", &c.LLM.OpenAITimeout))
	envString("OLLAMA_BASE_URL", &c.LLM.OllamaBaseURL)
	set(envDuration("OLLAMA_TIMEOUT", &c.LLM.OllamaTimeout))
	envString("GEMINI_API_KEY", &c.LLM.GeminiAPIKey)

	envString("SCRAPE_LOG_PATH", &c.ScrapeLogPath)
	envString("DATABASE_URL", &c.DatabaseURL)
	set(envBool("VERBOSE", &c.Verbose))

	return err
}

// lookup returns a trimmed, non-empty environment value.
func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func envString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

// envDuration accepts Go duration strings and bare integers as seconds.
func envDuration(key string, dst *Duration) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = Duration(d)
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
