package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one route.
type Rule struct {
	Path   string // exact path
	Method string
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Default         Rule
	Rules           []Rule
	CleanupInterval time.Duration
	Whitelist       map[string]bool
}

// DefaultConfig limits tailoring hardest since each call reaches a model
// and an external job board.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Default:         Rule{Limit: 300, Window: time.Minute},
		Rules:           DefaultRules(),
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
	}
}

// DefaultRules returns the per-route limits.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/tailor", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/extract", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

// Match returns the rule for a route, falling back to the default.
func (c *Config) Match(path, method string) Rule {
	for _, rule := range c.Rules {
		if rule.Path == path && rule.Method == method {
			return rule
		}
	}
	return c.Default
}

// LoadConfig reads RATE_LIMIT_* environment variables over DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", true)
	cfg.Default.Limit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.Default.Limit)
	if window := getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.Default.Window); window > 0 {
		cfg.Default.Window = window
	}
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Whitelist = parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))

	for i := range cfg.Rules {
		switch cfg.Rules[i].Path {
		case "/tailor":
			cfg.Rules[i].Limit = getEnvInt("RATE_LIMIT_TAILOR_LIMIT", cfg.Rules[i].Limit)
		case "/extract":
			cfg.Rules[i].Limit = getEnvInt("RATE_LIMIT_EXTRACT_LIMIT", cfg.Rules[i].Limit)
		}
	}
	return cfg
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
