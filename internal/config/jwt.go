package config

import (
	"fmt"
	"time"
)

// DefaultJWTExpirationHours is used when JWT_EXPIRATION_HOURS is unset.
const DefaultJWTExpirationHours = 24

// maxJWTExpirationHours caps token lifetime at 30 days.
const maxJWTExpirationHours = 30 * 24

// JWTConfig configures bearer-token auth for the HTTP API.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// TokenTTL is the lifetime of an issued token.
func (c *JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS
// (default 24).
func NewJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{ExpirationHours: DefaultJWTExpirationHours}

	envString("JWT_SECRET", &cfg.Secret)
	if cfg.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if err := envInt("JWT_EXPIRATION_HOURS", &cfg.ExpirationHours); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadJWTConfig is NewJWTConfig for optional auth: it returns nil, nil when
// JWT_SECRET is unset.
func LoadJWTConfig() (*JWTConfig, error) {
	if _, ok := lookup("JWT_SECRET"); !ok {
		return nil, nil
	}
	return NewJWTConfig()
}

// Validate checks the secret and token lifetime.
func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	if c.ExpirationHours > maxJWTExpirationHours {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at most %d hours, got: %d", maxJWTExpirationHours, c.ExpirationHours)
	}
	return nil
}
