package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"not a number", "abc", "invalid JWT_EXPIRATION_HOURS"},
		{"zero", "0", "at least 1 hour"},
		{"negative", "-5", "at least 1 hour"},
		{"over thirty days", "721", "at most 720 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv("JWT_EXPIRATION_HOURS", tt.value)

			_, err := NewJWTConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadJWTConfig_OptionalWhenUnset(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadJWTConfig()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadJWTConfig_WhitespaceSecretIsUnset(t *testing.T) {
	t.Setenv("JWT_SECRET", "   ")

	cfg, err := LoadJWTConfig()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestJWTConfig_TokenTTL(t *testing.T) {
	cfg := &JWTConfig{Secret: "s", ExpirationHours: 48}
	assert.Equal(t, 48*time.Hour, cfg.TokenTTL())
}
