package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter with a controllable clock and no cleanup
// goroutine.
func newTestLimiter(cfg *Config) (*Limiter, *time.Time) {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func tailorOnly(limit, burst int) *Config {
	return &Config{
		Enabled: true,
		Rules: []Rule{
			{Path: "/tailor", Method: "POST", Limit: limit, Window: time.Minute, Burst: burst},
		},
		Whitelist: map[string]bool{},
	}
}

func TestAllow_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(tailorOnly(10, 3))

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("1.2.3.4", "/tailor", "POST")
		require.True(t, allowed, "request %d", i)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("1.2.3.4", "/tailor", "POST")
	assert.False(t, allowed)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))
}

func TestAllow_Refill(t *testing.T) {
	l, now := newTestLimiter(tailorOnly(60, 1))

	allowed, _ := l.Allow("c", "/tailor", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/tailor", "POST")
	require.False(t, allowed)

	*now = now.Add(time.Second)
	allowed, _ = l.Allow("c", "/tailor", "POST")
	assert.True(t, allowed)
}

func TestAllow_IsolatesClientsAndRoutes(t *testing.T) {
	l, _ := newTestLimiter(tailorOnly(1, 1))

	allowed, _ := l.Allow("a", "/tailor", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("a", "/tailor", "POST")
	require.False(t, allowed)

	allowed, _ = l.Allow("b", "/tailor", "POST")
	assert.True(t, allowed, "other client has its own bucket")

	allowed, _ = l.Allow("a", "/extract", "GET")
	assert.True(t, allowed, "unmatched route falls back to the zero default, which is unlimited")
}

func TestAllow_DisabledAndWhitelist(t *testing.T) {
	cfg := tailorOnly(1, 1)
	cfg.Whitelist = map[string]bool{"10.0.0.1": true}
	l, _ := newTestLimiter(cfg)

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/tailor", "POST")
		assert.True(t, allowed)
	}

	cfg = tailorOnly(1, 1)
	cfg.Enabled = false
	l, _ = newTestLimiter(cfg)
	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("x", "/tailor", "POST")
		assert.True(t, allowed)
	}
}

func TestAllow_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(tailorOnly(100, 50))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/tailor", "POST"); ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, granted)
}

func TestAllow_ZeroWindowUsesOneMinute(t *testing.T) {
	cfg := tailorOnly(60, 1)
	cfg.Rules[0].Window = 0
	l, now := newTestLimiter(cfg)

	allowed, _ := l.Allow("c", "/tailor", "POST")
	require.True(t, allowed)
	allowed, info := l.Allow("c", "/tailor", "POST")
	require.False(t, allowed)
	assert.InDelta(t, float64(time.Second), float64(info.RetryAfter), float64(time.Millisecond))

	*now = now.Add(time.Second)
	allowed, _ = l.Allow("c", "/tailor", "POST")
	assert.True(t, allowed, "bucket refills instead of denying forever")
}

func TestEvictIdle(t *testing.T) {
	l, now := newTestLimiter(tailorOnly(10, 1))

	l.Allow("old", "/tailor", "POST")
	*now = now.Add(2 * time.Hour)
	l.Allow("new", "/tailor", "POST")

	assert.Equal(t, 1, l.evictIdle(now.Add(-time.Hour)))
	assert.Len(t, l.buckets, 1)
}

func TestStop_Idempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, CleanupInterval: time.Hour})
	l.Stop()
	l.Stop()
}

func TestDefaultConfig_Match(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0, cfg.Match("/health", "GET").Limit)
	assert.Equal(t, 10, cfg.Match("/tailor", "POST").Limit)
	assert.Equal(t, 3, cfg.Match("/tailor", "POST").Burst)
	assert.Equal(t, 30, cfg.Match("/extract", "GET").Limit)
	assert.Equal(t, 300, cfg.Match("/tailor", "GET").Limit, "method must match")
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_TAILOR_LIMIT", "4")
	t.Setenv("RATE_LIMIT_EXTRACT_LIMIT", "not-a-number")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", " 127.0.0.1, ,::1 ")

	cfg := LoadConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 4, cfg.Match("/tailor", "POST").Limit)
	assert.Equal(t, 30, cfg.Match("/extract", "GET").Limit, "malformed value keeps default")
	assert.Equal(t, 30*time.Second, cfg.Default.Window)
	assert.Equal(t, map[string]bool{"127.0.0.1": true, "::1": true}, cfg.Whitelist)
}

func TestLoadConfig_NonPositiveWindowKeepsDefault(t *testing.T) {
	for _, value := range []string{"0s", "-5s"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", value)

			assert.Equal(t, time.Minute, LoadConfig().Default.Window)
		})
	}
}
