// Package extraction isolates job-description text from job board pages.
//
// Extract never fails because of the network or the page layout: every
// failure inside the fetch/parse pipeline is absorbed into a not-found
// Result. Only rejected input and caller cancellation are returned as errors.
package extraction

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/resumetailor/internal/fetch"
)

const (
	// DefaultDelay is waited before every fetch attempt.
	DefaultDelay = 5 * time.Second
	// DefaultMaxAttempts bounds fetch retries.
	DefaultMaxAttempts = 3
)

// DefaultAllowedPrefixes is the allow-list used when none is configured.
func DefaultAllowedPrefixes() []string {
	return []string{
		"https://www.linkedin.com/",
		"https://linkedin.com/",
		"http://www.linkedin.com/",
		"http://linkedin.com/",
	}
}

// NotFoundReason explains a not-found Result.
type NotFoundReason string

const (
	// ReasonNone is set on found results
	ReasonNone NotFoundReason = ""
	// ReasonFetchFailed means every fetch attempt failed
	ReasonFetchFailed NotFoundReason = "fetch_failed"
	// ReasonNoMatch means the page was fetched but no strategy matched
	ReasonNoMatch NotFoundReason = "no_match"
)

// Result is the outcome of one extraction.
type Result struct {
	URL         string
	Platform    fetch.Platform
	Description string
	Found       bool
	Reason      NotFoundReason
	Strategy    string
	Attempts    int
}

// Config configures an Extractor.
type Config struct {
	AllowedPrefixes []string
	Delay           time.Duration
	// Jitter adds a random extra wait in [0, Jitter) to each delay.
	Jitter      time.Duration
	MaxAttempts int
	Timeout     time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	// Renderer, when set, re-renders pages whose static HTML had no match.
	Renderer fetch.Renderer
	Verbose  bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		AllowedPrefixes: DefaultAllowedPrefixes(),
		Delay:           DefaultDelay,
		MaxAttempts:     DefaultMaxAttempts,
		Timeout:         fetch.DefaultTimeout,
	}
}

// Extractor fetches pages and isolates their description text.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	cfg  Config
	opts *fetch.Options
}

// New creates an Extractor, filling zero config values with defaults.
func New(cfg Config) *Extractor {
	if len(cfg.AllowedPrefixes) == 0 {
		cfg.AllowedPrefixes = DefaultAllowedPrefixes()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = fetch.DefaultTimeout
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}

	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.Timeout
	opts.Client = cfg.HTTPClient

	return &Extractor{cfg: cfg, opts: opts}
}

// isAllowed reports whether url starts with one of prefixes. The comparison
// is case-sensitive.
func isAllowed(url string, prefixes []string) bool {
	url = strings.TrimSpace(url)
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// Extract fetches url and returns its job description.
func (e *Extractor) Extract(ctx context.Context, url string) (Result, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Result{}, &InvalidInputError{Field: "url", Cause: ErrEmptyURL}
	}
	if !isAllowed(url, e.cfg.AllowedPrefixes) {
		return Result{}, &InvalidInputError{Field: "url", Value: url, Cause: ErrURLNotAllowed}
	}

	platform := fetch.DetectPlatform(url)
	result := Result{URL: url, Platform: platform}
	strategies := StrategiesFor(platform)
	noise := fetch.PlatformNoiseSelectors(platform)

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		result.Attempts = attempt

		if err := e.wait(ctx); err != nil {
			return result, err
		}

		page, err := fetch.URL(ctx, url, e.opts)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			log.Printf("[EXTRACT] Attempt %d/%d failed for %s: %v", attempt, e.cfg.MaxAttempts, url, err)
			continue
		}

		if text, name, ok := e.match(page.HTML, strategies, noise); ok {
			return e.found(result, text, name), nil
		}

		if e.cfg.Renderer != nil {
			if text, name, ok := e.matchRendered(ctx, url, strategies, noise); ok {
				return e.found(result, text, name), nil
			}
		}

		if e.cfg.Verbose {
			log.Printf("[VERBOSE] No description strategy matched for %s", url)
		}
		result.Reason = ReasonNoMatch
		return result, nil
	}

	log.Printf("[EXTRACT] Giving up on %s after %d attempts", url, e.cfg.MaxAttempts)
	result.Reason = ReasonFetchFailed
	return result, nil
}

func (e *Extractor) found(result Result, text, strategy string) Result {
	result.Found = true
	result.Description = text
	result.Strategy = strategy
	result.Reason = ReasonNone
	if e.cfg.Verbose {
		log.Printf("[VERBOSE] Matched %q for %s: %d chars", strategy, result.URL, len(text))
	}
	return result
}

func (e *Extractor) match(html string, strategies []Strategy, noise []string) (string, string, bool) {
	doc, err := fetch.ParseHTML(html, noise...)
	if err != nil {
		log.Printf("[EXTRACT] %v", err)
		return "", "", false
	}
	return Run(doc, strategies)
}

func (e *Extractor) matchRendered(ctx context.Context, url string, strategies []Strategy, noise []string) (string, string, bool) {
	html, err := e.cfg.Renderer.Render(ctx, url)
	if err != nil {
		log.Printf("[EXTRACT] Browser fallback failed for %s: %v", url, err)
		return "", "", false
	}
	return e.match(html, strategies, noise)
}

// wait blocks for the per-attempt delay or until ctx is done.
func (e *Extractor) wait(ctx context.Context) error {
	d := e.cfg.Delay
	if e.cfg.Jitter > 0 {
		d += rand.N(e.cfg.Jitter)
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("extraction cancelled: %w", ctx.Err())
	}
}
