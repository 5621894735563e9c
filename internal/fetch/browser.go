// Package fetch - browser.go provides headless browser rendering for pages
// whose description is injected by JavaScript.
package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultBrowserTimeout bounds a single headless render.
const DefaultBrowserTimeout = 30 * time.Second

// Renderer returns the rendered HTML for a URL.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// BrowserRenderer renders pages with a local Chrome/Chromium through chromedp.
type BrowserRenderer struct {
	Timeout   time.Duration
	UserAgent string
	Verbose   bool
}

// NewBrowserRenderer returns a renderer with default timeout and user agent.
func NewBrowserRenderer(verbose bool) *BrowserRenderer {
	return &BrowserRenderer{
		Timeout:   DefaultBrowserTimeout,
		UserAgent: DefaultUserAgent,
		Verbose:   verbose,
	}
}

// Render navigates to url in a headless browser and returns the page HTML.
// Requires Chrome/Chromium to be installed on the system.
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	if b.Verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(b.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// descriptions are hydrated after load
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if b.Verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	return html, nil
}
