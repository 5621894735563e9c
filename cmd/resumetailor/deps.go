package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resumetailor/internal/config"
	"github.com/jonathan/resumetailor/internal/extraction"
	"github.com/jonathan/resumetailor/internal/fetch"
	"github.com/jonathan/resumetailor/internal/llm"
	"github.com/jonathan/resumetailor/internal/scrapelog"
)

// loadConfig reads --config and the environment. --verbose forces verbose.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newExtractor(cfg *config.Config) *extraction.Extractor {
	extCfg := cfg.Extraction()
	if cfg.Scrape.UseBrowser {
		extCfg.Renderer = fetch.NewBrowserRenderer(cfg.Verbose)
	}
	return extraction.New(extCfg)
}

func newBackend(ctx context.Context, cfg *config.Config) (llm.Backend, error) {
	backend, err := llm.NewBackend(ctx, cfg.Backend())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", cfg.LLM.Backend, err)
	}
	if cfg.Verbose {
		log.Printf("[VERBOSE] Tailoring backend: %s", backend.Name())
	}
	return backend, nil
}

// openScrapeLog returns nil when neither SCRAPE_LOG_PATH nor DATABASE_URL is set.
func openScrapeLog(ctx context.Context, cfg *config.Config) (scrapelog.Store, error) {
	store, err := scrapelog.Open(ctx, cfg.ScrapeLogPath, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open scrape log: %w", err)
	}
	return store, nil
}
