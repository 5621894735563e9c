package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/resumetailor/internal/server"
	"github.com/jonathan/resumetailor/internal/server/ratelimit"
	"github.com/jonathan/resumetailor/internal/tailoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server exposing /extract, /tailor and /scrape-log.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx := cmd.Context()

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	store, err := openScrapeLog(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	} else {
		log.Printf("Scrape log disabled (set SCRAPE_LOG_PATH or DATABASE_URL to enable)")
	}
	if cfg.JWT == nil {
		log.Printf("Authentication disabled (set JWT_SECRET to enable)")
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Extractor: newExtractor(cfg),
		Tailor:    tailoring.New(backend),
		ScrapeLog: store,
		RateLimit: ratelimit.LoadConfig(),
		JWT:       cfg.JWT,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
