package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resumetailor/internal/extraction"
	"github.com/jonathan/resumetailor/internal/observability"
	"github.com/jonathan/resumetailor/internal/scrapelog"
)

var (
	extractConcurrency int
	extractSave        bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>...",
	Short: "Extract job descriptions from allow-listed URLs",
	Long:  "Fetch each URL, isolate its job description and print it. With --save, found descriptions are appended to the scrape log.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().IntVarP(&extractConcurrency, "concurrency", "c", 2, "Maximum URLs fetched at once")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "Append found descriptions to the scrape log")
	rootCmd.AddCommand(extractCmd)
}

// descriptionExtractor is the part of extraction.Extractor the command uses.
type descriptionExtractor interface {
	Extract(ctx context.Context, url string) (extraction.Result, error)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var store scrapelog.Store
	if extractSave {
		store, err = openScrapeLog(ctx, cfg)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("--save requires SCRAPE_LOG_PATH or DATABASE_URL")
		}
		defer store.Close()
	}

	results, err := extractAll(ctx, newExtractor(cfg), args, extractConcurrency)
	if err != nil {
		return err
	}
	return report(ctx, cmd.OutOrStdout(), results, store, cfg.Verbose)
}

// extractAll extracts urls with at most limit in flight. Results keep input
// order. The first error cancels the remaining extractions.
func extractAll(ctx context.Context, ex descriptionExtractor, urls []string, limit int) ([]extraction.Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]extraction.Result, len(urls))
	for i, url := range urls {
		g.Go(func() error {
			result, err := ex.Extract(ctx, url)
			if err != nil {
				return fmt.Errorf("%s: %w", url, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// report prints each result and saves found ones. It fails when any
// description was not found so scripts see a non-zero exit.
func report(ctx context.Context, out io.Writer, results []extraction.Result, store scrapelog.Store, verbose bool) error {
	printer := observability.NewPrinter(out)
	missing := 0

	for _, result := range results {
		if verbose {
			printer.PrintExtraction(result)
		} else if result.Found {
			fmt.Fprintf(out, "# %s\n%s\n\n", result.URL, result.Description)
		} else {
			fmt.Fprintf(out, "# %s\nNOT FOUND (%s)\n\n", result.URL, result.Reason)
		}

		if !result.Found {
			missing++
			continue
		}
		if store == nil {
			continue
		}

		entry := scrapelog.Entry{Source: string(result.Platform), URL: result.URL, Description: result.Description}
		if err := store.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to save %s: %w", result.URL, err)
		}
		if verbose {
			entries, err := store.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to read scrape log: %w", err)
			}
			printer.PrintScrapeLogAppend(entry, len(entries))
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d job descriptions not found", missing, len(results))
	}
	return nil
}
