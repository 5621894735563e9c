package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resumetailor/internal/observability"
	"github.com/jonathan/resumetailor/internal/tailoring"
)

var (
	tailorJobURL     string
	tailorResumeFile string
	tailorOutputFile string
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job posting",
	Long:  "Extract the job description at --job-url and rewrite the resume in --resume to match it.",
	RunE:  runTailor,
}

func init() {
	tailorCmd.Flags().StringVar(&tailorJobURL, "job-url", "", "Allow-listed job posting URL (required)")
	tailorCmd.Flags().StringVarP(&tailorResumeFile, "resume", "r", "", "Path to a plain-text resume (required)")
	tailorCmd.Flags().StringVarP(&tailorOutputFile, "out", "o", "", "Write the tailored resume here instead of stdout")

	_ = tailorCmd.MarkFlagRequired("job-url")
	_ = tailorCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	resume, err := os.ReadFile(tailorResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	result, err := newExtractor(cfg).Extract(ctx, tailorJobURL)
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if cfg.Verbose {
		printer.PrintExtraction(result)
	}
	if !result.Found {
		return fmt.Errorf("could not extract a job description from %s (%s)", tailorJobURL, result.Reason)
	}

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	tailored, err := tailoring.New(backend).Tailor(ctx, result.Description, string(resume))
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer.PrintTailored(backend.Name(), tailored)
	}

	if tailorOutputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tailored)
		return err
	}
	if err := os.WriteFile(tailorOutputFile, []byte(tailored+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Tailored resume written to %s\n", tailorOutputFile)
	return nil
}
