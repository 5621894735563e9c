// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resumetailor/internal/extraction"
	"github.com/jonathan/resumetailor/internal/scrapelog"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxLinesToShow caps how many content lines a preview box prints
	maxLinesToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// preview returns the first maxLinesToShow lines of text and a note with
// how many were left out.
func preview(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLinesToShow {
		return text
	}
	shown := strings.Join(lines[:maxLinesToShow], "\n")
	return fmt.Sprintf("%s\n... and %d more lines", shown, len(lines)-maxLinesToShow)
}

// PrintExtraction outputs the outcome of one extraction with a preview of
// the description.
func (p *Printer) PrintExtraction(result extraction.Result) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:       %s\n", result.URL))
	sb.WriteString(fmt.Sprintf("Platform:  %s\n", result.Platform))
	sb.WriteString(fmt.Sprintf("Attempts:  %d\n", result.Attempts))

	if !result.Found {
		sb.WriteString(fmt.Sprintf("Result:    not found (%s)", result.Reason))
		p.printBox("❌ JOB DESCRIPTION NOT FOUND", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Strategy:  %s\n", result.Strategy))
	sb.WriteString(fmt.Sprintf("Length:    %d chars\n", utf8.RuneCountInString(result.Description)))
	sb.WriteString("\n")
	sb.WriteString(preview(result.Description))

	p.printBox("EXTRACTED JOB DESCRIPTION", sb.String())
}

// PrintTailored outputs a preview of a tailored resume.
func (p *Printer) PrintTailored(backend string, text string) {
	if text == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Backend:   %s\n", backend))
	sb.WriteString(fmt.Sprintf("Length:    %d chars\n", utf8.RuneCountInString(text)))
	sb.WriteString("\n")
	sb.WriteString(preview(strings.TrimSpace(text)))

	p.printBox("TAILORED RESUME", sb.String())
}

// PrintScrapeLogAppend confirms an entry was written to the scrape log.
func (p *Printer) PrintScrapeLogAppend(entry scrapelog.Entry, total int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:    %s\n", entry.Source))
	sb.WriteString(fmt.Sprintf("URL:       %s\n", entry.URL))
	if total > 0 {
		sb.WriteString(fmt.Sprintf("Entries:   %d", total))
	}

	p.printBox("✅ SAVED TO SCRAPE LOG", strings.TrimSuffix(sb.String(), "\n"))
}
