// Package schemas provides JSON Schema validation for persisted JSON documents.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed scrape_log.schema.json
var scrapeLogSchema []byte

// ScrapeLogSchemaName identifies the embedded scrape log schema in errors.
const ScrapeLogSchemaName = "scrape_log.schema.json"

var (
	scrapeLogOnce     sync.Once
	scrapeLogCompiled *gojsonschema.Schema
	scrapeLogErr      error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading the schema or the document.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateScrapeLog validates a scrape log document against the embedded schema.
// The schema is compiled once.
func ValidateScrapeLog(doc []byte) error {
	scrapeLogOnce.Do(func() {
		scrapeLogCompiled, scrapeLogErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(scrapeLogSchema))
	})
	if scrapeLogErr != nil {
		return &SchemaLoadError{Path: ScrapeLogSchemaName, Message: "invalid schema", Cause: scrapeLogErr}
	}

	result, err := scrapeLogCompiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &SchemaLoadError{Path: ScrapeLogSchemaName, Message: "document could not be loaded", Cause: err}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
