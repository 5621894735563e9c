// Package scrapelog persists successful extractions to an append-only log.
//
// Entries are only ever appended. Nothing in this package edits or removes
// an entry once written.
package scrapelog

import (
	"context"
	"errors"
	"fmt"
)

// Entry is one logged extraction.
type Entry struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Store is an append-only sink for entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// List returns all entries in append order.
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// ErrCorruptLog is returned when the existing log cannot be parsed or does
// not match the log schema. The file is left untouched.
var ErrCorruptLog = errors.New("scrape log is corrupt")

// CorruptLogError wraps ErrCorruptLog with the file path and cause.
type CorruptLogError struct {
	Path  string
	Cause error
}

func (e *CorruptLogError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrCorruptLog, e.Path, e.Cause)
}

func (e *CorruptLogError) Unwrap() []error {
	return []error{ErrCorruptLog, e.Cause}
}

// Open returns the configured store: Postgres when databaseURL is set,
// otherwise a file store when path is set. Both empty disables logging and
// returns a nil Store.
func Open(ctx context.Context, path, databaseURL string) (Store, error) {
	switch {
	case databaseURL != "":
		store, err := NewPGStore(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case path != "":
		store, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}
