package scrapelog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/resumetailor/internal/schemas"
)

// FileStore keeps the log as one pretty-printed JSON array.
//
// Every Append reads the whole file, appends one entry and rewrites the
// file through a temp file and rename, all under one mutex. A single
// FileStore must own its path within a process.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store at path, creating parent directories.
// The file itself is created on first append.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("scrape log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scrape log directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the log file path.
func (s *FileStore) Path() string {
	return s.path
}

// Append adds entry to the end of the log.
func (s *FileStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scrape log: %w", err)
	}
	if err := s.writeAtomic(append(data, '\n')); err != nil {
		return err
	}

	log.Printf("[SCRAPELOG] Appended %s to %s (%d entries)", entry.URL, s.path, len(entries))
	return nil
}

// List returns all entries.
func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// read treats a missing or empty file as an empty log.
func (s *FileStore) read() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scrape log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Entry{}, nil
	}

	if err := schemas.ValidateScrapeLog(data); err != nil {
		return nil, &CorruptLogError{Path: s.path, Cause: err}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &CorruptLogError{Path: s.path, Cause: err}
	}
	return entries, nil
}

func (s *FileStore) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write scrape log: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync scrape log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close scrape log: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set scrape log permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace scrape log: %w", err)
	}
	return nil
}
