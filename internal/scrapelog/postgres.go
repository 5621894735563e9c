package scrapelog

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS scrape_log (
	seq         BIGSERIAL PRIMARY KEY,
	id          UUID NOT NULL UNIQUE,
	source      TEXT NOT NULL,
	url         TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PGStore keeps the log in a Postgres table. Rows are inserted only.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to databaseURL and creates the log table if needed.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create scrape_log table: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

// Append inserts one entry and returns after it is committed.
func (s *PGStore) Append(ctx context.Context, entry Entry) error {
	id := uuid.New()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrape_log (id, source, url, description) VALUES ($1, $2, $3, $4)`,
		id, entry.Source, entry.URL, entry.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to append scrape log entry: %w", err)
	}
	log.Printf("[SCRAPELOG] Appended %s (id=%s)", entry.URL, id)
	return nil
}

// List returns all entries in insertion order.
func (s *PGStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT source, url, description FROM scrape_log ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scrape log: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Source, &e.URL, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan scrape log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scrape log: %w", err)
	}
	return entries, nil
}

// Close closes the connection pool
func (s *PGStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
