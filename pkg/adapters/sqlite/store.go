// Package sqlite provides a verdict archive backed by an embedded SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/zonecheck/internal/cache"
	"github.com/aretw0/zonecheck/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS verdicts (
	key TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	satisfied INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verdicts_created ON verdicts(created_at);
`

// Store implements ports.VerdictStore on SQLite. Besides the compressed
// payload it keeps the query text and outcome in columns for inspection
// with the sqlite3 shell.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" is accepted for
// tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists the verdict, replacing any previous one under key.
func (s *Store) Save(ctx context.Context, key string, verdict *domain.Verdict) error {
	payload, err := cache.Encode(verdict)
	if err != nil {
		return err
	}
	created := verdict.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO verdicts (key, query, satisfied, created_at, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		key, verdict.Query, verdict.Satisfied, created.UnixNano(), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save verdict: %w", err)
	}
	return nil
}

// Load retrieves the verdict stored under key.
func (s *Store) Load(ctx context.Context, key string) (*domain.Verdict, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM verdicts WHERE key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrVerdictNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load verdict: %w", err)
	}
	return cache.Decode(payload)
}

// Delete removes the verdict stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM verdicts WHERE key = ?", key)
	return err
}

// List returns every stored key, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM verdicts ORDER BY created_at, key")
	if err != nil {
		return nil, fmt.Errorf("failed to list verdicts: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Prune deletes verdicts created before cutoff and reports how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM verdicts WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune verdicts: %w", err)
	}
	return res.RowsAffected()
}
