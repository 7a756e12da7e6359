package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// DefaultTable is the key-value table used when none is configured.
const DefaultTable = "kv_store"

// PostgresStore implements the key-value store on a PostgreSQL table
type PostgresStore struct {
	db    *pgxpool.Pool
	table string
}

// NewPostgresStore creates a new PostgreSQL store on table. The name is
// quoted, so any identifier is safe to pass.
func NewPostgresStore(db *pgxpool.Pool, table string) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema creates the key-value table if it does not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, s.table)

	if _, err := s.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("repository: failed to create table: %w", err)
	}
	return nil
}

// Get reads the value stored under key
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	sql := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table)

	var value string
	err := s.db.QueryRow(ctx, sql, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("repository: failed to read key: %w", err)
	}

	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, s.table)

	if _, err := s.db.Exec(ctx, sql, key, value); err != nil {
		return fmt.Errorf("repository: failed to write key: %w", err)
	}
	return nil
}

// Remove deletes key; removing a missing key is not an error
func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table)

	if _, err := s.db.Exec(ctx, sql, key); err != nil {
		return fmt.Errorf("repository: failed to delete key: %w", err)
	}
	return nil
}
