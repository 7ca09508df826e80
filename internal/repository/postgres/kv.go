package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/repositories"
)

// KVStore implements the KVStore interface on a single Postgres table
type KVStore struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

var _ repositories.KVStore = (*KVStore)(nil)

// NewKVStore creates a new Postgres-backed KV store
func NewKVStore(pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) *KVStore {
	return &KVStore{
		pool:   pool,
		table:  tables.KV,
		logger: logger,
	}
}

// Migrate creates the table if it does not exist
func (s *KVStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, s.table)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	s.logger.Debug("kv table ready", "table", s.table)
	return nil
}

// Load retrieves a value by key
func (s *KVStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table)

	var value []byte
	err := GetExecutor(ctx, s.pool).QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, false, nil
		}
		if IsPgUndefinedTableError(err) {
			return nil, false, fmt.Errorf("load %s: table %s missing, run Migrate: %w", key, s.table, err)
		}
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return value, true, nil
}

// Store upserts a value
func (s *KVStore) Store(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.table)

	if _, err := GetExecutor(ctx, s.pool).Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (s *KVStore) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table)

	if _, err := GetExecutor(ctx, s.pool).Exec(ctx, query, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
