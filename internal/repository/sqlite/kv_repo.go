package sqlite

import (
	"context"
	"fmt"

	"github.com/narama3535-tech/fazancloud/internal/kv"
)

// kvStore implements kv.Store over the kv_store table. It backs the
// storefront's scalar global state (lockdown flag, announcement).
type kvStore struct {
	db *DB
}

// NewKVStore creates a new SQLite-backed key-value store.
func NewKVStore(db *DB) kv.Store {
	return &kvStore{db: db}
}

// Get retrieves the raw JSON value for a key.
func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return []byte(value), nil
}

// Set stores the raw JSON value for a key.
func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// Remove deletes the value for a key.
func (s *kvStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove key: %w", err)
	}
	return nil
}

// Ensure kvStore implements kv.Store.
var _ kv.Store = (*kvStore)(nil)
