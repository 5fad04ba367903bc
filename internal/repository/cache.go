package repository

import (
	"context"
	"time"
)

// Cache defines the interface for ephemeral keyed state: login session
// snapshots and in-flight visual-search jobs. Implemented by the
// in-memory cache for single-node deployments and by Redis when
// configured.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)
}
