// Package kv defines a minimal key-value store for JSON-encoded scalar
// state (lockdown flag, announcement text, session snapshots). It is
// the narrow read/write contract the storefront's global flags live
// behind; collection data belongs to the repositories instead.
package kv

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrKeyNotFound indicates the key has no stored value. Callers are
// expected to supply their own defaults.
var ErrKeyNotFound = errors.New("key not found")

// Store is a JSON key-value store.
type Store interface {
	// Get retrieves the raw JSON value for a key.
	// Returns ErrKeyNotFound if the key has no value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the raw JSON value for a key, replacing any
	// previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the value for a key. Removing a missing key is
	// not an error.
	Remove(ctx context.Context, key string) error
}

// GetJSON reads a key and unmarshals it into v. Returns ErrKeyNotFound
// if the key has no value.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}
