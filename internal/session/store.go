// Package session stores login sessions on top of the cache layer.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session is the snapshot of a logged-in user kept in the cache.
// Role is re-checked against the user record on privileged routes, so
// a stale snapshot cannot keep elevated access after a demotion.
type Session struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	IP        string      `json:"ip"`
	CreatedAt time.Time   `json:"created_at"`
}

// Store manages sessions in a repository.Cache.
type Store struct {
	cache repository.Cache
	ttl   time.Duration
}

// NewStore creates a session store with the given idle TTL.
func NewStore(cache repository.Cache, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create issues a new session for the user.
func (s *Store) Create(ctx context.Context, user *domain.User, ip string) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		Username:  user.Username,
		Role:      user.Role,
		IP:        ip,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.cache.Set(ctx, sessionKey(sess.ID), data, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return sess, nil
}

// Get retrieves a session by ID and slides its expiry.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	data, err := s.cache.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, repository.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	// Sliding expiry: a read keeps the session alive.
	_ = s.cache.Set(ctx, sessionKey(id), data, s.ttl)

	return &sess, nil
}

// Update rewrites the stored snapshot, e.g. after a role change or rename.
func (s *Store) Update(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKey(sess.ID), data, s.ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKey(id))
}
