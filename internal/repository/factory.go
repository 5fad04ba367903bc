package repository

import (
	"context"

	"github.com/narama3535-tech/fazancloud/internal/kv"
)

// Repositories holds all repository instances. The concrete
// constructors live in the sqlite and postgres packages; wiring
// happens in the server entry point to keep this package free of
// driver imports.
type Repositories struct {
	User    UserRepository
	Product ProductRepository
	Comment CommentRepository
	Chat    ChatRepository
	Log     LogRepository
	KV      kv.Store
}

// DatabaseHealth is an interface for database health checks.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}
