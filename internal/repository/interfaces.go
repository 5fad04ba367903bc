// Package repository defines data access interfaces for FAZAN.CLOUD.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while
// keeping the service layer clean.
package repository

import (
	"context"

	"github.com/narama3535-tech/fazancloud/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
// Username lookups are case-insensitive.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update updates an existing user, matched by username
	// (case-insensitive).
	Update(ctx context.Context, user *domain.User) error

	// Rename changes a user's username, preserving the rest of the record.
	Rename(ctx context.Context, oldUsername, newUsername string) error

	// List returns all users ordered by creation time (newest first).
	List(ctx context.Context) ([]*domain.User, error)

	// ExistsByUsername checks if a user with the given username exists
	// (case-insensitive).
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) (int64, error)
}

// =============================================================================
// Product Repository
// =============================================================================

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	// Create creates a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns all products in insertion order.
	List(ctx context.Context) ([]*domain.Product, error)

	// Update updates an existing product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete deletes a product by ID.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int64, error)
}

// =============================================================================
// Comment Repository
// =============================================================================

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	// Create creates a new comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by ID.
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListByProduct returns the comments for a product, newest first.
	ListByProduct(ctx context.Context, productID string) ([]*domain.Comment, error)

	// Update updates an existing comment (likes, liked-by set).
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete hard-deletes a comment by ID.
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Chat Repository
// =============================================================================

// ChatRepository defines the interface for per-user assistant
// transcripts. Save replaces the whole transcript; there is no merge.
type ChatRepository interface {
	// Save replaces the transcript stored for a username.
	Save(ctx context.Context, username string, messages []domain.ChatMessage) error

	// History returns the transcript stored for a username, oldest
	// first. A missing transcript yields an empty slice.
	History(ctx context.Context, username string) ([]domain.ChatMessage, error)
}

// =============================================================================
// Log Repository
// =============================================================================

// LogRepository defines the interface for the bounded system log.
type LogRepository interface {
	// Append inserts a log entry and truncates the collection to the
	// most recent domain.MaxLogEntries, dropping the oldest.
	Append(ctx context.Context, entry *domain.LogEntry) error

	// List returns stored entries, newest first, up to limit.
	// A non-positive limit returns all entries.
	List(ctx context.Context, limit int) ([]*domain.LogEntry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
}
