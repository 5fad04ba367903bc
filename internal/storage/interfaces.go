// Package storage defines interfaces for product image storage backends.
// Product photos come in as uploads or scraped Telegram previews and
// are served back by key on the storefront.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrImageNotFound is returned when no image exists under a key.
var ErrImageNotFound = errors.New("image not found")

// ImageStore defines the interface for image storage backends.
// Implementations include the local filesystem and S3.
type ImageStore interface {
	// Store persists image content under the given key, replacing any
	// previous content. Keys are slash-separated paths like
	// "products/<id>.jpg".
	Store(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Retrieve returns the image content and its content type.
	// The returned ReadCloser must be closed after use.
	// Returns ErrImageNotFound if the key doesn't exist.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes the image under the key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks if an image exists under the key.
	Exists(ctx context.Context, key string) (bool, error)
}
