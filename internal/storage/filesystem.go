package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore implements ImageStore on a local directory.
type FilesystemStore struct {
	dataDir string
}

// NewFilesystemStore creates a filesystem image store rooted at dataDir.
func NewFilesystemStore(dataDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &FilesystemStore{dataDir: dataDir}, nil
}

// resolve maps a key to a path under dataDir, rejecting traversal.
func (s *FilesystemStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid image key: %q", key)
	}
	return filepath.Join(s.dataDir, clean), nil
}

// Store writes the image atomically: content goes to a temp file first,
// then renames over the final path.
func (s *FilesystemStore) Store(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create image subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, reader)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write image: %w", err)
	}
	if size > 0 && written != size {
		_ = os.Remove(tmpName)
		return fmt.Errorf("image size mismatch: expected %d bytes, wrote %d", size, written)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to finalize image: %w", err)
	}

	return nil
}

// Retrieve opens the image under the key. The content type is derived
// from the key's extension.
func (s *FilesystemStore) Retrieve(ctx context.Context, key string) (io.ReadCloser, string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrImageNotFound
		}
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}

	return f, contentTypeForKey(key), nil
}

// Delete removes the image under the key.
func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// Exists checks if an image exists under the key.
func (s *FilesystemStore) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat image: %w", err)
	}
	return true, nil
}

// contentTypeForKey derives the content type from the key extension.
func contentTypeForKey(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Ensure FilesystemStore implements ImageStore.
var _ ImageStore = (*FilesystemStore)(nil)
