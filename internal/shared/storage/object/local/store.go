package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"jobmatch-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Put writes the reader to disk at the storage key, replacing any existing file.
func (s *Store) Put(ctx context.Context, storageKey string, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	return written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Store) resolve(storageKey string) (string, error) {
	clean := filepath.Clean(storageKey)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
