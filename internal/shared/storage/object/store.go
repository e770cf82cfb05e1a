package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects by key.
type ObjectStore interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
