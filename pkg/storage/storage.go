package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound signals that no object exists under the requested key.
var ErrNotFound = errors.New("storage: object not found")

// Store is the file backend owned by code attachments and work images.
// Delete of a missing key must succeed so that releasing a file stays
// safe to retry after a partial failure.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
