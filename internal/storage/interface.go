package storage

import (
	"context"
	"io"
)

// ObjectStorage archives full-resolution meal images outside the database.
type ObjectStorage interface {
	// Upload stores an object under key
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an object by key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object by key
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)
}
