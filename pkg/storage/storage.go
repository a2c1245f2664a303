package storage

import (
	"context"
	"io"
)

// ObjectStorage uploads and deletes binaries on an external object store.
type ObjectStorage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
}
