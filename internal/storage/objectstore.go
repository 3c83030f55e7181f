package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo contains basic information about an object in remote storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// ObjectStore is the read-side interface over an S3-compatible bucket used by
// the bulk download tooling. Methods use context and streaming readers; no
// object content is buffered in memory.
type ObjectStore interface {
	// List returns the objects whose keys start with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}
