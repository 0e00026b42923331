package storage

import (
	"context"
	"io"
)

// Uploader publishes files under remote paths and reports the public URL
// each object is served from.
type Uploader interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, remotePath string, data io.Reader, contentType string) (string, error)
}
