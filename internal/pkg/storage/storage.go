package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("file not found")

// FileStorage keeps generated files such as archives and report copies.
type FileStorage interface {
	// Upload writes a file and returns its key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download returns the file content; ErrNotFound when missing
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	// GetURL returns a link to the file, presigned where the backend supports it
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)
}
