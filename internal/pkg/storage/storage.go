package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid file path")
)

// FileStorage persists opaque blobs under relative keys.
type FileStorage interface {
	// Upload stores file under path and returns the stored key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download opens a stored file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file, missing files are not an error
	Delete(ctx context.Context, path string) error

	// GetURL returns the public URL of a stored key
	GetURL(ctx context.Context, path string) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
