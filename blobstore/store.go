package blobstore

import (
	"context"
	"fmt"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for reading immutable dictionary shards.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	// Close releases the handle.
	Close() error
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	// This is a zero-copy operation if supported.
	Bytes() ([]byte, error)
}

// Downloader is an optional interface for stores that can transfer a whole
// blob in one request instead of Open followed by ranged reads.
type Downloader interface {
	Download(ctx context.Context, name string) ([]byte, error)
}

// StatusError reports a non-success status returned by a remote source.
type StatusError struct {
	StatusCode int
	Status     string
	Name       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("blobstore: %s: unexpected status %d (%s)", e.Name, e.StatusCode, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
