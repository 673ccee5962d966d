package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hupe1980/dictload/blobstore"
)

// FetchError reports a failed source read.
//
// Status carries the transport status when one is known (HTTP status code,
// 404 for missing blobs) and 0 otherwise.
// The original underlying error can be accessed via errors.Unwrap.
type FetchError struct {
	ID      string
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.ID, e.Message, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s", e.ID, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(id string, err error) *FetchError {
	fe := &FetchError{ID: id, Message: err.Error(), Err: err}

	var se *blobstore.StatusError
	switch {
	case errors.As(err, &se):
		fe.Status = se.StatusCode
		fe.Message = se.Status
	case errors.Is(err, blobstore.ErrNotFound):
		fe.Status = http.StatusNotFound
		fe.Message = "not found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fe.Message = "interrupted"
	}
	return fe
}

// CacheError reports a failure of the persistent shard store.
// Op is one of "open", "get", "has" or "clear".
type CacheError struct {
	Op  string
	ID  string
	Err error
}

func (e *CacheError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("cache %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
