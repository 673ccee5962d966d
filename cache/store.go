package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/dictload/internal/compress"
)

var (
	// ErrStoreBusy is returned by Destroy while a handle on the store is open.
	ErrStoreBusy = errors.New("cache: store is in use")
	// ErrClosed is returned by operations on a closed Store.
	ErrClosed = errors.New("cache: store is closed")
	// ErrSchemaMismatch is returned by Open when an existing store was written
	// by an incompatible layout.
	ErrSchemaMismatch = errors.New("cache: schema mismatch")
)

// Compression selects how values are stored on disk.
type Compression = compress.Codec

const (
	CompressionNone = compress.CodecNone
	CompressionLZ4  = compress.CodecLZ4
	CompressionZSTD = compress.CodecZSTD
)

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(name string) (Compression, error) {
	return compress.ParseCodec(name)
}

// Store is an open handle on a persistent shard store.
// Individual Get and Put calls are atomic. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the stored bytes for key. ok=false if missing.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put stores value under key. If key is already present the existing
	// value is kept and Put returns nil.
	Put(ctx context.Context, key string, value []byte) error
	// Has reports whether key is present without reading the value.
	Has(ctx context.Context, key string) (bool, error)
	// Close releases the handle.
	Close() error
}

// Opener opens and destroys one persistent store.
type Opener interface {
	// Open opens the store, creating it and its schema if needed.
	Open(ctx context.Context) (Store, error)
	// Destroy deletes the entire store. It fails with ErrStoreBusy while any
	// handle returned by this Opener's Open is still open. Handles held
	// through another Opener or process on the same location are not
	// counted. Destroying a store that does not exist succeeds.
	Destroy(ctx context.Context) error
}

// handles counts open Store handles so Destroy can refuse while in use.
type handles struct {
	mu   sync.Mutex
	open int
}

func (h *handles) acquire(openFn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := openFn(); err != nil {
		return err
	}
	h.open++
	return nil
}

func (h *handles) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.open--
}

func (h *handles) destroy(destroyFn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.open > 0 {
		return ErrStoreBusy
	}
	return destroyFn()
}
