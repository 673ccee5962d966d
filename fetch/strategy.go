package fetch

import (
	"context"
	"time"

	"github.com/hupe1980/dictload/blobstore"
)

// Strategy obtains the raw bytes of one shard.
// Implementations must be safe for concurrent use.
type Strategy interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, id string) ([]byte, error)

// Fetch implements Strategy.
func (f StrategyFunc) Fetch(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

// Direct reads every shard from its source. It never caches and never retries.
type Direct struct {
	src  blobstore.BlobStore
	opts options
}

// NewDirect creates a Direct strategy over src.
func NewDirect(src blobstore.BlobStore, optFns ...Option) *Direct {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Direct{src: src, opts: opts}
}

// Fetch reads the complete shard named id.
func (d *Direct) Fetch(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()

	data, err := d.read(ctx, id)

	d.opts.observer.RecordFetch(id, len(data), time.Since(start), err)
	if err != nil {
		d.opts.logger.DebugContext(ctx, "shard fetch failed", "id", id, "error", err)
		return nil, err
	}
	d.opts.logger.DebugContext(ctx, "shard fetched", "id", id, "bytes", len(data))
	return data, nil
}

func (d *Direct) read(ctx context.Context, id string) ([]byte, error) {
	rc := d.opts.rc
	if err := rc.AcquireRead(ctx); err != nil {
		return nil, newFetchError(id, err)
	}
	defer rc.ReleaseRead()

	data, err := blobstore.Fetch(ctx, d.src, id)
	if err != nil {
		return nil, newFetchError(id, err)
	}
	if err := rc.AcquireIO(ctx, len(data)); err != nil {
		return nil, newFetchError(id, err)
	}
	return data, nil
}
