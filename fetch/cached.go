package fetch

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/dictload/cache"
)

// Cached is a cache-aside Strategy over a persistent shard store.
//
// Stored entries are keyed by the literal resource identifier. An entry, once
// written, is never overwritten by a later fetch of the same identifier.
type Cached struct {
	source Strategy
	opener cache.Opener
	opts   options

	// mu is held shared by cache operations for their whole duration and
	// exclusively by Clear and Close.
	mu sync.RWMutex

	// openMu guards store while mu is held shared. Holding mu exclusively
	// also grants access to store.
	openMu sync.Mutex
	store  cache.Store

	group singleflight.Group
}

// NewCached creates a Cached strategy that reads misses through source and
// stores them in the store produced by opener.
func NewCached(source Strategy, opener cache.Opener, optFns ...Option) *Cached {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Cached{source: source, opener: opener, opts: opts}
}

// Fetch returns the cached bytes for id, or reads them through the source
// and stores them.
//
// A failure to store the bytes is logged and the bytes are still returned.
//
// Concurrent calls for the same id share one read. The shared read is not
// bound to any caller's cancellation: a caller whose ctx ends stops waiting
// with an interrupted FetchError while the others still receive the bytes.
func (c *Cached) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, newFetchError(id, err)
	}

	ch := c.group.DoChan(id, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), id)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		data := res.Val.([]byte)
		if res.Shared {
			return bytes.Clone(data), nil
		}
		return data, nil
	case <-ctx.Done():
		return nil, newFetchError(id, ctx.Err())
	}
}

func (c *Cached) fetch(ctx context.Context, id string) ([]byte, error) {
	store, release, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	data, ok, err := store.Get(ctx, id)
	if err != nil {
		return nil, &CacheError{Op: "get", ID: id, Err: err}
	}
	if ok {
		c.opts.observer.RecordCacheHit(id)
		c.opts.logger.DebugContext(ctx, "shard cache hit", "id", id, "bytes", len(data))
		return data, nil
	}

	c.opts.observer.RecordCacheMiss(id)

	data, err = c.source.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := store.Put(ctx, id, data); err != nil {
		c.opts.logger.WarnContext(ctx, "shard cache write failed", "id", id, "error", err)
	}
	return data, nil
}

// IsCached reports whether an entry for id exists in the store.
func (c *Cached) IsCached(ctx context.Context, id string) (bool, error) {
	store, release, err := c.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	ok, err := store.Has(ctx, id)
	if err != nil {
		return false, &CacheError{Op: "has", ID: id, Err: err}
	}
	return ok, nil
}

// Clear removes every stored entry by destroying the store. It waits for
// in-flight cache operations to finish first. Clearing a store that was never
// opened or created succeeds.
func (c *Cached) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, err)
		}
		c.store = nil
	}
	if err := c.opener.Destroy(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return &CacheError{Op: "clear", Err: err}
	}

	c.opts.logger.InfoContext(ctx, "shard cache cleared")
	return nil
}

// Close releases the store handle. A later Fetch reopens it.
func (c *Cached) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// acquire returns the memoized store with mu held shared, opening the store
// first if necessary. A failed open is not memoized.
func (c *Cached) acquire(ctx context.Context) (cache.Store, func(), error) {
	c.mu.RLock()

	store, err := c.open(ctx)
	if err != nil {
		c.mu.RUnlock()
		return nil, nil, &CacheError{Op: "open", Err: err}
	}
	return store, c.mu.RUnlock, nil
}

// open must be called with mu held shared.
func (c *Cached) open(ctx context.Context) (cache.Store, error) {
	c.openMu.Lock()
	defer c.openMu.Unlock()

	if c.store == nil {
		store, err := c.opener.Open(ctx)
		if err != nil {
			return nil, err
		}
		c.store = store
	}
	return c.store, nil
}
