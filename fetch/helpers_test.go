package fetch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/dictload/cache"
)

var errBoom = errors.New("boom")

type recorder struct {
	mu        sync.Mutex
	fetches   map[string]int
	fetchErrs int
	hits      map[string]int
	misses    map[string]int
}

func newRecorder() *recorder {
	return &recorder{
		fetches: make(map[string]int),
		hits:    make(map[string]int),
		misses:  make(map[string]int),
	}
}

func (r *recorder) RecordFetch(id string, _ int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches[id]++
	if err != nil {
		r.fetchErrs++
	}
}

func (r *recorder) RecordCacheHit(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits[id]++
}

func (r *recorder) RecordCacheMiss(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses[id]++
}

func (r *recorder) counts(id string) (fetches, hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches[id], r.hits[id], r.misses[id]
}

// flakyOpener fails the first n opens.
type flakyOpener struct {
	*cache.MemoryOpener
	failures atomic.Int32
}

func newFlakyOpener(n int32) *flakyOpener {
	o := &flakyOpener{MemoryOpener: cache.NewMemoryOpener()}
	o.failures.Store(n)
	return o
}

func (o *flakyOpener) Open(ctx context.Context) (cache.Store, error) {
	if o.failures.Add(-1) >= 0 {
		return nil, errBoom
	}
	return o.MemoryOpener.Open(ctx)
}

// readOnlyOpener hands out stores that refuse writes.
type readOnlyOpener struct {
	*cache.MemoryOpener
}

func (o readOnlyOpener) Open(ctx context.Context) (cache.Store, error) {
	s, err := o.MemoryOpener.Open(ctx)
	if err != nil {
		return nil, err
	}
	return readOnlyStore{s}, nil
}

type readOnlyStore struct {
	cache.Store
}

func (readOnlyStore) Put(context.Context, string, []byte) error {
	return errBoom
}
