package testutil

import (
	"context"
	"encoding/binary"
	"math/rand"
	"path"
	"sync"
	"time"

	"github.com/hupe1980/dictload/blobstore"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// Int32s encodes values as little-endian int32.
func Int32s(values ...int32) []byte {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return b
}

// Int16s encodes values as little-endian int16.
func Int16s(values ...int16) []byte {
	b := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b
}

// Uint32s encodes values as little-endian uint32.
func Uint32s(values ...uint32) []byte {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], v)
	}
	return b
}

// CountingStore wraps a BlobStore and records how often each name is opened.
// It is safe for concurrent use.
type CountingStore struct {
	inner blobstore.BlobStore

	mu     sync.Mutex
	opens  map[string]int
	fails  map[string]error
	delays map[string]time.Duration
	gate   chan struct{}
}

// NewCountingStore wraps inner.
func NewCountingStore(inner blobstore.BlobStore) *CountingStore {
	return &CountingStore{
		inner:  inner,
		opens:  make(map[string]int),
		fails:  make(map[string]error),
		delays: make(map[string]time.Duration),
	}
}

// Fail makes every Open of name return err.
func (s *CountingStore) Fail(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[name] = err
}

// Delay makes every Open of name sleep for d first.
func (s *CountingStore) Delay(name string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[name] = d
}

// Hold blocks every subsequent Open until the returned release func is called.
func (s *CountingStore) Hold() (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gate := make(chan struct{})
	s.gate = gate

	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Opens returns how often name was opened.
func (s *CountingStore) Opens(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens[name]
}

// TotalOpens returns the number of Open calls across all names.
func (s *CountingStore) TotalOpens() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.opens {
		total += n
	}
	return total
}

// Open implements blobstore.BlobStore.
func (s *CountingStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	s.mu.Lock()
	s.opens[name]++
	err := s.fails[name]
	delay := s.delays[name]
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	return s.inner.Open(ctx, name)
}

// Shards returns a small but complete dictionary keyed by shard name.
func Shards() map[string][]byte {
	return map[string][]byte{
		"base":       Int32s(0, 1, -1, 1<<20),
		"check":      Int32s(0, 0, 0, 0),
		"tid":        {0x01, 0x02, 0x03},
		"tid_pos":    {0x10, 0x20},
		"tid_map":    {0xFF},
		"cc":         Int16s(0, -1, 300, -32768),
		"unk":        {0x0A, 0x0B},
		"unk_pos":    {0x00},
		"unk_map":    {0x07, 0x08, 0x09},
		"unk_char":   {0x41, 0x42, 0x43, 0x44},
		"unk_compat": Uint32s(1, 0xFFFFFFFF),
		"unk_invoke": {},
	}
}

// Populate writes shards into s as path.Join(base, name+".dat").
func Populate(ctx context.Context, s *blobstore.MemoryStore, base string, shards map[string][]byte) error {
	for name, data := range shards {
		if err := s.Put(ctx, path.Join(base, name+".dat"), data); err != nil {
			return err
		}
	}
	return nil
}
