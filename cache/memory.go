package cache

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryOpener is a process-local Opener for tests.
// Entries live as long as the opener and are dropped by Destroy.
type MemoryOpener struct {
	refs handles

	mu      sync.RWMutex
	entries map[string][]byte
	opens   atomic.Int64
}

// NewMemoryOpener creates an empty MemoryOpener.
func NewMemoryOpener() *MemoryOpener {
	return &MemoryOpener{}
}

// Opens returns how many times Open succeeded.
func (o *MemoryOpener) Opens() int64 {
	return o.opens.Load()
}

// Len returns the number of stored entries.
func (o *MemoryOpener) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}

func (o *MemoryOpener) Open(ctx context.Context) (Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := o.refs.acquire(func() error {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.entries == nil {
			o.entries = make(map[string][]byte)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.opens.Add(1)
	return &memoryStore{o: o}, nil
}

func (o *MemoryOpener) Destroy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.refs.destroy(func() error {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.entries = nil
		return nil
	})
}

type memoryStore struct {
	o      *MemoryOpener
	closed atomic.Bool
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrClosed
	}

	s.o.mu.RLock()
	defer s.o.mu.RUnlock()

	v, ok := s.o.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *memoryStore) Has(_ context.Context, key string) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}

	s.o.mu.RLock()
	defer s.o.mu.RUnlock()

	_, ok := s.o.entries[key]
	return ok, nil
}

func (s *memoryStore) Put(_ context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.o.mu.Lock()
	defer s.o.mu.Unlock()

	if _, ok := s.o.entries[key]; ok {
		return nil
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.o.entries[key] = v
	return nil
}

func (s *memoryStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.o.refs.release()
	return nil
}
