package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/dictload/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Bytes(t *testing.T) {
	a := NewRNG(4711).Bytes(32)
	b := NewRNG(4711).Bytes(32)

	assert.Len(t, a, 32)
	assert.Equal(t, a, b, "same seed yields same bytes")
}

func TestEncoders(t *testing.T) {
	assert.Equal(t, []byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}, Int32s(1, -1))
	assert.Equal(t, []byte{2, 0, 0xfe, 0xff}, Int16s(2, -2))
	assert.Equal(t, []byte{3, 0, 0, 0}, Uint32s(3))
}

func TestCountingStore(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "a", []byte{1}))

	s := NewCountingStore(mem)
	boom := errors.New("boom")
	s.Fail("b", boom)
	s.Delay("a", time.Millisecond)

	_, err := blobstore.Fetch(ctx, s, "a")
	require.NoError(t, err)
	_, err = blobstore.Fetch(ctx, s, "b")
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 1, s.Opens("a"))
	assert.Equal(t, 1, s.Opens("b"))
	assert.Equal(t, 2, s.TotalOpens())
}

func TestCountingStore_Hold(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "a", []byte{1}))

	s := NewCountingStore(mem)
	release := s.Hold()

	done := make(chan error, 1)
	go func() {
		_, err := blobstore.Fetch(ctx, s, "a")
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("open returned while held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	require.NoError(t, <-done)
}
