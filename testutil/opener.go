package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/hupe1980/dictload/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunOpenerTests runs the behavior every cache.Opener must provide.
// newOpener must return a fresh, empty opener for each call.
func RunOpenerTests(t *testing.T, newOpener func(t *testing.T) cache.Opener) {
	t.Helper()
	ctx := context.Background()

	t.Run("MissThenHit", func(t *testing.T) {
		o := newOpener(t)
		s, err := o.Open(ctx)
		require.NoError(t, err)
		defer s.Close()

		_, ok, err := s.Get(ctx, "dict/base.dat")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Put(ctx, "dict/base.dat", []byte{0, 0, 0, 0}))

		got, ok, err := s.Get(ctx, "dict/base.dat")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte{0, 0, 0, 0}, got)

		has, err := s.Has(ctx, "dict/base.dat")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("KeysAreLiteral", func(t *testing.T) {
		o := newOpener(t)
		s, err := o.Open(ctx)
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Put(ctx, "dict/cc.dat", []byte{1, 0}))

		has, err := s.Has(ctx, "./dict/cc.dat")
		require.NoError(t, err)
		assert.False(t, has)

		_, ok, err := s.Get(ctx, "dict//cc.dat")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("FirstPutWins", func(t *testing.T) {
		o := newOpener(t)
		s, err := o.Open(ctx)
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Put(ctx, "k", []byte("first")))
		require.NoError(t, s.Put(ctx, "k", []byte("second")))

		got, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("first"), got)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		o := newOpener(t)
		s, err := o.Open(ctx)
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Put(ctx, "empty", []byte{}))

		got, ok, err := s.Get(ctx, "empty")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, got)
	})

	t.Run("ConcurrentPuts", func(t *testing.T) {
		o := newOpener(t)
		s, err := o.Open(ctx)
		require.NoError(t, err)
		defer s.Close()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, "dict/tid.dat", []byte{1, 2, 3}))
			}()
		}
		wg.Wait()

		got, ok, err := s.Get(ctx, "dict/tid.dat")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte{1, 2, 3}, got)
	})

	t.Run("DestroyWhileOpenIsRefused", func(t *testing.T) {
		o := newOpener(t)
		s, err := o.Open(ctx)
		require.NoError(t, err)

		assert.ErrorIs(t, o.Destroy(ctx), cache.ErrStoreBusy)

		require.NoError(t, s.Close())
		require.NoError(t, o.Destroy(ctx))
	})

	t.Run("DestroyThenReopenIsEmpty", func(t *testing.T) {
		o := newOpener(t)
		s, err := o.Open(ctx)
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx, "dict/unk.dat", []byte{1}))
		require.NoError(t, s.Close())

		require.NoError(t, o.Destroy(ctx))

		s, err = o.Open(ctx)
		require.NoError(t, err)
		defer s.Close()

		has, err := s.Has(ctx, "dict/unk.dat")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("DestroyIsIdempotent", func(t *testing.T) {
		o := newOpener(t)
		require.NoError(t, o.Destroy(ctx), "never opened")
		require.NoError(t, o.Destroy(ctx), "already destroyed")
	})

	t.Run("ClosedStore", func(t *testing.T) {
		o := newOpener(t)
		s, err := o.Open(ctx)
		require.NoError(t, err)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close(), "close is idempotent")

		_, _, err = s.Get(ctx, "k")
		assert.ErrorIs(t, err, cache.ErrClosed)
		assert.ErrorIs(t, s.Put(ctx, "k", nil), cache.ErrClosed)
	})
}
