package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Reads(t *testing.T) {
	c := NewController(Config{MaxConcurrentReads: 2})
	ctx := context.Background()

	require.NoError(t, c.AcquireRead(ctx))
	require.NoError(t, c.AcquireRead(ctx))
	assert.Equal(t, int64(2), c.InFlight())

	// Third acquire should block until timeout
	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireRead(tctx), context.DeadlineExceeded)

	c.ReleaseRead()
	require.NoError(t, c.AcquireRead(ctx))
	assert.Equal(t, int64(2), c.InFlight())
}

func TestController_UnlimitedReads(t *testing.T) {
	c := NewController(Config{})
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, c.AcquireRead(ctx))
	}
	assert.Equal(t, int64(100), c.InFlight())
}

func TestController_IOLargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// 1.5 seconds worth of budget minus the initial full bucket completes in ~0.5s.
	start := time.Now()
	require.NoError(t, c.AcquireIO(context.Background(), 3<<19))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int64(3<<19), c.IOBytes())
}

func TestController_IOCanceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.NoError(t, c.AcquireIO(ctx, 10)) // drains the bucket
	assert.Error(t, c.AcquireIO(ctx, 10))
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireRead(context.Background()))
	c.ReleaseRead()
	require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
	assert.Zero(t, c.InFlight())
}
