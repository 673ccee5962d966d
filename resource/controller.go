// Package resource bounds how hard shard fetches hit their source.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentReads is the maximum number of source reads in flight.
	// If 0, unlimited.
	MaxConcurrentReads int64

	// IOLimitBytesPerSec is the maximum source read throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller limits source reads. A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	// Concurrency
	readSem  *semaphore.Weighted // nil if unlimited
	inFlight atomic.Int64

	// IO
	ioLimiter *rate.Limiter
	ioBytes   atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxConcurrentReads > 0 {
		c.readSem = semaphore.NewWeighted(cfg.MaxConcurrentReads)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireRead reserves a read slot.
// Blocks while all slots are busy or until ctx is canceled.
func (c *Controller) AcquireRead(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.readSem != nil {
		if err := c.readSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.inFlight.Add(1)
	return nil
}

// ReleaseRead releases a read slot.
func (c *Controller) ReleaseRead() {
	if c == nil {
		return
	}
	if c.readSem != nil {
		c.readSem.Release(1)
	}
	c.inFlight.Add(-1)
}

// InFlight returns the number of reads currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than one second of budget are paced in burst-sized steps.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	c.ioBytes.Add(int64(bytes))

	if c.ioLimiter == nil {
		return nil
	}

	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}

// IOBytes returns the total bytes accounted through AcquireIO.
func (c *Controller) IOBytes() int64 {
	if c == nil {
		return 0
	}
	return c.ioBytes.Load()
}
