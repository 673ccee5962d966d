package dictload

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/dictload/fetch"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prometheus for a Prometheus implementation.
//
// Implementations must be safe for concurrent use: shard events are reported
// from the load's fetch goroutines.
type MetricsCollector interface {
	// RecordFetch, RecordCacheHit and RecordCacheMiss report per-shard
	// events. Cache events are only reported by cached loaders.
	fetch.Observer

	// RecordLoad is called after each dictionary load.
	RecordLoad(duration time.Duration, err error)

	// RecordClear is called after each cache clear.
	RecordClear(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFetch(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCacheHit(string)                         {}
func (NoopMetricsCollector) RecordCacheMiss(string)                        {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)               {}
func (NoopMetricsCollector) RecordClear(error)                             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FetchCount      atomic.Int64
	FetchErrors     atomic.Int64
	FetchBytes      atomic.Int64
	FetchTotalNanos atomic.Int64
	CacheHits       atomic.Int64
	CacheMisses     atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadTotalNanos  atomic.Int64
	ClearCount      atomic.Int64
	ClearErrors     atomic.Int64
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(_ string, bytes int, duration time.Duration, err error) {
	b.FetchCount.Add(1)
	b.FetchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FetchErrors.Add(1)
		return
	}
	b.FetchBytes.Add(int64(bytes))
}

// RecordCacheHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheHit(string) {
	b.CacheHits.Add(1)
}

// RecordCacheMiss implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheMiss(string) {
	b.CacheMisses.Add(1)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear(err error) {
	b.ClearCount.Add(1)
	if err != nil {
		b.ClearErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FetchCount:    b.FetchCount.Load(),
		FetchErrors:   b.FetchErrors.Load(),
		FetchBytes:    b.FetchBytes.Load(),
		FetchAvgNanos: avg(b.FetchTotalNanos.Load(), b.FetchCount.Load()),
		CacheHits:     b.CacheHits.Load(),
		CacheMisses:   b.CacheMisses.Load(),
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadAvgNanos:  avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		ClearCount:    b.ClearCount.Load(),
		ClearErrors:   b.ClearErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FetchCount    int64
	FetchErrors   int64
	FetchBytes    int64
	FetchAvgNanos int64
	CacheHits     int64
	CacheMisses   int64
	LoadCount     int64
	LoadErrors    int64
	LoadAvgNanos  int64
	ClearCount    int64
	ClearErrors   int64
}

// HitRatio returns the share of shard lookups served from the cache.
func (s BasicMetricsStats) HitRatio() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}
