// Package prometheus exports dictload metrics through the Prometheus client.
//
//	reg := prometheus.NewRegistry()
//	mc := dlprom.NewCollector(dlprom.WithRegisterer(reg))
//	l, _ := dictload.New(dictload.WithMetricsCollector(mc))
package prometheus

import (
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/dictload"
)

var _ dictload.MetricsCollector = (*Collector)(nil)

// Options configures a Collector.
type Options struct {
	// Namespace prefixes every metric name. Defaults to "dictload".
	Namespace string
	// Registerer receives the metrics. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Buckets are the latency histogram buckets in seconds.
	Buckets []float64
}

// WithRegisterer sets the registerer.
func WithRegisterer(r prometheus.Registerer) func(*Options) {
	return func(o *Options) {
		o.Registerer = r
	}
}

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) func(*Options) {
	return func(o *Options) {
		o.Namespace = ns
	}
}

// Collector implements dictload.MetricsCollector.
type Collector struct {
	fetchLatency *prometheus.HistogramVec
	fetchBytes   *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	loadLatency  *prometheus.HistogramVec
	clears       *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics.
// It panics if the metrics are already registered.
func NewCollector(optFns ...func(*Options)) *Collector {
	opts := Options{
		Namespace:  "dictload",
		Registerer: prometheus.DefaultRegisterer,
		Buckets:    prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Collector{
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "shard_fetch_duration_seconds",
			Help:      "Latency of shard reads from the source",
			Buckets:   opts.Buckets,
		}, []string{"shard", "status"}),
		fetchBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "shard_fetch_bytes_total",
			Help:      "Bytes read from the source",
		}, []string{"shard"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "cache_lookups_total",
			Help:      "Shard cache lookups by result",
		}, []string{"shard", "result"}),
		loadLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "load_duration_seconds",
			Help:      "Latency of complete dictionary loads",
			Buckets:   opts.Buckets,
		}, []string{"status"}),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "cache_clears_total",
			Help:      "Cache clears by status",
		}, []string{"status"}),
	}

	opts.Registerer.MustRegister(c.fetchLatency, c.fetchBytes, c.cacheLookups, c.loadLatency, c.clears)
	return c
}

// RecordFetch implements dictload.MetricsCollector.
func (c *Collector) RecordFetch(id string, bytes int, duration time.Duration, err error) {
	shard := shardName(id)
	c.fetchLatency.WithLabelValues(shard, status(err)).Observe(duration.Seconds())
	if err == nil {
		c.fetchBytes.WithLabelValues(shard).Add(float64(bytes))
	}
}

// RecordCacheHit implements dictload.MetricsCollector.
func (c *Collector) RecordCacheHit(id string) {
	c.cacheLookups.WithLabelValues(shardName(id), "hit").Inc()
}

// RecordCacheMiss implements dictload.MetricsCollector.
func (c *Collector) RecordCacheMiss(id string) {
	c.cacheLookups.WithLabelValues(shardName(id), "miss").Inc()
}

// RecordLoad implements dictload.MetricsCollector.
func (c *Collector) RecordLoad(duration time.Duration, err error) {
	c.loadLatency.WithLabelValues(status(err)).Observe(duration.Seconds())
}

// RecordClear implements dictload.MetricsCollector.
func (c *Collector) RecordClear(err error) {
	c.clears.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// shardName keeps label cardinality bounded by the shard table: the
// identifier prefix is dropped.
func shardName(id string) string {
	return strings.TrimSuffix(path.Base(id), ".dat")
}
