package fetch

import (
	"log/slog"
	"time"

	"github.com/hupe1980/dictload/resource"
)

// Observer receives fetch and cache events. Implementations must be safe for
// concurrent use.
type Observer interface {
	// RecordFetch is called after each source read.
	RecordFetch(id string, bytes int, duration time.Duration, err error)
	// RecordCacheHit is called when a shard is served from the cache.
	RecordCacheHit(id string)
	// RecordCacheMiss is called when a shard has to be read from the source.
	RecordCacheMiss(id string)
}

type noopObserver struct{}

func (noopObserver) RecordFetch(string, int, time.Duration, error) {}
func (noopObserver) RecordCacheHit(string)                         {}
func (noopObserver) RecordCacheMiss(string)                        {}

type options struct {
	logger   *slog.Logger
	observer Observer
	rc       *resource.Controller
}

func defaultOptions() options {
	return options{
		logger:   slog.New(slog.DiscardHandler),
		observer: noopObserver{},
	}
}

// Option configures Direct and Cached.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver sets the event observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithResourceController bounds source reads. Only Direct uses it.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}
