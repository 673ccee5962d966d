package dictload

import (
	"github.com/hupe1980/dictload/blobstore"
	"github.com/hupe1980/dictload/cache"
	"github.com/hupe1980/dictload/dictionary"
	"github.com/hupe1980/dictload/fetch"
	"github.com/hupe1980/dictload/resource"
)

type options struct {
	basePath         string
	source           blobstore.BlobStore
	opener           cache.Opener
	strategy         fetch.Strategy
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
	err              error
}

func defaultOptions() options {
	return options{
		basePath:         dictionary.DefaultBasePath,
		source:           blobstore.NewLocalStore("."),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// Option configures a Loader.
type Option func(*options)

// WithBasePath sets the prefix shards are resolved under (default "dict/").
// It may be a relative or absolute path, an object key prefix or a URL,
// depending on the source.
func WithBasePath(base string) Option {
	return func(o *options) {
		o.basePath = base
	}
}

// WithSource sets the store shards are read from.
// The default reads from the current working directory.
func WithSource(src blobstore.BlobStore) Option {
	return func(o *options) {
		if src == nil {
			o.err = ErrNilSource
			return
		}
		o.source = src
	}
}

// WithCache enables the persistent shard cache backed by opener.
func WithCache(opener cache.Opener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

// WithCacheDir enables a cache.DiskOpener rooted at dir.
func WithCacheDir(dir string, compression ...cache.Compression) Option {
	cfg := cache.DiskConfig{RootDir: dir}
	if len(compression) > 0 {
		cfg.Compression = compression[0]
	}
	return WithCache(cache.NewDiskOpener(cfg))
}

// WithoutCache disables the shard cache. Every load reads from the source.
func WithoutCache() Option {
	return func(o *options) {
		o.opener = nil
	}
}

// WithStrategy replaces the fetch strategy entirely. WithSource, WithCache
// and WithResourceController are ignored when a strategy is set, and the
// cache management calls return ErrCacheDisabled unless s is a *fetch.Cached.
func WithStrategy(s fetch.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithMetricsCollector sets a metrics collector for monitoring loads.
//
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger sets a structured logger.
//
// If nil is passed, NoopLogger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithResourceController bounds concurrent source reads and source bandwidth.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}
