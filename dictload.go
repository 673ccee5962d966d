package dictload

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/dictload/dictionary"
	"github.com/hupe1980/dictload/fetch"
)

// Bundle is the decoded dictionary handed to tokenizer builders.
type Bundle = dictionary.Bundle

// ShardStatus describes one shard of the dictionary.
type ShardStatus struct {
	Name       string
	Kind       dictionary.Kind
	Identifier string
	Cached     bool
}

// Loader loads dictionaries and manages their cache.
// It is safe for concurrent use.
type Loader struct {
	opts     options
	logger   *Logger
	strategy fetch.Strategy
	cached   *fetch.Cached
	dict     *dictionary.Loader
	closed   atomic.Bool
}

// New creates a Loader.
//
// Without options it reads shards from "dict/" below the working directory
// and does not cache them.
func New(optFns ...Option) (*Loader, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.err != nil {
		return nil, opts.err
	}

	logger := opts.logger.WithBasePath(opts.basePath)
	fetchOpts := []fetch.Option{
		fetch.WithLogger(logger.Logger),
		fetch.WithObserver(opts.metricsCollector),
	}

	l := &Loader{
		opts:   opts,
		logger: logger,
	}

	switch {
	case opts.strategy != nil:
		l.strategy = opts.strategy
		l.cached, _ = opts.strategy.(*fetch.Cached)
	case opts.opener != nil:
		direct := fetch.NewDirect(opts.source, append(fetchOpts, fetch.WithResourceController(opts.rc))...)
		l.cached = fetch.NewCached(direct, opts.opener, fetchOpts...)
		l.strategy = l.cached
	default:
		l.strategy = fetch.NewDirect(opts.source, append(fetchOpts, fetch.WithResourceController(opts.rc))...)
	}

	l.dict = dictionary.NewLoader(l.strategy,
		dictionary.WithBasePath(opts.basePath),
		dictionary.WithLogger(logger.Logger),
	)
	return l, nil
}

// BasePath returns the prefix shards are resolved under.
func (l *Loader) BasePath() string { return l.dict.BasePath() }

// Cached reports whether the loader uses a persistent cache.
func (l *Loader) Cached() bool { return l.cached != nil }

// Load fetches and decodes the complete dictionary.
// On failure it returns a *LoadError and never a partial Bundle.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}

	start := time.Now()
	b, err := l.dict.Load(ctx)
	duration := time.Since(start)

	l.opts.metricsCollector.RecordLoad(duration, err)
	if err != nil {
		l.logger.LogLoad(ctx, 0, duration, err)
		return nil, err
	}
	l.logger.LogLoad(ctx, b.Size(), duration, nil)
	return b, nil
}

// LoadTokenizer loads the dictionary and passes it to build.
func LoadTokenizer[T any](ctx context.Context, l *Loader, build dictionary.Builder[T]) (T, error) {
	b, err := l.Load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return build(b)
}

// Status reports every shard's identifier and whether it is cached.
// Without a cache no shard is reported as cached.
func (l *Loader) Status(ctx context.Context) ([]ShardStatus, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}

	ds := dictionary.Descriptors()
	out := make([]ShardStatus, len(ds))
	for i, d := range ds {
		out[i] = ShardStatus{Name: d.Name, Kind: d.Kind, Identifier: l.dict.Identifier(d.Name)}
		if l.cached == nil {
			continue
		}
		ok, err := l.cached.IsCached(ctx, out[i].Identifier)
		if err != nil {
			return nil, err
		}
		out[i].Cached = ok
	}
	return out, nil
}

// IsCached reports whether every shard is present in the cache. It never
// fetches. A loader without a cache reports false.
func (l *Loader) IsCached(ctx context.Context) (bool, error) {
	if l.cached == nil {
		return false, nil
	}

	status, err := l.Status(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range status {
		if !s.Cached {
			return false, nil
		}
	}
	return true, nil
}

// ClearCache removes every cached shard. The next load reads from the source
// again. It returns ErrCacheDisabled for a loader without a cache.
func (l *Loader) ClearCache(ctx context.Context) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if l.cached == nil {
		return ErrCacheDisabled
	}

	err := l.cached.Clear(ctx)
	l.opts.metricsCollector.RecordClear(err)
	l.logger.LogClear(ctx, err)
	return err
}

// Close releases the cache handle. It is safe to call Close multiple times.
func (l *Loader) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	if l.cached == nil {
		return nil
	}
	return l.cached.Close()
}
