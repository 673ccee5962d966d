package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/dictload/fetch"
)

// DefaultBasePath is the prefix shards are resolved under when none is set.
const DefaultBasePath = "dict/"

// LoadError reports the shard that failed a load.
type LoadError struct {
	Shard      string
	Identifier string
	Err        error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load shard %s (%s): %v", e.Shard, e.Identifier, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Option configures a Loader.
type Option func(*Loader)

// WithBasePath sets the prefix shard names are resolved under. It may be a
// filesystem path, an object key prefix or an absolute URL.
func WithBasePath(base string) Option {
	return func(l *Loader) {
		l.base = base
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader fetches and decodes a complete dictionary.
type Loader struct {
	strategy fetch.Strategy
	base     string
	logger   *slog.Logger
}

// NewLoader creates a Loader that fetches shards through strategy.
func NewLoader(strategy fetch.Strategy, opts ...Option) *Loader {
	l := &Loader{
		strategy: strategy,
		base:     DefaultBasePath,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BasePath returns the configured prefix.
func (l *Loader) BasePath() string { return l.base }

// Identifier returns the resource identifier of the shard name.
func (l *Loader) Identifier(name string) string {
	file := name + Extension

	if strings.Contains(l.base, "://") {
		if u, err := url.Parse(l.base); err == nil && u.Scheme != "" {
			u.Path = path.Join("/", u.Path, file)
			u.RawPath = ""
			return u.String()
		}
	}
	return path.Join(l.base, file)
}

// Identifiers returns the identifiers of all shards in load order.
func (l *Loader) Identifiers() []string {
	ids := make([]string, len(descriptors))
	for i, d := range descriptors {
		ids[i] = l.Identifier(d.Name)
	}
	return ids
}

// Load fetches every shard concurrently and decodes it into a Bundle.
//
// All fetches are started at once and Load waits for every one of them.
// The first failure is returned as a *LoadError; the remaining fetches are
// not cancelled but their results are discarded. No partial Bundle is ever
// returned.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	start := time.Now()
	slots := make([]any, len(descriptors))

	var g errgroup.Group
	for i, d := range descriptors {
		g.Go(func() error {
			id := l.Identifier(d.Name)

			raw, err := l.strategy.Fetch(ctx, id)
			if err != nil {
				return &LoadError{Shard: d.Name, Identifier: id, Err: err}
			}

			v, err := Decode(d.Kind, raw)
			if err != nil {
				return &LoadError{Shard: d.Name, Identifier: id, Err: err}
			}

			slots[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.logger.DebugContext(ctx, "shard fan-out failed", "base", l.base, "error", err)
		return nil, err
	}

	b := &Bundle{}
	for i, d := range descriptors {
		b.set(d.Name, slots[i])
	}

	l.logger.DebugContext(ctx, "shards assembled",
		"base", l.base,
		"shards", len(descriptors),
		"bytes", b.Size(),
		"duration", time.Since(start),
	)
	return b, nil
}

// Builder constructs a tokenizer from a loaded Bundle.
type Builder[T any] func(*Bundle) (T, error)

// LoadTokenizer loads the dictionary and hands it to build.
func LoadTokenizer[T any](ctx context.Context, l *Loader, build Builder[T]) (T, error) {
	b, err := l.Load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return build(b)
}
