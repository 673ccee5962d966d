package dictload_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dictload"
	"github.com/hupe1980/dictload/blobstore"
	"github.com/hupe1980/dictload/cache"
	"github.com/hupe1980/dictload/dictionary"
	"github.com/hupe1980/dictload/fetch"
	"github.com/hupe1980/dictload/resource"
	"github.com/hupe1980/dictload/testutil"
)

func newSource(t *testing.T) *testutil.CountingStore {
	t.Helper()

	mem := blobstore.NewMemoryStore()
	require.NoError(t, testutil.Populate(context.Background(), mem, "dict", testutil.Shards()))
	return testutil.NewCountingStore(mem)
}

func TestLoader_Direct(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	mc := &dictload.BasicMetricsCollector{}

	l, err := dictload.New(dictload.WithSource(src), dictload.WithMetricsCollector(mc))
	require.NoError(t, err)
	defer l.Close()

	assert.False(t, l.Cached())
	assert.Equal(t, "dict/", l.BasePath())

	b, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, -1, 1 << 20}, b.Trie.Base)
	assert.Equal(t, []int16{0, -1, 300, -32768}, b.ConnectionCosts)
	assert.Equal(t, []uint32{1, 0xFFFFFFFF}, b.Unknown.CompatibleCategories)

	_, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Opens("dict/base.dat"))

	cached, err := l.IsCached(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.ErrorIs(t, l.ClearCache(ctx), dictload.ErrCacheDisabled)

	stats := mc.GetStats()
	assert.Equal(t, int64(24), stats.FetchCount)
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Zero(t, stats.CacheHits+stats.CacheMisses)
}

func TestLoader_Cached(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	mc := &dictload.BasicMetricsCollector{}

	l, err := dictload.New(
		dictload.WithSource(src),
		dictload.WithCache(cache.NewMemoryOpener()),
		dictload.WithMetricsCollector(mc),
	)
	require.NoError(t, err)
	defer l.Close()
	require.True(t, l.Cached())

	cached, err := l.IsCached(ctx)
	require.NoError(t, err)
	assert.False(t, cached)

	first, err := l.Load(ctx)
	require.NoError(t, err)
	second, err := l.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 12, src.TotalOpens())

	cached, err = l.IsCached(ctx)
	require.NoError(t, err)
	assert.True(t, cached)

	stats := mc.GetStats()
	assert.Equal(t, int64(12), stats.CacheMisses)
	assert.Equal(t, int64(12), stats.CacheHits)
	assert.Equal(t, int64(12), stats.FetchCount)
	assert.InDelta(t, 0.5, stats.HitRatio(), 1e-9)

	require.NoError(t, l.ClearCache(ctx))
	cached, err = l.IsCached(ctx)
	require.NoError(t, err)
	assert.False(t, cached)

	_, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 24, src.TotalOpens())
	assert.Equal(t, int64(1), mc.GetStats().ClearCount)
}

func TestLoader_ClearCacheBusy(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	opener := cache.NewMemoryOpener()

	l, err := dictload.New(dictload.WithSource(src), dictload.WithCache(opener))
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Load(ctx)
	require.NoError(t, err)

	other, err := opener.Open(ctx)
	require.NoError(t, err)

	err = l.ClearCache(ctx)
	var ce *dictload.CacheError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "clear", ce.Op)
	assert.ErrorIs(t, err, dictload.ErrStoreBusy)

	_, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, src.TotalOpens())

	require.NoError(t, other.Close())
	require.NoError(t, l.ClearCache(ctx))
}

func TestLoader_PartiallyCached(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	opener := cache.NewMemoryOpener()

	s, err := opener.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "dict/base.dat", testutil.Int32s(7)))
	require.NoError(t, s.Close())

	l, err := dictload.New(dictload.WithSource(src), dictload.WithCache(opener))
	require.NoError(t, err)
	defer l.Close()

	status, err := l.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 12)
	assert.Equal(t, "base", status[0].Name)
	assert.Equal(t, dictionary.KindInt32, status[0].Kind)
	assert.True(t, status[0].Cached)
	assert.False(t, status[1].Cached)

	cached, err := l.IsCached(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestLoader_DiskCacheSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")

	{
		l, err := dictload.New(dictload.WithSource(newSource(t)), dictload.WithCacheDir(dir, cache.CompressionLZ4))
		require.NoError(t, err)
		_, err = l.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, l.Close())
	}

	// Every source read fails now; the load must come from the cache.
	src := newSource(t)
	for _, name := range dictionary.NewLoader(nil).Identifiers() {
		src.Fail(name, errors.New("offline"))
	}

	l, err := dictload.New(dictload.WithSource(src), dictload.WithCacheDir(dir))
	require.NoError(t, err)
	defer l.Close()

	cached, err := l.IsCached(ctx)
	require.NoError(t, err)
	assert.True(t, cached)

	b, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x41, 0x42, 0x43, 0x44}, b.Unknown.CharDefinitions)
	assert.Zero(t, src.TotalOpens())

	require.NoError(t, l.ClearCache(ctx))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestLoader_MissingShard(t *testing.T) {
	mem := blobstore.NewMemoryStore()
	shards := testutil.Shards()
	delete(shards, "cc")
	require.NoError(t, testutil.Populate(context.Background(), mem, "dict", shards))

	mc := &dictload.BasicMetricsCollector{}
	l, err := dictload.New(dictload.WithSource(mem), dictload.WithMetricsCollector(mc))
	require.NoError(t, err)
	defer l.Close()

	b, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, b)

	var le *dictload.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "cc", le.Shard)

	var fe *dictload.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.ErrorIs(t, err, dictload.ErrNotFound)

	assert.Equal(t, int64(1), mc.GetStats().LoadErrors)
	assert.Equal(t, int64(1), mc.GetStats().FetchErrors)
}

func TestLoader_CacheOpenFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	// The cache root sits below a regular file and can never be created.
	l, err := dictload.New(
		dictload.WithSource(newSource(t)),
		dictload.WithCacheDir(filepath.Join(blocker, "cache")),
	)
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Load(ctx)
	var ce *dictload.CacheError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "open", ce.Op)

	_, err = l.IsCached(ctx)
	require.ErrorAs(t, err, &ce)
}

func TestLoader_WithStrategy(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, testutil.Populate(ctx, mem, "custom", testutil.Shards()))

	t.Run("direct", func(t *testing.T) {
		l, err := dictload.New(
			dictload.WithBasePath("custom"),
			dictload.WithStrategy(fetch.NewDirect(mem)),
		)
		require.NoError(t, err)
		defer l.Close()

		_, err = l.Load(ctx)
		require.NoError(t, err)
		assert.False(t, l.Cached())
		assert.ErrorIs(t, l.ClearCache(ctx), dictload.ErrCacheDisabled)
	})

	t.Run("cached", func(t *testing.T) {
		c := fetch.NewCached(fetch.NewDirect(mem), cache.NewMemoryOpener())
		l, err := dictload.New(dictload.WithBasePath("custom"), dictload.WithStrategy(c))
		require.NoError(t, err)
		defer l.Close()

		_, err = l.Load(ctx)
		require.NoError(t, err)

		cached, err := l.IsCached(ctx)
		require.NoError(t, err)
		assert.True(t, cached)
		assert.NoError(t, l.ClearCache(ctx))
	})
}

func TestLoader_WithoutCache(t *testing.T) {
	l, err := dictload.New(
		dictload.WithSource(newSource(t)),
		dictload.WithCache(cache.NewMemoryOpener()),
		dictload.WithoutCache(),
	)
	require.NoError(t, err)
	defer l.Close()

	assert.False(t, l.Cached())
}

func TestLoader_ResourceController(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxConcurrentReads: 2})
	l, err := dictload.New(dictload.WithSource(newSource(t)), dictload.WithResourceController(rc))
	require.NoError(t, err)
	defer l.Close()

	b, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(b.Size()), rc.IOBytes())
	assert.Zero(t, rc.InFlight())
}

func TestLoader_Closed(t *testing.T) {
	ctx := context.Background()
	l, err := dictload.New(dictload.WithSource(newSource(t)), dictload.WithCache(cache.NewMemoryOpener()))
	require.NoError(t, err)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	_, err = l.Load(ctx)
	assert.ErrorIs(t, err, dictload.ErrClosed)
	_, err = l.Status(ctx)
	assert.ErrorIs(t, err, dictload.ErrClosed)
	assert.ErrorIs(t, l.ClearCache(ctx), dictload.ErrClosed)
}

func TestNew_NilSource(t *testing.T) {
	_, err := dictload.New(dictload.WithSource(nil))
	assert.ErrorIs(t, err, dictload.ErrNilSource)
}

func TestLoadTokenizer(t *testing.T) {
	l, err := dictload.New(dictload.WithSource(newSource(t)))
	require.NoError(t, err)
	defer l.Close()

	type tokenizer struct{ entries int }

	tok, err := dictload.LoadTokenizer(context.Background(), l, func(b *dictload.Bundle) (*tokenizer, error) {
		return &tokenizer{entries: len(b.TokenInfo.Dictionary)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, tok.entries)
}
