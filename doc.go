// Package dictload loads the binary dictionary of a morphological tokenizer.
//
// A dictionary is split into twelve shards ("base.dat", "check.dat", ...)
// stored under a common prefix on a local filesystem, an HTTP server, S3 or
// any S3-compatible object store. dictload fetches all shards concurrently,
// decodes them into typed arrays and hands the assembled Bundle to a
// tokenizer builder.
//
// # Quick Start
//
// Direct mode reads every shard from its source on each load:
//
//	ctx := context.Background()
//	l, _ := dictload.New(dictload.WithBasePath("dict/"))
//	bundle, _ := l.Load(ctx)
//
// Cached mode keeps a persistent copy of every shard:
//
//	src, _ := blobstore.NewHTTPStore("https://cdn.example.com/kuromoji")
//	l, _ := dictload.New(
//		dictload.WithSource(src),
//		dictload.WithCacheDir("/var/cache/dictload"),
//	)
//	defer l.Close()
//
//	tok, err := dictload.LoadTokenizer(ctx, l, newTokenizer)
//
// The first load reads every shard from the source and stores it. Later loads,
// also across process restarts, are served from the cache until ClearCache is
// called. Concurrent loads that miss on the same shard share a single source
// read.
//
// # Sources and caches
//
// Sources implement blobstore.BlobStore: blobstore.LocalStore,
// blobstore.HTTPStore, the s3 and minio sub-packages, or
// blobstore.MemoryStore for tests. Caches implement cache.Opener:
// cache.DiskOpener, the sqlite sub-package, or cache.MemoryOpener.
//
// # Errors
//
// A failed load returns a *LoadError naming the shard. errors.As reaches the
// underlying *FetchError, *DecodeError or *CacheError. No operation retries.
package dictload
