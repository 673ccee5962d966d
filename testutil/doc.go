// Package testutil provides testing utilities for dictload.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Shard Data
//
//	rng := testutil.NewRNG(seed)
//	raw := rng.Bytes(4 * 1024) // 1024 int32 values
//
// # Instrumented Sources
//
// CountingStore wraps a blobstore.BlobStore, counts reads per name, and can
// delay, block, or fail individual names to exercise fan-out behavior:
//
//	src := testutil.NewCountingStore(blobstore.NewMemoryStore())
//	src.Fail("dict/cc.dat", blobstore.ErrNotFound)
//	src.Delay("dict/base.dat", 20*time.Millisecond)
//
// # Cache Conformance
//
//	testutil.RunOpenerTests(t, func(t *testing.T) cache.Opener { ... })
package testutil
