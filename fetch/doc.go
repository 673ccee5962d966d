// Package fetch provides the strategies used to obtain raw dictionary shards.
//
// A Strategy turns a resource identifier into the shard's bytes. Two
// implementations are provided:
//
//   - Direct reads the shard from a blobstore.BlobStore on every call.
//   - Cached is cache-aside over a persistent cache.Opener: a hit returns the
//     stored bytes without touching the source; a miss reads through the
//     wrapped Strategy and stores the result.
//
// # Concurrency
//
// Cached de-duplicates concurrent misses on the same identifier: while one
// source read for an identifier is in flight, other callers for that
// identifier wait for and share its result. Every identifier therefore costs
// at most one source read per cache lifetime.
//
// The store handle is opened lazily on first use and reused until Clear or
// Close. Clear waits for in-flight cache operations, closes the handle and
// destroys the store; the next Fetch recreates it empty.
//
// # Errors
//
// Source failures surface as *FetchError and are never retried. Cache store
// failures surface as *CacheError.
package fetch
