// Package cache provides the persistent shard cache used by cache-aside fetching.
//
// An Opener owns one durable key/value store. Open creates the schema on first
// use and returns a Store handle; Destroy deletes the entire store, after which
// the next Open recreates it empty. Keys are literal resource identifiers:
// "dict/base.dat" and "./dict/base.dat" are distinct entries.
//
// # Implementations
//
//   - DiskOpener: one file per entry under a root directory, atomic
//     tmp+rename writes, optional LZ4/ZSTD value compression
//   - MemoryOpener: process-local store for tests
//   - sqlite.Opener: single SQLite database file (package cache/sqlite)
//
// Entries never expire and are never evicted. The only removal path is Destroy.
package cache
