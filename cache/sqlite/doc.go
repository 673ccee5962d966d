// Package sqlite provides a cache.Opener backed by a single SQLite database.
//
// The schema is one table keyed by resource identifier:
//
//	CREATE TABLE shards (id TEXT PRIMARY KEY, data BLOB NOT NULL)
//
// Each Get and Put runs in its own transaction. Destroy removes the database
// file together with its WAL and shared-memory side files.
//
// The pure-Go modernc.org/sqlite driver is used, so no cgo toolchain is needed.
package sqlite
