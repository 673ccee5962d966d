// Package blobstore provides the source abstraction dictionary shards are read from.
//
// BlobStore is the interface for opening immutable blobs by name.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-memory store for tests
//   - HTTPStore: Plain HTTP(S) GET, one request per shard
//   - s3.Store: Amazon S3 with range reads and whole-object downloads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Reading Whole Blobs
//
// Shards are always consumed in full. ReadAll and Fetch return a private copy
// of the blob contents; Fetch prefers the optional Downloader interface when a
// store implements it:
//
//	data, err := blobstore.Fetch(ctx, store, "dict/base.dat")
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	}
package blobstore
