// Package fs provides the filesystem abstraction used by the disk cache.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test wrapper that injects write, sync, close and rename
//     failures for matching paths
//
// Operations take no context.Context: local filesystem calls are not
// interruptible at the syscall level.
package fs
