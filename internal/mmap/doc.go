// Package mmap provides read-only memory-mapped file access for local shards.
//
// Shards are consumed once, front to back, so mappings are advised as
// sequential. On platforms without mmap support the file is read into memory
// and exposed through the same Mapping type.
//
//	m, err := mmap.Open("dict/base.dat")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // valid until Close
package mmap
