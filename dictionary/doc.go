// Package dictionary assembles the binary dictionary shards of a
// morphological tokenizer into a Bundle.
//
// A dictionary consists of twelve shards, each stored as "<name>.dat" under a
// base prefix. Every shard is a packed little-endian array whose element type
// is fixed by its name:
//
//	base, check                       int32   trie
//	tid, tid_pos, tid_map             uint8   token info
//	cc                                int16   connection costs
//	unk, unk_pos, unk_map, unk_char   uint8   unknown words
//	unk_compat                        uint32  unknown words
//	unk_invoke                        uint8   unknown words
//
// Loader fetches all shards concurrently through a fetch.Strategy, decodes
// each one and routes it into its Bundle slot by name. A Bundle is returned
// only when every shard succeeded.
package dictionary
