// Package conv provides bounds-checked integer conversions for values read
// from or written to cache entries.
package conv
