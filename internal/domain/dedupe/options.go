// Package dedupe tracks import IDs for at-most-once processing of uploads.
package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of IDs to keep in memory.
// maxSize > 0 bounds the cache with oldest-first eviction; maxSize <= 0
// keeps every ID for the life of the process.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
