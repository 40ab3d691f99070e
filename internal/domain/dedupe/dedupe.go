// Package dedupe tracks import IDs for at-most-once processing of uploads.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Deduper records seen import IDs so a retried upload is acknowledged as a
// duplicate instead of being re-queued.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing a retry. Used when
	// an upload was marked seen but could not be enqueued (backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO ring of IDs in
// insertion order. When the cap is reached the oldest recorded ID is
// evicted; a very old re-import may then be recomputed, which is safe
// because recomputation is idempotent by contract.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order
	oldest  int      // index of the oldest live entry in order
	maxSize int      // <= 0 means unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
		seen:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}

	d.seen[id] = struct{}{}
	if d.maxSize > 0 {
		d.order = append(d.order, id)
	}
	d.size.Store(int64(len(d.seen)))
	return false
}

// Unrecord removes an ID from the seen list, allowing it to be retried.
// The order entry stays behind as a tombstone; evictOldest skips IDs no
// longer in the map.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.seen, id)
	d.size.Store(int64(len(d.seen)))
}

// Size returns the current number of recorded IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// evictOldest drops the oldest live ID, skipping tombstones left by
// Unrecord. Caller holds the lock.
func (d *inMemoryDeduper) evictOldest() {
	for d.oldest < len(d.order) {
		id := d.order[d.oldest]
		d.oldest++
		if _, ok := d.seen[id]; ok {
			delete(d.seen, id)
			break
		}
	}
	// Compact once the dead prefix dominates.
	if d.oldest > len(d.order)/2 {
		d.order = append([]string(nil), d.order[d.oldest:]...)
		d.oldest = 0
	}
}
