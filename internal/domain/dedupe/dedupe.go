// Package dedupe tracks already-seen chart submission ids so retried
// submissions are acknowledged instead of derived twice.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen request ids for at-most-once derivation.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing a retry. Used when a submission was
	// recorded but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int64
}

// defaultMaxSize bounds the cache when no option overrides it.
const defaultMaxSize = 100_000

// inMemoryDeduper implements Deduper with a map plus a FIFO ring of ids.
// When the ring is full the oldest id is forgotten; a forgotten id
// submitted again derives again, which is acceptable for an advisory
// idempotency layer.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
}

// Option applies a configuration option to the deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of ids kept in memory.
func WithMaxSize(size int) Option {
	return func(d *inMemoryDeduper) {
		if size > 0 {
			d.maxSize = size
		}
	}
}

// NewInMemoryDeduper creates a bounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.maxSize)
	d.ring = make([]string, d.maxSize)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if evicted := d.ring[d.next]; evicted != "" {
		delete(d.seen, evicted)
	}
	d.ring[d.next] = id
	d.next = (d.next + 1) % d.maxSize
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
