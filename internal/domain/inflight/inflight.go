// Package inflight tracks rescore requests that are queued or being
// processed, so duplicate work for the same user is rejected instead of
// enqueued twice.
package inflight

import (
	"context"
	"sync"
)

// Tracker records in-flight IDs for at-most-once enqueueing.
type Tracker interface {
	// SeenAndRecord atomically checks whether id is in flight and records
	// it if not. Returns true if id was already in flight.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord releases an id once its work finished or failed to enqueue.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

const defaultMaxSize = 50_000

// Option applies a configuration option to the in-memory tracker.
type Option func(*memTracker)

// WithMaxSize bounds the tracker; when full, the oldest recorded id is
// evicted so a stuck worker cannot block new rescores forever.
func WithMaxSize(n int) Option {
	return func(t *memTracker) {
		if n > 0 {
			t.maxSize = n
		}
	}
}

// memTracker implements Tracker with a map plus FIFO eviction order.
type memTracker struct {
	mu      sync.Mutex
	ids     map[string]struct{}
	order   []string
	maxSize int
}

// NewTracker creates a bounded in-memory tracker.
func NewTracker(opts ...Option) Tracker {
	t := &memTracker{
		ids:     make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *memTracker) SeenAndRecord(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, seen := t.ids[id]; seen {
		return true
	}
	if len(t.order) >= t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.ids, oldest)
	}
	t.ids[id] = struct{}{}
	t.order = append(t.order, id)
	return false
}

func (t *memTracker) Unrecord(_ context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.ids[id]; !ok {
		return
	}
	delete(t.ids, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *memTracker) Size() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int64(len(t.ids))
}
