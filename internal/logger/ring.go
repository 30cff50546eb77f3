package logger

import "sync"

// ring holds the most recent log entries for the UI's log pane. Once the
// window is full, each push drops the oldest entry; writers never block and
// never allocate beyond the fixed window.
type ring[T any] struct {
	mu    sync.RWMutex
	limit int
	items []T
	start int // index of the oldest entry once the window is full
}

func newRing[T any](limit int) *ring[T] {
	return &ring[T]{
		limit: limit,
		items: make([]T, 0, limit),
	}
}

func (r *ring[T]) push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) < r.limit {
		r.items = append(r.items, item)
		return
	}
	r.items[r.start] = item
	r.start = (r.start + 1) % r.limit
}

// snapshot copies out the retained entries, oldest first.
func (r *ring[T]) snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.items))
	out = append(out, r.items[r.start:]...)
	out = append(out, r.items[:r.start]...)
	return out
}
