package store

import "sync"

// Collection is a mutex-guarded, capacity-bounded FIFO collection. Appends
// past capacity evict the oldest entries, never the newest.
type Collection[T any] struct {
	mu       sync.Mutex
	capacity int
	items    []T
}

func NewCollection[T any](capacity int) *Collection[T] {
	return &Collection[T]{capacity: capacity}
}

// Append adds item, trims oldest entries beyond capacity, and — still under
// the lock — hands the resulting snapshot to commit when one is given.
// Append, trim and commit are one atomic unit from the perspective of other
// callers.
func (c *Collection[T]) Append(item T, commit func(snapshot []T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, item)
	if len(c.items) > c.capacity {
		c.items = append([]T(nil), c.items[len(c.items)-c.capacity:]...)
	}

	if commit != nil {
		return commit(c.snapshotLocked())
	}
	return nil
}

// Snapshot returns a consistent copy of the collection.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Replace swaps in items, keeping only the newest entries when they exceed
// capacity. Used when loading a persisted mirror.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(items) > c.capacity {
		items = items[len(items)-c.capacity:]
	}
	c.items = append([]T(nil), items...)
}

func (c *Collection[T]) snapshotLocked() []T {
	return append([]T(nil), c.items...)
}
