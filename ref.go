package refhistory

import (
	"sync"
)

// Change describes a single write to a Ref.
type Change[T any] struct {
	// Old is the value the cell held before the write.
	Old T

	// New is the value the cell holds after the write.
	New T
}

// Watcher is called when a Ref is written.
type Watcher[T any] func(change Change[T])

// Subscription represents an active watcher registration.
type Subscription[T any] struct {
	id  uint64
	ref *Ref[T]
}

// Unsubscribe removes this subscription.
// Safe to call multiple times.
func (s *Subscription[T]) Unsubscribe() {
	if s.ref != nil {
		s.ref.unwatch(s.id)
	}
}

// Ref is a single mutable observable cell.
//
// Watchers are notified synchronously on every Set, in no particular order,
// outside the cell's lock. A Set of a value equal to the current one still
// notifies; the cell does not compare values.
type Ref[T any] struct {
	mu       sync.RWMutex
	value    T
	watchers map[uint64]Watcher[T]
	nextID   uint64
}

// NewRef creates a cell holding an initial value.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{
		value:    initial,
		watchers: make(map[uint64]Watcher[T]),
	}
}

// Get returns the current value.
func (r *Ref[T]) Get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set writes a new value and notifies all watchers before returning.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	old := r.value
	r.value = value

	// Collect watchers under the lock, call them outside it.
	watchers := make([]Watcher[T], 0, len(r.watchers))
	for _, w := range r.watchers {
		watchers = append(watchers, w)
	}
	r.mu.Unlock()

	change := Change[T]{Old: old, New: value}
	for _, w := range watchers {
		w(change)
	}
}

// Watch registers a watcher for writes to this cell.
func (r *Ref[T]) Watch(watcher Watcher[T]) *Subscription[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.watchers[id] = watcher

	return &Subscription[T]{id: id, ref: r}
}

// unwatch removes a watcher by ID.
func (r *Ref[T]) unwatch(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watchers, id)
}
