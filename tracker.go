package refhistory

import (
	"slices"
	"sync"
	"time"
)

// Option configures a Tracker.
type Option[T any] func(*Tracker[T])

// WithCapacity bounds history to a constant number of records.
func WithCapacity[T any](n int) Option[T] {
	return func(t *Tracker[T]) {
		t.capacity = FixedCapacity(n)
	}
}

// WithCapacityRef bounds history by an observable cell.
// History is truncated eagerly whenever the cell's value shrinks below the
// current history length.
func WithCapacityRef[T any](ref *Ref[int]) Option[T] {
	return func(t *Tracker[T]) {
		t.capacity = CapacityFromRef(ref)
	}
}

// WithCapacityFunc bounds history by an accessor, re-resolved on every
// history update.
func WithCapacityFunc[T any](fn func() int) Option[T] {
	return func(t *Tracker[T]) {
		t.capacity = CapacityFromFunc(fn)
	}
}

// WithClone replaces the default JSON round-trip clone.
// Use this for value types that do not survive encoding/json.
func WithClone[T any](fn CloneFunc[T]) Option[T] {
	return func(t *Tracker[T]) {
		t.clone = fn
	}
}

// Tracker records the change history of a single Ref and provides undo/redo.
//
// History and future are mirrored stacks of records, newest-first. Every
// external write to the cell pushes the displaced value onto history and
// clears future; Undo moves the top of history back into the cell and parks
// the displaced value on future, Redo does the reverse. Writes performed by
// Undo and Redo themselves are suppressed from recording.
//
// All operations are thread-safe, but the tracker assumes writes to the cell
// form a single logical sequence; concurrent writers get a coherent but
// unspecified interleaving.
type Tracker[T any] struct {
	mu sync.Mutex

	source   *Ref[T]
	clone    CloneFunc[T]
	capacity Capacity

	history []Record[T]
	future  []Record[T]

	// Suppression flags. A write observed while either is set is ignored
	// by the recording watcher.
	undoing bool
	redoing bool

	// When the cell's current value became current. Stamped onto the next
	// history record that displaces it.
	lastChanged time.Time

	snapshots *snapshotStore[T]

	sub    *Subscription[T]
	capSub *Subscription[int]
	closed bool
}

// Track attaches a new Tracker to a cell.
// The tracker starts with empty history and future lists; the cell's current
// value is treated as having just become current.
func Track[T any](source *Ref[T], opts ...Option[T]) *Tracker[T] {
	t := &Tracker[T]{
		source:      source,
		clone:       JSONClone[T],
		capacity:    Unbounded,
		lastChanged: time.Now(),
		snapshots:   newSnapshotStore[T](),
	}

	for _, opt := range opts {
		opt(t)
	}

	t.sub = source.Watch(t.onChange)

	if t.capacity.ref != nil {
		t.capSub = t.capacity.ref.Watch(func(change Change[int]) {
			t.truncate(change.New)
		})
	}

	return t
}

// onChange records an external write to the cell.
func (t *Tracker[T]) onChange(change Change[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.undoing || t.redoing {
		return
	}

	// Any forward write invalidates the redo path, even when capacity
	// prevents the write from being recorded.
	t.future = nil

	limit, bounded := t.capacity.Resolve()
	if bounded && limit == 0 {
		return
	}

	rec := Record[T]{
		Value:     t.clone(change.Old),
		Timestamp: t.lastChanged,
	}
	t.history = slices.Insert(t.history, 0, rec)

	if bounded && len(t.history) > limit {
		t.history = t.history[:limit]
	}

	t.lastChanged = time.Now()
}

// Undo reverts the cell to the most recent history record.
// A no-op when history is empty.
//
// The tracker's lock is released across the cell write so the recording
// watcher can observe (and ignore) the write without deadlocking.
func (t *Tracker[T]) Undo() {
	restored, ok := t.prepareUndo()
	if !ok {
		return
	}

	t.source.Set(restored)

	t.settle(&t.undoing)
}

// prepareUndo pops the history head, parks the displaced value on future, and
// raises the undoing flag. Clones run before any state mutation, so a clone
// panic unwinds with the tracker unchanged and the lock released.
func (t *Tracker[T]) prepareUndo() (restored T, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || len(t.history) == 0 {
		return restored, false
	}

	rec := t.history[0]
	displaced := t.clone(t.source.Get())
	restored = t.clone(rec.Value)

	t.history = t.history[1:]
	t.future = slices.Insert(t.future, 0, Record[T]{
		Value:     displaced,
		Timestamp: time.Now(),
	})
	t.undoing = true

	return restored, true
}

// Redo re-applies the most recent future record.
// A no-op when future is empty.
func (t *Tracker[T]) Redo() {
	restored, ok := t.prepareRedo()
	if !ok {
		return
	}

	t.source.Set(restored)

	t.settle(&t.redoing)
}

// prepareRedo mirrors prepareUndo for the future stack.
func (t *Tracker[T]) prepareRedo() (restored T, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || len(t.future) == 0 {
		return restored, false
	}

	rec := t.future[0]
	displaced := t.clone(t.source.Get())
	restored = t.clone(rec.Value)

	t.future = t.future[1:]
	t.history = slices.Insert(t.history, 0, Record[T]{
		Value:     displaced,
		Timestamp: time.Now(),
	})
	t.redoing = true

	return restored, true
}

// settle clears a suppression flag after the cell write's watcher fan-out has
// returned, and stamps the restored value as current.
func (t *Tracker[T]) settle(flag *bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	*flag = false
	t.lastChanged = time.Now()
}

// truncate drops the oldest records so history fits the given bound.
func (t *Tracker[T]) truncate(limit int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if len(t.history) > limit {
		t.history = t.history[:limit]
	}
}

// History returns the history records, newest-first: History()[0] holds the
// value the cell had immediately before its current one. The returned slice
// is a copy; record values must be treated as read-only.
func (t *Tracker[T]) History() []Record[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.history)
}

// CanUndo returns true if at least one history record exists.
func (t *Tracker[T]) CanUndo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history) > 0
}

// CanRedo returns true if at least one future record exists.
func (t *Tracker[T]) CanRedo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.future) > 0
}

// UndoCount returns the number of history records.
func (t *Tracker[T]) UndoCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history)
}

// RedoCount returns the number of future records.
func (t *Tracker[T]) RedoCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.future)
}

// PeekUndo returns the record Undo would restore, without removing it.
func (t *Tracker[T]) PeekUndo() (Record[T], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.history) == 0 {
		return Record[T]{}, false
	}
	return t.history[0], true
}

// PeekRedo returns the record Redo would restore, without removing it.
func (t *Tracker[T]) PeekRedo() (Record[T], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.future) == 0 {
		return Record[T]{}, false
	}
	return t.future[0], true
}

// Clear drops all history and future records.
// The cell itself is untouched.
func (t *Tracker[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = nil
	t.future = nil
}

// Close detaches the tracker from the cell and its capacity ref.
// Further writes to the cell are not recorded. Safe to call multiple times.
func (t *Tracker[T]) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	t.sub.Unsubscribe()
	if t.capSub != nil {
		t.capSub.Unsubscribe()
	}
}
