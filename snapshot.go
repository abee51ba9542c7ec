package refhistory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSnapshotNotFound is returned when a snapshot ID or name is unknown.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotID uniquely identifies a named snapshot.
type SnapshotID string

// Snapshot is a named checkpoint of the cell value.
// Snapshots are immutable; Value is a deep clone and must be treated as
// read-only.
type Snapshot[T any] struct {
	// ID uniquely identifies this snapshot.
	ID SnapshotID

	// Name is the human-readable name. Creating a snapshot with an
	// existing name replaces the previous one.
	Name string

	// Timestamp when this snapshot was created.
	Timestamp time.Time

	// Value is the cell value at the time of the snapshot.
	Value T
}

// Age returns how long ago this snapshot was created.
func (s *Snapshot[T]) Age() time.Duration {
	return time.Since(s.Timestamp)
}

// snapshotStore manages named snapshots. All operations are thread-safe.
type snapshotStore[T any] struct {
	mu     sync.RWMutex
	byID   map[SnapshotID]*Snapshot[T]
	byName map[string]*Snapshot[T]
}

func newSnapshotStore[T any]() *snapshotStore[T] {
	return &snapshotStore[T]{
		byID:   make(map[SnapshotID]*Snapshot[T]),
		byName: make(map[string]*Snapshot[T]),
	}
}

func (ss *snapshotStore[T]) create(name string, value T) SnapshotID {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if existing, ok := ss.byName[name]; ok {
		delete(ss.byID, existing.ID)
	}

	snap := &Snapshot[T]{
		ID:        SnapshotID(uuid.New().String()),
		Name:      name,
		Timestamp: time.Now(),
		Value:     value,
	}

	ss.byID[snap.ID] = snap
	if name != "" {
		ss.byName[name] = snap
	}

	return snap.ID
}

func (ss *snapshotStore[T]) get(id SnapshotID) (*Snapshot[T], bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	snap, ok := ss.byID[id]
	return snap, ok
}

func (ss *snapshotStore[T]) getByName(name string) (*Snapshot[T], bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	snap, ok := ss.byName[name]
	return snap, ok
}

func (ss *snapshotStore[T]) delete(id SnapshotID) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if snap, ok := ss.byID[id]; ok {
		if snap.Name != "" {
			delete(ss.byName, snap.Name)
		}
		delete(ss.byID, id)
	}
}

func (ss *snapshotStore[T]) list() []*Snapshot[T] {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	snapshots := make([]*Snapshot[T], 0, len(ss.byID))
	for _, snap := range ss.byID {
		snapshots = append(snapshots, snap)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
	})

	return snapshots
}

func (ss *snapshotStore[T]) count() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.byID)
}

// CreateSnapshot stores a named snapshot of the cell's current value.
// An existing snapshot with the same name is replaced.
func (t *Tracker[T]) CreateSnapshot(name string) SnapshotID {
	value := t.clone(t.source.Get())
	return t.snapshots.create(name, value)
}

// GetSnapshot retrieves a snapshot by ID.
func (t *Tracker[T]) GetSnapshot(id SnapshotID) (*Snapshot[T], error) {
	snap, ok := t.snapshots.get(id)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// GetSnapshotByName retrieves a snapshot by name.
func (t *Tracker[T]) GetSnapshotByName(name string) (*Snapshot[T], error) {
	snap, ok := t.snapshots.getByName(name)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// RestoreSnapshot writes a snapshot's value back into the cell.
//
// The restore goes through the normal mutation path: it pushes one history
// record and clears the future list, exactly like an external write.
func (t *Tracker[T]) RestoreSnapshot(id SnapshotID) error {
	snap, ok := t.snapshots.get(id)
	if !ok {
		return ErrSnapshotNotFound
	}

	t.source.Set(t.clone(snap.Value))
	return nil
}

// RestoreSnapshotByName writes a snapshot's value back into the cell by name.
func (t *Tracker[T]) RestoreSnapshotByName(name string) error {
	snap, ok := t.snapshots.getByName(name)
	if !ok {
		return ErrSnapshotNotFound
	}

	t.source.Set(t.clone(snap.Value))
	return nil
}

// DeleteSnapshot removes a snapshot by ID. Unknown IDs are ignored.
func (t *Tracker[T]) DeleteSnapshot(id SnapshotID) {
	t.snapshots.delete(id)
}

// Snapshots returns all snapshots, oldest first.
func (t *Tracker[T]) Snapshots() []*Snapshot[T] {
	return t.snapshots.list()
}

// SnapshotCount returns the number of stored snapshots.
func (t *Tracker[T]) SnapshotCount() int {
	return t.snapshots.count()
}
