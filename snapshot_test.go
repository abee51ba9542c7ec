package refhistory

import (
	"errors"
	"testing"
)

func TestTracker_CreateAndGetSnapshot(t *testing.T) {
	cell := NewRef("hello")
	tr := Track(cell)
	defer tr.Close()

	id := tr.CreateSnapshot("start")

	snap, err := tr.GetSnapshot(id)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap.Value != "hello" {
		t.Errorf("snapshot value = %q, want %q", snap.Value, "hello")
	}
	if snap.Name != "start" {
		t.Errorf("snapshot name = %q, want %q", snap.Name, "start")
	}
	if snap.Timestamp.IsZero() {
		t.Error("snapshot timestamp not set")
	}

	byName, err := tr.GetSnapshotByName("start")
	if err != nil {
		t.Fatalf("GetSnapshotByName failed: %v", err)
	}
	if byName.ID != id {
		t.Errorf("GetSnapshotByName ID = %q, want %q", byName.ID, id)
	}
}

func TestTracker_SnapshotNotFound(t *testing.T) {
	cell := NewRef(0)
	tr := Track(cell)
	defer tr.Close()

	if _, err := tr.GetSnapshot("nope"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("GetSnapshot error = %v, want ErrSnapshotNotFound", err)
	}
	if err := tr.RestoreSnapshotByName("nope"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("RestoreSnapshotByName error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestTracker_RestoreSnapshot(t *testing.T) {
	cell := NewRef("v1")
	tr := Track(cell)
	defer tr.Close()

	tr.CreateSnapshot("checkpoint")
	cell.Set("v2")
	cell.Set("v3")

	if err := tr.RestoreSnapshotByName("checkpoint"); err != nil {
		t.Fatalf("RestoreSnapshotByName failed: %v", err)
	}

	if got := cell.Get(); got != "v1" {
		t.Errorf("cell = %q after restore, want %q", got, "v1")
	}

	// A restore is a normal forward mutation: it records history.
	rec, ok := tr.PeekUndo()
	if !ok {
		t.Fatal("restore did not record history")
	}
	if rec.Value != "v3" {
		t.Errorf("history[0] = %q after restore, want %q", rec.Value, "v3")
	}

	tr.Undo()
	if got := cell.Get(); got != "v3" {
		t.Errorf("cell = %q after undoing restore, want %q", got, "v3")
	}
}

func TestTracker_RestoreClearsFuture(t *testing.T) {
	cell := NewRef("a")
	tr := Track(cell)
	defer tr.Close()

	id := tr.CreateSnapshot("mark")
	cell.Set("b")
	tr.Undo()

	if !tr.CanRedo() {
		t.Fatal("should be able to redo before restore")
	}

	if err := tr.RestoreSnapshot(id); err != nil {
		t.Fatalf("RestoreSnapshot failed: %v", err)
	}

	if tr.CanRedo() {
		t.Error("future should be cleared by a restore")
	}
}

func TestTracker_SnapshotIsDeepCopy(t *testing.T) {
	value := []string{"a"}
	cell := NewRef(value)
	tr := Track(cell)
	defer tr.Close()

	id := tr.CreateSnapshot("deep")

	// Mutate the live value in place.
	value[0] = "mutated"

	snap, err := tr.GetSnapshot(id)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap.Value[0] != "a" {
		t.Errorf("snapshot value = %v, want [a]", snap.Value)
	}
}

func TestTracker_SnapshotReplacedByName(t *testing.T) {
	cell := NewRef(1)
	tr := Track(cell)
	defer tr.Close()

	first := tr.CreateSnapshot("only")
	cell.Set(2)
	second := tr.CreateSnapshot("only")

	if tr.SnapshotCount() != 1 {
		t.Errorf("SnapshotCount() = %d, want 1", tr.SnapshotCount())
	}
	if _, err := tr.GetSnapshot(first); !errors.Is(err, ErrSnapshotNotFound) {
		t.Error("replaced snapshot should be gone")
	}

	snap, err := tr.GetSnapshot(second)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap.Value != 2 {
		t.Errorf("snapshot value = %d, want 2", snap.Value)
	}
}

func TestTracker_DeleteSnapshot(t *testing.T) {
	cell := NewRef(0)
	tr := Track(cell)
	defer tr.Close()

	id := tr.CreateSnapshot("gone")
	tr.DeleteSnapshot(id)

	if tr.SnapshotCount() != 0 {
		t.Errorf("SnapshotCount() = %d, want 0", tr.SnapshotCount())
	}
	if _, err := tr.GetSnapshotByName("gone"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Error("deleted snapshot still resolvable by name")
	}

	// Deleting an unknown ID is harmless.
	tr.DeleteSnapshot("unknown")
}

func TestTracker_Snapshots(t *testing.T) {
	cell := NewRef(0)
	tr := Track(cell)
	defer tr.Close()

	tr.CreateSnapshot("one")
	tr.CreateSnapshot("two")

	snaps := tr.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}

	names := map[string]bool{}
	for _, s := range snaps {
		names[s.Name] = true
	}
	if !names["one"] || !names["two"] {
		t.Errorf("snapshot names = %v, want one and two", names)
	}
}
