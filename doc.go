// Package refhistory tracks the change history of a single observable value
// and provides undo/redo over it.
//
// # Refs
//
// A Ref is an observable cell holding one value. Watchers registered with
// Watch are invoked synchronously on every Set with the old and new value:
//
//	cell := refhistory.NewRef(0)
//	sub := cell.Watch(func(c refhistory.Change[int]) {
//	    fmt.Println(c.Old, "->", c.New)
//	})
//	defer sub.Unsubscribe()
//
// # Tracking
//
// Track attaches a Tracker to a Ref. Each external write to the cell pushes a
// record of the previous value onto the history list and clears the future
// list. Undo and Redo move records between the two lists and rewrite the cell;
// writes caused by Undo and Redo are not recorded.
//
//	tracker := refhistory.Track(cell, refhistory.WithCapacity[int](100))
//	cell.Set(1)
//	cell.Set(2)
//	tracker.Undo() // cell is 1 again
//	tracker.Redo() // cell is 2 again
//
// History is exposed newest-first: History()[0] is the value the cell held
// immediately before its current one.
//
// # Capacity
//
// The history bound may be a constant, a Ref, or a plain accessor function,
// and is re-resolved dynamically. Shrinking the bound below the current
// history length drops the oldest records.
//
// # Cloning
//
// Values entering or leaving history records are deep-cloned so that records
// never alias the live cell value. The default clone is a JSON round-trip;
// values that do not survive encoding/json (functions, channels, cycles) are
// unsupported. Use WithClone to supply a custom clone for such types.
//
// # Snapshots
//
// A Tracker can also hold named snapshots of the cell value, created with
// CreateSnapshot and restored by ID or name. Restoring writes through the
// normal mutation path, so it records history like any other write.
package refhistory
