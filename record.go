package refhistory

import (
	"time"
)

// Record is an immutable snapshot of a past cell value.
//
// Value is a deep clone taken when the record was created; it never aliases
// the live cell value. Timestamp marks when the recorded value became the
// cell's current value, not when it was displaced.
type Record[T any] struct {
	Value     T         `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Age returns how long ago the recorded value became current.
func (r Record[T]) Age() time.Duration {
	return time.Since(r.Timestamp)
}
