package refhistory

import (
	"encoding/json"
	"fmt"
)

// CloneFunc produces a deep copy of a value.
type CloneFunc[T any] func(value T) T

// JSONClone deep-copies a value via a JSON serialization round-trip.
//
// This is the default clone used by Track. Values that cannot round-trip
// through encoding/json (functions, channels, cyclic structures) panic; such
// values are outside the supported domain. Note that numeric fields typed
// `any` decode as float64, as usual for encoding/json.
func JSONClone[T any](value T) T {
	data, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("refhistory: value is not cloneable: %v", err))
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("refhistory: value did not survive clone round-trip: %v", err))
	}
	return out
}
