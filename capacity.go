package refhistory

// Capacity bounds the number of history records a Tracker retains.
//
// A Capacity is either unbounded, a fixed count, or a dynamic count backed by
// a Ref or an accessor function. Dynamic capacities are re-resolved every time
// the bound is needed.
type Capacity struct {
	bounded bool
	fixed   int
	ref     *Ref[int]
	fn      func() int
}

// Unbounded retains all history. This is the default for Track.
var Unbounded = Capacity{}

// FixedCapacity returns a constant bound.
func FixedCapacity(n int) Capacity {
	return Capacity{bounded: true, fixed: n}
}

// CapacityFromRef returns a bound backed by an observable cell.
// The Tracker watches the cell and truncates history eagerly when the bound
// shrinks below the current history length.
func CapacityFromRef(ref *Ref[int]) Capacity {
	return Capacity{bounded: true, ref: ref}
}

// CapacityFromFunc returns a bound backed by an accessor.
// The accessor is called each time the bound is needed; it cannot be watched,
// so shrinking takes effect at the next history update.
func CapacityFromFunc(fn func() int) Capacity {
	return Capacity{bounded: true, fn: fn}
}

// Resolve returns the current bound and whether the capacity is bounded at
// all. A negative resolved bound is treated as zero.
func (c Capacity) Resolve() (limit int, bounded bool) {
	if !c.bounded {
		return 0, false
	}

	switch {
	case c.ref != nil:
		limit = c.ref.Get()
	case c.fn != nil:
		limit = c.fn()
	default:
		limit = c.fixed
	}

	if limit < 0 {
		limit = 0
	}
	return limit, true
}
