// Package scroll turns a stream of vertical scroll offsets into a discrete
// direction signal.
//
// A Tracker is owned by exactly one observing view. It is created when the
// view mounts and dropped when the view unmounts:
//
//	t := scroll.New()
//	dir := t.Update(120) // Down
//	dir = t.Update(80)   // Up
//	dir = t.Update(80)   // Up (equal offsets hold the previous direction)
//
// Trackers do no locking. Updates must be applied one at a time, in the
// order the host delivers them.
package scroll

import "fmt"

// Direction is the discrete scroll direction.
type Direction uint8

const (
	// Down means the offset grew since the previous update.
	Down Direction = iota
	// Up means the offset shrank since the previous update.
	Up
)

// String returns "down" or "up".
func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection parses "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "down":
		return Down, nil
	case "up":
		return Up, nil
	}
	return Down, fmt.Errorf("scroll: unknown direction %q", s)
}

// Tracker holds the last observed offset and the derived direction.
// The zero value is ready to use and equivalent to New().
type Tracker struct {
	lastOffset float64
	direction  Direction
	changed    bool
}

// New returns a tracker with offset 0 and direction Down.
func New() *Tracker {
	return &Tracker{}
}

// Update evaluates offset against the previously stored offset, stores it,
// and returns the resulting direction.
//
// The comparison always happens before the store. Equal offsets leave the
// direction unchanged. Any value is accepted; NaN compares false both ways
// and so never flips the direction.
func (t *Tracker) Update(offset float64) Direction {
	prev := t.direction
	switch {
	case offset > t.lastOffset:
		t.direction = Down
	case offset < t.lastOffset:
		t.direction = Up
	}
	t.lastOffset = offset
	t.changed = t.direction != prev
	return t.direction
}

// Direction returns the direction as of the most recent update.
func (t *Tracker) Direction() Direction {
	return t.direction
}

// LastOffset returns the most recently observed offset.
func (t *Tracker) LastOffset() float64 {
	return t.lastOffset
}

// Changed reports whether the most recent Update flipped the direction.
func (t *Tracker) Changed() bool {
	return t.changed
}

// Reset returns the tracker to its initial state.
func (t *Tracker) Reset() {
	*t = Tracker{}
}
