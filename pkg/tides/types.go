package tides

import (
	"fmt"
	"time"
)

// Sample is a single point of the hourly sea level series.
type Sample struct {
	// Local wall-clock time in Layout form, no zone suffix. This is the
	// convention the marine feed uses.
	Timestamp string
	// Sea level height. Units are whatever the upstream fetch is
	// configured for; nothing in this package converts them.
	Height float64
}

// Kind encodes a high or low tide event.
type Kind uint

const (
	HighTide Kind = iota
	LowTide
)

func (k Kind) Valid() bool {
	return k == HighTide || k == LowTide
}

func (k Kind) String() string {
	switch k {
	case HighTide:
		return "high"
	case LowTide:
		return "low"
	default:
		return "invalid"
	}
}

// Event is a detected tide extremum with refined timing. Events are created
// by Extract and immutable afterward.
type Event struct {
	// Absolute instant of the event.
	Time time.Time
	// Refined wall-clock time at the location, in Layout form.
	Local string
	Kind  Kind
	// Interpolated height at the extremum.
	Height float64
}

func (e Event) String() string {
	return fmt.Sprintf("%s tide at %s (%.2f)", e.Kind, e.Local, e.Height)
}
