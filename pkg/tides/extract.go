package tides

import (
	"fmt"
	"math"
	"time"
)

// Below this the fitted parabola is treated as flat and no time refinement
// is applied.
const flatEps = 1e-10

// InvalidInputError reports a sample the extractor cannot work with. Time
// arithmetic downstream is undefined on such input, so extraction fails fast
// instead of guessing.
type InvalidInputError struct {
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid sample at index %d: %s", e.Index, e.Reason)
}

// Extract scans an hourly sea level series and returns one Event per local
// extremum found, in series order. The series must be ordered, contiguous and
// hourly; fewer than 3 samples yields an empty result, not an error.
//
// Extrema are only detected at interior samples, where both neighbors exist.
// The reported time is refined by fitting a parabola through the three
// heights around the extremum, since hourly sampling under-resolves the true
// peak or trough by up to an hour either way.
func Extract(samples []Sample, utcOffsetSeconds int) ([]Event, error) {
	events := []Event{}
	if len(samples) < 3 {
		return events, nil
	}

	locals := make([]time.Time, len(samples))
	for i, s := range samples {
		t, err := ParseLocal(s.Timestamp)
		if err != nil {
			return nil, &InvalidInputError{Index: i, Reason: fmt.Sprintf("timestamp %q not in %q form", s.Timestamp, Layout)}
		}
		if math.IsNaN(s.Height) || math.IsInf(s.Height, 0) {
			return nil, &InvalidInputError{Index: i, Reason: fmt.Sprintf("non-finite height %v", s.Height)}
		}
		locals[i] = t
	}

	for i := 1; i+1 < len(samples); i++ {
		y1, y2, y3 := samples[i-1].Height, samples[i].Height, samples[i+1].Height

		// The asymmetric >/>= rule resolves flat plateaus toward their
		// earlier side without flagging the same plateau twice. A run of
		// strictly equal heights produces no event at all.
		var kind Kind
		switch {
		case y2 > y1 && y2 >= y3:
			kind = HighTide
		case y2 < y1 && y2 <= y3:
			kind = LowTide
		default:
			continue
		}

		// Standard 3-point parabola vertex fit with the samples at
		// x = -1, 0, +1 hours.
		a := (y1+y3)/2 - y2
		b := (y3 - y1) / 2
		offset := 0.0
		height := y2
		if math.Abs(a) >= flatEps {
			offset = -b / (2 * a)
			height = y2 - b*b/(4*a)
		}

		// Shift on the wall-clock timeline, format back down to the
		// minute, and only then recover the absolute instant so the two
		// stay consistent.
		local := FormatLocal(locals[i].Add(time.Duration(offset * float64(time.Hour))))
		refined, err := ParseLocal(local)
		if err != nil {
			// FormatLocal output always reparses.
			return nil, &InvalidInputError{Index: i, Reason: err.Error()}
		}

		events = append(events, Event{
			Time:   AbsoluteFromLocal(refined, utcOffsetSeconds),
			Local:  local,
			Kind:   kind,
			Height: height,
		})
	}

	return events, nil
}
