package report

import (
	"fmt"
	"strings"

	"github.com/AntIg86/TideTimeBot/pkg/tides"
)

// Clock trims a wall-clock string down to HH:MM for display.
func Clock(local string) string {
	if len(local) >= len(tides.Layout) {
		return local[11:16]
	}
	return local
}

// String renders the result as a short plain-text summary, one fact per
// line. Fields the upstream had no value for are left out rather than shown
// as zero.
func (r *Result) String() string {
	var b strings.Builder

	switch {
	case r.NextTide != nil:
		fmt.Fprintf(&b, "tide is %s, next %s tide at %s (%.2f)\n",
			r.Trend, r.NextTide.Kind, Clock(r.NextTide.Local), r.NextTide.Height)
	case r.Trend != TrendUnknown:
		fmt.Fprintf(&b, "tide is %s, no further events in the forecast window\n", r.Trend)
	default:
		b.WriteString("no tide events in the forecast window\n")
	}

	fmt.Fprintf(&b, "high tides: %s\n", clockList(r.HighTides))
	fmt.Fprintf(&b, "low tides: %s\n", clockList(r.LowTides))

	if r.Day.MaxWaveHeight != nil {
		fmt.Fprintf(&b, "max wave height: %.2f\n", *r.Day.MaxWaveHeight)
	}
	if r.Day.MaxWindSpeed != nil {
		fmt.Fprintf(&b, "max wind speed: %.1f\n", *r.Day.MaxWindSpeed)
	}
	if r.Day.Sunrise != nil && r.Day.Sunset != nil {
		fmt.Fprintf(&b, "sunrise %s, sunset %s\n", Clock(*r.Day.Sunrise), Clock(*r.Day.Sunset))
	}

	return strings.TrimRight(b.String(), "\n")
}

func clockList(events []tides.Event) string {
	if len(events) == 0 {
		return "none today"
	}
	clocks := make([]string, len(events))
	for i, ev := range events {
		clocks[i] = Clock(ev.Local)
	}
	return strings.Join(clocks, ", ")
}
