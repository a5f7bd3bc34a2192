// Package report windows extracted tide events to the location's current
// calendar day, joins the daily marine and forecast tables, and resolves the
// current trend relative to an explicit "now".
package report

import (
	"strings"
	"time"

	"github.com/AntIg86/TideTimeBot/pkg/openmeteo"
	"github.com/AntIg86/TideTimeBot/pkg/tides"
	"github.com/AntIg86/TideTimeBot/pkg/timetricks"
)

// Trend classifies which way the sea level is moving. It is forward-looking:
// between a low and the next high the level is rising by definition of the
// extrema, so the kind of the next event decides, not the slope at now.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	// TrendUnknown means the fetched window held no events to judge by.
	TrendUnknown Trend = "unknown"
)

// DaySummary carries the optional per-day marine and astronomical fields.
// Nil means the upstream tables had no value for today; it is never coerced
// to zero.
type DaySummary struct {
	MaxWaveHeight *float64 `json:"max_wave_height"`
	MaxWindSpeed  *float64 `json:"max_wind_speed"`
	Sunrise       *string  `json:"sunrise"`
	Sunset        *string  `json:"sunset"`
}

// Result is the aggregate answer for a single request. It is constructed
// fresh per request and carries no cross-request state.
type Result struct {
	// Local calendar date the result describes, YYYY-MM-DD.
	Date      string        `json:"date"`
	HighTides []tides.Event `json:"high_tides"`
	LowTides  []tides.Event `json:"low_tides"`
	Trend     Trend         `json:"trend"`
	NextTide  *tides.Event  `json:"next_tide,omitempty"`
	// IANA timezone name of the location, filled in by the caller that
	// knows the fetch payload.
	Timezone string     `json:"timezone,omitempty"`
	Day      DaySummary `json:"day"`
	// Sparkline is an optional one-line rendering of today's sea level
	// curve, filled in by the caller that holds the raw series.
	Sparkline string `json:"sparkline,omitempty"`
}

// Aggregate produces the Result for now. Events must be ordered by time, as
// Extract emits them. The high/low slices are always non-nil, and a missing
// today key in either daily table leaves the corresponding fields nil rather
// than failing.
func Aggregate(events []tides.Event, marine map[string]openmeteo.MarineDay, forecast map[string]openmeteo.ForecastDay, utcOffsetSeconds int, now time.Time) Result {
	todayKey := timetricks.DayKey(tides.LocalFromAbsolute(now, utcOffsetSeconds))

	res := Result{
		Date:      todayKey,
		HighTides: []tides.Event{},
		LowTides:  []tides.Event{},
		Trend:     TrendUnknown,
	}

	for _, ev := range events {
		if !strings.HasPrefix(ev.Local, todayKey) {
			continue
		}
		if ev.Kind == tides.HighTide {
			res.HighTides = append(res.HighTides, ev)
		} else {
			res.LowTides = append(res.LowTides, ev)
		}
	}

	// Next and trend consult the full list, not just today: near midnight
	// the next event legitimately falls on an adjacent day.
	for i := range events {
		if events[i].Time.After(now) {
			next := events[i]
			res.NextTide = &next
			if next.Kind == tides.HighTide {
				res.Trend = TrendRising
			} else {
				res.Trend = TrendFalling
			}
			break
		}
	}
	if res.NextTide == nil {
		// Short forecast horizon. Judge by the most recent past event:
		// after a high the level is moving away from it.
		for i := len(events) - 1; i >= 0; i-- {
			if !events[i].Time.After(now) {
				if events[i].Kind == tides.HighTide {
					res.Trend = TrendFalling
				} else {
					res.Trend = TrendRising
				}
				break
			}
		}
	}

	if day, ok := marine[todayKey]; ok {
		res.Day.MaxWaveHeight = day.WaveHeightMax
	}
	if day, ok := forecast[todayKey]; ok {
		res.Day.MaxWindSpeed = day.WindSpeedMax
		res.Day.Sunrise = day.Sunrise
		res.Day.Sunset = day.Sunset
	}

	return res
}
