// Package sunset computes sunrise and sunset for a coordinate. It backs up
// the forecast feed: when the daily table has no sun times for a day, the
// service falls back to computing them locally.
package sunset

import (
	"time"

	"github.com/AntIg86/TideTimeBot/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// Day returns sunrise and sunset for the calendar day containing t at the
// given coordinates. Pass t in the location's zone (a fixed offset zone is
// fine) so the right day is chosen.
func Day(lat, long float64, t time.Time) (rise, set time.Time) {
	var s sunrise.Sunrise
	s.Around(lat, long, t)

	// The sunrise package is loose about which day Around lands on;
	// walk forward until the dates line up.
	for !timetricks.SameDay(t, s.Sunrise().In(t.Location())) {
		s.AddDays(1)
	}
	return s.Sunrise().In(t.Location()), s.Sunset().In(t.Location())
}
