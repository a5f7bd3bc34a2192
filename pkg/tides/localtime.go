package tides

import "time"

// Layout is the zone-free wall-clock format used by the marine feed.
const Layout = "2006-01-02T15:04"

// ParseLocal parses a wall-clock string onto a zone-free numeric timeline.
// time.Parse with no zone in the layout pins the result to UTC, which keeps
// host timezone configuration out of the date arithmetic entirely.
func ParseLocal(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// FormatLocal renders a wall-clock instant back in the feed's format. Seconds
// and below are dropped.
func FormatLocal(t time.Time) string {
	return t.Format(Layout)
}

// AbsoluteFromLocal converts a wall-clock time to the absolute instant it
// names at the given UTC offset. The series itself carries no zone
// information, only this one scalar per location.
func AbsoluteFromLocal(local time.Time, utcOffsetSeconds int) time.Time {
	return local.Add(-time.Duration(utcOffsetSeconds) * time.Second)
}

// LocalFromAbsolute is the inverse of AbsoluteFromLocal.
func LocalFromAbsolute(abs time.Time, utcOffsetSeconds int) time.Time {
	return abs.Add(time.Duration(utcOffsetSeconds) * time.Second)
}
