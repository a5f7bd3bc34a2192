package timetricks

import (
	"time"
)

const dayKeyFormat = "2006-01-02"

// DayKey returns the calendar date key for t, e.g. "2021-06-01". Two times on
// the same calendar day return identical strings, which is what the daily
// summary tables are joined on.
func DayKey(t time.Time) string {
	return t.Format(dayKeyFormat)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(t time.Time, t2 time.Time) bool {
	return DayKey(t) == DayKey(t2)
}

// TrimClock strips the wall clock from t, leaving the first instant of its
// calendar day.
func TrimClock(t time.Time) time.Time {
	h, m, s := t.Clock()
	return t.Add(-1 *
		(time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second))
}

// SetClock returns t with its wall clock replaced.
func SetClock(t time.Time, hour, minute time.Duration) time.Time {
	return TrimClock(t).Add(hour*time.Hour + minute*time.Minute)
}
