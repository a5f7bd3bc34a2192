// Package tides extracts discrete tide events from an hourly sea level
// series. The series carries zone-free local wall-clock timestamps; a single
// UTC offset for the location relates them to absolute instants. See Extract.
package tides
