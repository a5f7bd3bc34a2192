// Package visualize renders a sea level series as a compact text sparkline
// for chat messages and plain-text API output.
package visualize

import (
	"strings"

	"github.com/AntIg86/TideTimeBot/pkg/tides"
)

var levels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws one rune per sample, scaled over the series' own range.
// Samples whose wall-clock date does not match dayKey are skipped, so a
// multi-day fetch window renders as a single day's curve. A flat series
// renders at mid height.
func Sparkline(samples []tides.Sample, dayKey string) string {
	var heights []float64
	for _, s := range samples {
		if !strings.HasPrefix(s.Timestamp, dayKey) {
			continue
		}
		heights = append(heights, s.Height)
	}
	if len(heights) == 0 {
		return ""
	}

	min, max := heights[0], heights[0]
	for _, h := range heights {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}

	var b strings.Builder
	for _, h := range heights {
		i := len(levels) / 2
		if max > min {
			i = int(float64(len(levels)-1) * (h - min) / (max - min))
		}
		b.WriteRune(levels[i])
	}
	return b.String()
}
