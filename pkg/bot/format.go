package bot

import (
	"strings"

	"github.com/AntIg86/TideTimeBot/pkg/geocode"
	"github.com/AntIg86/TideTimeBot/pkg/report"
)

// FormatBrief renders a chat message for one day's tide brief. The place is
// echoed back so the user can tell which city the geocoder matched.
func FormatBrief(place geocode.Place, res *report.Result) string {
	var b strings.Builder
	b.WriteString("Tides for ")
	b.WriteString(place.Name)
	if place.Country != "" {
		b.WriteString(", ")
		b.WriteString(place.Country)
	}
	b.WriteString(" on ")
	b.WriteString(res.Date)
	b.WriteString("\n")
	if res.Sparkline != "" {
		b.WriteString(res.Sparkline)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(res.String())
	return b.String()
}
