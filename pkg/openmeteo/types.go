package openmeteo

import (
	"github.com/AntIg86/TideTimeBot/pkg/tides"
)

// MarineResult is the payload returned by the marine API.
type MarineResult struct {
	UTCOffsetSeconds int          `json:"utc_offset_seconds"`
	Timezone         string       `json:"timezone"`
	Hourly           MarineHourly `json:"hourly"`
	Daily            MarineDaily  `json:"daily"`
}

// MarineHourly carries the parallel arrays of the hourly series.
type MarineHourly struct {
	Time           []string  `json:"time"`
	SeaLevelHeight []float64 `json:"sea_level_height_msl"`
}

// MarineDaily carries the per-day wave table as parallel arrays.
// Entries the model has no data for come back as JSON null.
type MarineDaily struct {
	Time          []string   `json:"time"`
	WaveHeightMax []*float64 `json:"wave_height_max"`
}

// ForecastResult is the payload returned by the forecast API.
type ForecastResult struct {
	UTCOffsetSeconds int           `json:"utc_offset_seconds"`
	Timezone         string        `json:"timezone"`
	Daily            ForecastDaily `json:"daily"`
}

// ForecastDaily carries the per-day wind and sun table as parallel arrays.
type ForecastDaily struct {
	Time         []string   `json:"time"`
	WindSpeedMax []*float64 `json:"wind_speed_10m_max"`
	Sunrise      []string   `json:"sunrise"`
	Sunset       []string   `json:"sunset"`
}

// MarineDay is one row of the marine daily table after keying by date.
type MarineDay struct {
	WaveHeightMax *float64
}

// ForecastDay is one row of the forecast daily table after keying by date.
type ForecastDay struct {
	WindSpeedMax *float64
	Sunrise      *string
	Sunset       *string
}

// Samples converts the hourly series into extractor input. The arrays are
// zipped up to the shorter length; Open-Meteo emits them in lockstep.
func (r *MarineResult) Samples() []tides.Sample {
	n := len(r.Hourly.Time)
	if len(r.Hourly.SeaLevelHeight) < n {
		n = len(r.Hourly.SeaLevelHeight)
	}
	samples := make([]tides.Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = tides.Sample{
			Timestamp: r.Hourly.Time[i],
			Height:    r.Hourly.SeaLevelHeight[i],
		}
	}
	return samples
}

// DailyTable keys the wave table by calendar date.
func (r *MarineResult) DailyTable() map[string]MarineDay {
	table := make(map[string]MarineDay, len(r.Daily.Time))
	for i, date := range r.Daily.Time {
		var day MarineDay
		if i < len(r.Daily.WaveHeightMax) {
			day.WaveHeightMax = r.Daily.WaveHeightMax[i]
		}
		table[date] = day
	}
	return table
}

// DailyTable keys the wind and sun table by calendar date.
func (r *ForecastResult) DailyTable() map[string]ForecastDay {
	table := make(map[string]ForecastDay, len(r.Daily.Time))
	for i, date := range r.Daily.Time {
		var day ForecastDay
		if i < len(r.Daily.WindSpeedMax) {
			day.WindSpeedMax = r.Daily.WindSpeedMax[i]
		}
		if i < len(r.Daily.Sunrise) && r.Daily.Sunrise[i] != "" {
			day.Sunrise = &r.Daily.Sunrise[i]
		}
		if i < len(r.Daily.Sunset) && r.Daily.Sunset[i] != "" {
			day.Sunset = &r.Daily.Sunset[i]
		}
		table[date] = day
	}
	return table
}
