// Package service assembles a tide brief for a location: geocode the city,
// fetch the marine and forecast payloads, extract tide events, and aggregate
// them into a single result for now.
package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AntIg86/TideTimeBot/pkg/geocode"
	"github.com/AntIg86/TideTimeBot/pkg/openmeteo"
	"github.com/AntIg86/TideTimeBot/pkg/report"
	"github.com/AntIg86/TideTimeBot/pkg/sunset"
	"github.com/AntIg86/TideTimeBot/pkg/tides"
	"github.com/AntIg86/TideTimeBot/pkg/visualize"
)

// Fetcher is the upstream data source. Implemented by openmeteo.Client.
type Fetcher interface {
	FetchAll(ctx context.Context, q *openmeteo.Query) (*openmeteo.Bundle, error)
}

// Service is safe for concurrent use; each request builds its result from
// scratch.
type Service struct {
	geocoder geocode.Lookuper
	fetcher  Fetcher
	clock    clockwork.Clock
}

// New builds a Service. A nil clock means the real one.
func New(geocoder geocode.Lookuper, fetcher Fetcher, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		geocoder: geocoder,
		fetcher:  fetcher,
		clock:    clock,
	}
}

// BriefForCity resolves city and returns its tide brief along with the
// resolved place, so callers can echo what was matched.
func (s *Service) BriefForCity(ctx context.Context, city string) (*report.Result, geocode.Place, error) {
	place, err := s.geocoder.Lookup(ctx, city)
	if err != nil {
		return nil, geocode.Place{}, err
	}
	res, err := s.Brief(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return nil, place, err
	}
	return res, place, nil
}

// Lookup resolves a city name without fetching tide data.
func (s *Service) Lookup(ctx context.Context, city string) (geocode.Place, error) {
	return s.geocoder.Lookup(ctx, city)
}

// Brief returns the tide brief for a coordinate.
func (s *Service) Brief(ctx context.Context, lat, long float64) (*report.Result, error) {
	bundle, err := s.fetcher.FetchAll(ctx, &openmeteo.Query{Latitude: lat, Longitude: long})
	if err != nil {
		return nil, err
	}

	offset := bundle.Marine.UTCOffsetSeconds
	events, err := tides.Extract(bundle.Marine.Samples(), offset)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	res := report.Aggregate(events, bundle.Marine.DailyTable(), bundle.Forecast.DailyTable(), offset, now)
	res.Timezone = bundle.Marine.Timezone
	res.Sparkline = visualize.Sparkline(bundle.Marine.Samples(), res.Date)

	s.fillSunTimes(&res, lat, long, offset, now)
	return &res, nil
}

// fillSunTimes computes sunrise/sunset locally when the forecast table had
// none for today.
func (s *Service) fillSunTimes(res *report.Result, lat, long float64, offset int, now time.Time) {
	if res.Day.Sunrise != nil && res.Day.Sunset != nil {
		return
	}

	loc := time.FixedZone(res.Timezone, offset)
	rise, set := sunset.Day(lat, long, now.In(loc))
	if res.Day.Sunrise == nil {
		v := rise.Format(tides.Layout)
		res.Day.Sunrise = &v
	}
	if res.Day.Sunset == nil {
		v := set.Format(tides.Layout)
		res.Day.Sunset = &v
	}
}
