package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntIg86/TideTimeBot/pkg/geocode"
	"github.com/AntIg86/TideTimeBot/pkg/openmeteo"
	"github.com/AntIg86/TideTimeBot/pkg/service"
	"github.com/AntIg86/TideTimeBot/pkg/tides"
)

type fakeGeocoder struct {
	place geocode.Place
	err   error
}

func (f *fakeGeocoder) Lookup(ctx context.Context, city string) (geocode.Place, error) {
	return f.place, f.err
}

type countingFetcher struct {
	mu     sync.Mutex
	calls  int
	bundle *openmeteo.Bundle
	err    error
}

func (f *countingFetcher) FetchAll(ctx context.Context, q *openmeteo.Query) (*openmeteo.Bundle, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.bundle, f.err
}

func (f *countingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// testBundle covers midnight to 08:00 local at UTC+1 with a high near 03:00
// and a low near 06:00.
func testBundle() *openmeteo.Bundle {
	hours := make([]string, 0, 9)
	start, _ := tides.ParseLocal("2021-06-01T00:00")
	for i := 0; i < 9; i++ {
		hours = append(hours, tides.FormatLocal(start.Add(time.Duration(i)*time.Hour)))
	}
	wave := 1.4

	return &openmeteo.Bundle{
		Marine: &openmeteo.MarineResult{
			UTCOffsetSeconds: 3600,
			Timezone:         "Europe/London",
			Hourly: openmeteo.MarineHourly{
				Time:           hours,
				SeaLevelHeight: []float64{0.5, 1.0, 1.9, 2.0, 1.6, 0.9, 0.3, 0.6, 1.2},
			},
			Daily: openmeteo.MarineDaily{
				Time:          []string{"2021-06-01"},
				WaveHeightMax: []*float64{&wave},
			},
		},
		Forecast: &openmeteo.ForecastResult{
			UTCOffsetSeconds: 3600,
			Timezone:         "Europe/London",
			Daily: openmeteo.ForecastDaily{
				Time: []string{"2021-06-01"},
			},
		},
	}
}

func testRouter(fetcher service.Fetcher, geocoder geocode.Lookuper) *mux.Router {
	now := time.Date(2021, time.June, 1, 3, 30, 0, 0, time.UTC)
	svc := service.New(geocoder, fetcher, clockwork.NewFakeClockAt(now))
	r := mux.NewRouter()
	Register(r, svc, time.Minute)
	return r
}

func brighton() *fakeGeocoder {
	return &fakeGeocoder{place: geocode.Place{
		Name: "Brighton", Country: "United Kingdom", Latitude: 50.82, Longitude: -0.14,
	}}
}

func TestServeTidesText(t *testing.T) {
	r := testRouter(&countingFetcher{bundle: testBundle()}, brighton())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/tides?city=brighton", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "Brighton, United Kingdom")
	assert.Contains(t, body, "next low tide at 06:10")
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
}

func TestServeTidesJSON(t *testing.T) {
	r := testRouter(&countingFetcher{bundle: testBundle()}, brighton())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/tides?city=brighton&o=json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got briefResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Brighton", got.Place.Name)
	require.NotNil(t, got.Brief)
	assert.Equal(t, "2021-06-01", got.Brief.Date)
}

func TestServeTidesCaches(t *testing.T) {
	fetcher := &countingFetcher{bundle: testBundle()}
	r := testRouter(fetcher, brighton())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/tides?city=brighton", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// The cache fills asynchronously; eventually a repeat request stops
	// hitting the fetcher. Spelling variants share the entry.
	require.Eventually(t, func() bool {
		before := fetcher.count()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/tides?city=%20BRIGHTON%20", nil))
		return w.Code == http.StatusOK && fetcher.count() == before
	}, time.Second, 10*time.Millisecond)
}

func TestServeTidesMissingCity(t *testing.T) {
	r := testRouter(&countingFetcher{bundle: testBundle()}, brighton())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/tides", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServeTidesErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		fetcher  *countingFetcher
		geocoder *fakeGeocoder
		want     int
	}{{
		name:     "unknown city",
		fetcher:  &countingFetcher{bundle: testBundle()},
		geocoder: &fakeGeocoder{err: geocode.ErrNotFound},
		want:     http.StatusNotFound,
	}, {
		name:     "upstream down",
		fetcher:  &countingFetcher{err: &openmeteo.UpstreamError{Endpoint: "marine", Status: 503}},
		geocoder: brighton(),
		want:     http.StatusBadGateway,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := testRouter(tc.fetcher, tc.geocoder)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/tides?city=atlantis", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestIndexRedirectsToLastCity(t *testing.T) {
	r := testRouter(&countingFetcher{bundle: testBundle()}, brighton())

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest("GET", "/api/v1/tides?city=brighton", nil))
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/v1/tides?city=Brighton", w.Header().Get("Location"))
}

func TestIndexWithoutSession(t *testing.T) {
	r := testRouter(&countingFetcher{bundle: testBundle()}, brighton())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/tides")
}
