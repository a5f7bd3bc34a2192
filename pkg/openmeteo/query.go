package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/AntIg86/TideTimeBot/pkg/metrics"
)

const (
	MarineURL   = "https://marine-api.open-meteo.com/v1/marine"
	ForecastURL = "https://api.open-meteo.com/v1/forecast"

	// One past day plus two forecast days covers "yesterday through
	// tomorrow" in the location's local time.
	pastDays     = 1
	forecastDays = 2
)

// UpstreamError is a failed or malformed upstream fetch. It is surfaced to
// the caller as-is, never absorbed into an empty result.
type UpstreamError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s fetch failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s fetch failed: status %d", e.Endpoint, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Query selects the location to fetch tide inputs for.
type Query struct {
	Latitude  float64
	Longitude float64
}

func (q *Query) marineURL(base string) *url.URL {
	addr, err := url.Parse(base)
	if err != nil {
		panic(err)
	}
	vals := q.coords()
	vals.Add("hourly", "sea_level_height_msl")
	vals.Add("daily", "wave_height_max")
	addr.RawQuery = vals.Encode()
	return addr
}

func (q *Query) forecastURL(base string) *url.URL {
	addr, err := url.Parse(base)
	if err != nil {
		panic(err)
	}
	vals := q.coords()
	vals.Add("daily", "wind_speed_10m_max,sunrise,sunset")
	addr.RawQuery = vals.Encode()
	return addr
}

func (q *Query) coords() url.Values {
	vals := make(url.Values)
	vals.Add("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	vals.Add("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	vals.Add("timezone", "auto")
	vals.Add("past_days", strconv.Itoa(pastDays))
	vals.Add("forecast_days", strconv.Itoa(forecastDays))
	return vals
}

// Bundle holds the joined results of the two independent fetches.
type Bundle struct {
	Marine   *MarineResult
	Forecast *ForecastResult
}

// Client fetches from the Open-Meteo marine and forecast APIs.
type Client struct {
	httpClient   *http.Client
	marineBase   string
	forecastBase string
}

// NewClient returns a Client against the public Open-Meteo endpoints.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		marineBase:   MarineURL,
		forecastBase: ForecastURL,
	}
}

// FetchAll issues the marine and forecast requests concurrently and blocks
// until both complete. The fetches are independent; aggregation needs both.
func (c *Client) FetchAll(ctx context.Context, q *Query) (*Bundle, error) {
	var (
		bundle     Bundle
		merr, ferr error
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bundle.Marine, merr = c.fetchMarine(ctx, q)
	}()
	go func() {
		defer wg.Done()
		bundle.Forecast, ferr = c.fetchForecast(ctx, q)
	}()
	wg.Wait()

	if merr != nil {
		return nil, merr
	}
	if ferr != nil {
		return nil, ferr
	}
	return &bundle, nil
}

func (c *Client) fetchMarine(ctx context.Context, q *Query) (*MarineResult, error) {
	var result MarineResult
	if err := c.getJSON(ctx, "marine", q.marineURL(c.marineBase).String(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) fetchForecast(ctx context.Context, q *Query) (*ForecastResult, error) {
	var result ForecastResult
	if err := c.getJSON(ctx, "forecast", q.forecastURL(c.forecastBase).String(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, addr string, out interface{}) error {
	start := time.Now()
	defer func() {
		metrics.ObserveUpstreamFetch(endpoint, time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
