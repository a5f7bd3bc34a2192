// Package geocode resolves city names to coordinates via the Open-Meteo
// geocoding API, with an optional flat-file cache in front.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const SearchURL = "https://geocoding-api.open-meteo.com/v1/search"

// ErrNotFound means the geocoder had no match for the city.
var ErrNotFound = errors.New("geocode: no match for city")

// Place is a resolved location.
type Place struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Lookuper resolves a city name to a Place. Implemented by Client and by the
// FileCached decorator.
type Lookuper interface {
	Lookup(ctx context.Context, city string) (Place, error)
}

// Normalize maps user input to its cache key form: lowercased, inner runs of
// whitespace collapsed.
func Normalize(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}

// Client queries the Open-Meteo geocoding API. The first match wins.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    SearchURL,
	}
}

type searchResponse struct {
	Results []Place `json:"results"`
}

func (c *Client) Lookup(ctx context.Context, city string) (Place, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Place{}, fmt.Errorf("%w (empty query)", ErrNotFound)
	}

	vals := make(url.Values)
	vals.Add("name", city)
	vals.Add("count", "1")
	vals.Add("language", "en")
	vals.Add("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+vals.Encode(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("geocode API status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Place{}, fmt.Errorf("geocode decode: %w", err)
	}
	if len(parsed.Results) == 0 {
		return Place{}, fmt.Errorf("%w: %q", ErrNotFound, city)
	}
	return parsed.Results[0], nil
}
