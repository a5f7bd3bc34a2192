package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/AntIg86/TideTimeBot/pkg/metrics"
)

// FileCached decorates a Lookuper with a flat-file cache keyed by normalized
// city name. Entries are immutable once written; concurrent writers of the
// same key derive the same value, so last writer wins without coordination
// beyond the mutex.
type FileCached struct {
	inner Lookuper
	path  string

	mu      sync.RWMutex
	entries map[string]Place
}

// NewFileCached loads the cache file at path if it exists and returns the
// decorated geocoder. A missing file is a fresh cache, not an error.
func NewFileCached(inner Lookuper, path string) (*FileCached, error) {
	c := &FileCached{
		inner:   inner,
		path:    path,
		entries: make(map[string]Place),
	}

	blob, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read geocode cache: %w", err)
	}
	if err := json.Unmarshal(blob, &c.entries); err != nil {
		return nil, fmt.Errorf("parse geocode cache %s: %w", path, err)
	}
	return c, nil
}

func (c *FileCached) Lookup(ctx context.Context, city string) (Place, error) {
	key := Normalize(city)

	c.mu.RLock()
	place, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		metrics.ObserveGeocodeCache(true)
		return place, nil
	}
	metrics.ObserveGeocodeCache(false)

	place, err := c.inner.Lookup(ctx, city)
	if err != nil {
		// Misses are not cached so transient failures can be retried.
		return Place{}, err
	}

	c.mu.Lock()
	c.entries[key] = place
	err = c.persistLocked()
	c.mu.Unlock()
	if err != nil {
		// A write failure costs a future API call, nothing more.
		log.Printf("failed to persist geocode cache: %v", err)
	}
	return place, nil
}

// Len reports the number of cached entries.
func (c *FileCached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *FileCached) persistLocked() error {
	blob, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, blob, 0o644)
}
