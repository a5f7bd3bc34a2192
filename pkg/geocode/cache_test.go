package geocode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLookuper records how many times the inner geocoder was consulted.
type countingLookuper struct {
	calls int
	place Place
	err   error
}

func (c *countingLookuper) Lookup(ctx context.Context, city string) (Place, error) {
	c.calls++
	return c.place, c.err
}

func TestFileCachedHit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	inner := &countingLookuper{place: Place{Name: "Brighton", Latitude: 50.8, Longitude: -0.14}}

	c, err := NewFileCached(inner, path)
	require.NoError(t, err)

	// Different spellings of the same normalized key hit the cache.
	for _, query := range []string{"Brighton", "brighton", "  BRIGHTON "} {
		place, err := c.Lookup(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, "Brighton", place.Name)
	}
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, c.Len())
}

func TestFileCachedPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	inner := &countingLookuper{place: Place{Name: "Brighton", Latitude: 50.8}}

	c, err := NewFileCached(inner, path)
	require.NoError(t, err)
	_, err = c.Lookup(context.Background(), "Brighton")
	require.NoError(t, err)

	// A fresh instance over the same file sees the entry and never asks
	// the inner geocoder.
	second, err := NewFileCached(&countingLookuper{err: errors.New("should not be called")}, path)
	require.NoError(t, err)
	place, err := second.Lookup(context.Background(), "brighton")
	require.NoError(t, err)
	assert.Equal(t, "Brighton", place.Name)
}

func TestFileCachedMissNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	inner := &countingLookuper{err: ErrNotFound}

	c, err := NewFileCached(inner, path)
	require.NoError(t, err)

	_, err = c.Lookup(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Lookup(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)

	// Failed lookups stay retryable.
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, c.Len())
}

func TestFileCachedCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileCached(&countingLookuper{}, path)
	assert.Error(t, err)
}
