package routing

import (
	"context"
	"goal-route-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryGeocodeCache struct {
	m map[string]domain.Coordinates
}

func (c *memoryGeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memoryGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func TestORSGeocoder(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "1901 W Madison St, Phoenix", r.URL.Query().Get("text"))
		assert.Equal(t, "US", r.URL.Query().Get("boundary.country"))
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-112.1, 33.45]}}]}`))
	}))
	defer srv.Close()

	cache := &memoryGeocodeCache{m: map[string]domain.Coordinates{}}
	g, err := NewORSGeocoder("key", srv.URL, "US", cache)
	require.NoError(t, err)

	got, err := g.Geocode(context.Background(), "  1901 W Madison St,   Phoenix ")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: -112.1, Lat: 33.45}, got)

	_, err = g.Geocode(context.Background(), "1901 W Madison St, Phoenix")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second lookup served from cache")
}

func TestORSGeocoderNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	g, err := NewORSGeocoder("key", srv.URL, "", nil)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)

	_, err = g.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}
