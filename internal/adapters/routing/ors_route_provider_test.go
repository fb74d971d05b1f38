package routing

import (
	"context"
	"encoding/json"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orsTwoRoutes = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[8.681495, 49.41461], [8.686507, 49.41943], [8.687872, 49.420318]]},
      "properties": {"summary": {"distance": 1408.8, "duration": 1014.3}}
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[8.681495, 49.41461], [8.684, 49.4181], [8.687872, 49.420318]]},
      "properties": {"summary": {"distance": 1620.1, "duration": 1166.4}}
    }
  ]
}`

func newTestORS(t *testing.T, h http.HandlerFunc) *ORSRouteProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewORSRouteProvider("test-key", srv.URL, "foot-walking")
	require.NoError(t, err)
	p.client.backoff = time.Millisecond
	return p
}

func TestORSRouteProviderFound(t *testing.T) {
	var got directionsRequest
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/foot-walking/geojson", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(orsTwoRoutes))
	})

	resp := p.GetRoute(context.Background(), ports.RouteRequest{
		From:         domain.Coordinates{Lon: 8.681495, Lat: 49.41461},
		To:           domain.Coordinates{Lon: 8.687872, Lat: 49.420318},
		Alternatives: true,
	})

	require.Equal(t, ports.RouteFound, resp.Status, resp.Detail)
	require.Len(t, resp.Legs, 2)
	assert.InDelta(t, 1.4088, resp.Legs[0].DistanceKm, 1e-9)
	assert.InDelta(t, 1014.3, resp.Legs[0].DurationSec, 1e-9)
	assert.Len(t, resp.Legs[0].Geometry, 3)

	assert.Len(t, got.Coordinates, 2)
	require.NotNil(t, got.AlternativeRoutes)
	assert.Equal(t, 3, got.AlternativeRoutes.TargetCount)
}

func TestORSRouteProviderViaDisablesAlternatives(t *testing.T) {
	var got directionsRequest
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(orsTwoRoutes))
	})

	resp := p.GetRoute(context.Background(), ports.RouteRequest{
		From:         domain.Coordinates{Lon: 8.68, Lat: 49.41},
		To:           domain.Coordinates{Lon: 8.69, Lat: 49.42},
		Via:          []domain.Coordinates{{Lon: 8.70, Lat: 49.415}},
		Alternatives: true,
	})

	require.Equal(t, ports.RouteFound, resp.Status)
	assert.Len(t, got.Coordinates, 3)
	assert.Nil(t, got.AlternativeRoutes)
}

func TestORSRouteProviderStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ports.RouteStatus
	}{
		{name: "route not found code", status: http.StatusNotFound, body: `{"error":{"code":2009,"message":"Route could not be found"}}`, want: ports.RouteNotFound},
		{name: "point not found on 400", status: http.StatusBadRequest, body: `{"error":{"code":2010,"message":"Could not find routable point"}}`, want: ports.RouteNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"Rate limit exceeded"}`, want: ports.RouteRateLimited},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"Access to this API has been disallowed"}`, want: ports.RouteError},
		{name: "server error", status: http.StatusBadGateway, body: `bad gateway`, want: ports.RouteError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp := p.GetRoute(context.Background(), ports.RouteRequest{
				From: domain.Coordinates{Lon: 8.68, Lat: 49.41},
				To:   domain.Coordinates{Lon: 8.69, Lat: 49.42},
			})
			assert.Equal(t, tt.want, resp.Status, resp.Detail)
			assert.Empty(t, resp.Legs)
		})
	}
}

func TestORSRouteProviderRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(orsTwoRoutes))
	})

	resp := p.GetRoute(context.Background(), ports.RouteRequest{
		From: domain.Coordinates{Lon: 8.68, Lat: 49.41},
		To:   domain.Coordinates{Lon: 8.69, Lat: 49.42},
	})

	assert.Equal(t, ports.RouteFound, resp.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestORSRouteProviderEmptyCollection(t *testing.T) {
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	})

	resp := p.GetRoute(context.Background(), ports.RouteRequest{})
	assert.Equal(t, ports.RouteNotFound, resp.Status)
}

func TestNewORSRouteProviderRequiresKey(t *testing.T) {
	_, err := NewORSRouteProvider("", "", "")
	assert.Error(t, err)
}
