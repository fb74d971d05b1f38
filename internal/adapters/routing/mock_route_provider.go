package routing

import (
	"context"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/ports"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MockRouteProvider serves canned responses keyed by "from|to", falling back
// to Fallback (or NotFound) for unknown pairs. It records every request.
type MockRouteProvider struct {
	mu       sync.Mutex
	m        map[string]ports.RouteResponse
	requests []ports.RouteRequest

	Fallback func(req ports.RouteRequest) ports.RouteResponse
}

func NewMockRouteProvider() *MockRouteProvider {
	return &MockRouteProvider{m: make(map[string]ports.RouteResponse)}
}

func (p *MockRouteProvider) Set(from, to domain.Coordinates, resp ports.RouteResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[from.Key()+"|"+to.Key()] = resp
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, req ports.RouteRequest) ports.RouteResponse {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	r, ok := p.m[req.From.Key()+"|"+req.To.Key()]
	fallback := p.Fallback
	p.mu.Unlock()

	if ok && len(req.Via) == 0 {
		return r
	}
	if fallback != nil {
		return fallback(req)
	}
	return ports.NotFound("no mock route")
}

func (p *MockRouteProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func (p *MockRouteProvider) Requests() []ports.RouteRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.RouteRequest(nil), p.requests...)
}

// StraightLine returns a fallback that routes along the straight polyline
// From -> Via... -> To, with distance equal to its geodesic length times detour.
func StraightLine(detour float64) func(req ports.RouteRequest) ports.RouteResponse {
	return func(req ports.RouteRequest) ports.RouteResponse {
		ls := orb.LineString{req.From.Point()}
		for _, v := range req.Via {
			ls = append(ls, v.Point())
		}
		ls = append(ls, req.To.Point())

		km := geo.Length(ls) / 1000 * detour
		return ports.Found(domain.RouteLeg{
			DistanceKm:  km,
			DurationSec: km / 5 * 3600,
			Geometry:    ls,
		})
	}
}
