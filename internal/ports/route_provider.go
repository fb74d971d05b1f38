package ports

import (
	"context"
	"goal-route-service/internal/domain"
)

// RouteRequest asks for a foot route From -> (Via...) -> To.
type RouteRequest struct {
	From         domain.Coordinates
	To           domain.Coordinates
	Via          []domain.Coordinates
	Alternatives bool
}

type RouteStatus int

const (
	RouteFound RouteStatus = iota
	RouteNotFound
	RouteRateLimited
	RouteError
)

func (s RouteStatus) String() string {
	switch s {
	case RouteFound:
		return "found"
	case RouteNotFound:
		return "not_found"
	case RouteRateLimited:
		return "rate_limited"
	default:
		return "error"
	}
}

// RouteResponse is the provider result. Legs is non-empty only when Status
// is RouteFound; the first leg is the provider's preferred route and the rest
// are alternatives. Detail describes a non-found status.
type RouteResponse struct {
	Status RouteStatus
	Legs   []domain.RouteLeg
	Detail string
}

func Found(legs ...domain.RouteLeg) RouteResponse {
	return RouteResponse{Status: RouteFound, Legs: legs}
}

func NotFound(detail string) RouteResponse {
	return RouteResponse{Status: RouteNotFound, Detail: detail}
}

func RateLimited(detail string) RouteResponse {
	return RouteResponse{Status: RouteRateLimited, Detail: detail}
}

func Failed(detail string) RouteResponse {
	return RouteResponse{Status: RouteError, Detail: detail}
}

// Contract for computing walkable routes between points.
type RouteProvider interface {
	// Return the route (and alternatives when requested) for req.
	// Transport failures are reported in the response, never as a panic.
	GetRoute(ctx context.Context, req RouteRequest) RouteResponse
}
