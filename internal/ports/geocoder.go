package ports

import (
	"context"
	"goal-route-service/internal/domain"
)

// Contract for resolving a free-form address to coordinates.
type Geocoder interface {
	// Geocode returns domain.ErrAddressNotFound when nothing matches.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Persistent address -> coordinates cache. Keys are normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
