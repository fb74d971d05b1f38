package ports

import (
	"context"
	"goal-route-service/internal/domain"
	"time"
)

// Persistent cache of found provider routes, keyed by a normalized request signature.
type LegCache interface {
	// Return cached legs for key; ok is false on a miss.
	Get(ctx context.Context, key string) (legs []domain.RouteLeg, ok bool, err error)
	Put(ctx context.Context, key string, legs []domain.RouteLeg) error
	// Remove entries fetched before cutoff and report how many were removed.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}
