package ports

import (
	"context"
	"goal-route-service/internal/domain"
	"time"
)

// Port: a boundary for persisting search sessions with a short TTL.
type SessionStore interface {
	// Load returns domain.ErrSessionNotFound when the key is missing or expired.
	Load(ctx context.Context, key string) (domain.SearchSession, error)
	// Save writes the session and refreshes its TTL.
	Save(ctx context.Context, s domain.SearchSession, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
