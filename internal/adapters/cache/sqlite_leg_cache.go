package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLite backed cache of provider routes. Keys are expected to be
// normalized by the caller.
type SqliteLegCache struct {
	DB *sql.DB

	now func() time.Time
}

func NewSqliteLegCache(db *sql.DB) *SqliteLegCache {
	return &SqliteLegCache{DB: db, now: time.Now}
}

// Fetch the cached legs for a request key.
func (s *SqliteLegCache) Get(ctx context.Context, key string) (_ []domain.RouteLeg, _ bool, err error) {
	defer obs.Time(ctx, "leg.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("leg cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get leg cache: key must not be empty")
	}

	var raw string
	err = s.DB.QueryRowContext(ctx, `
	SELECT legs_json
    FROM leg_cache
    WHERE request_key = ?;
	`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get leg cache: query leg_cache table: %w", err)
	}

	var legs []domain.RouteLeg
	if err := json.Unmarshal([]byte(raw), &legs); err != nil {
		return nil, false, fmt.Errorf("get leg cache: decode legs: %w", err)
	}

	return legs, true, nil
}

// Store legs for a request key, replacing any previous entry.
func (s *SqliteLegCache) Put(ctx context.Context, key string, legs []domain.RouteLeg) error {
	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert leg cache: key must not be empty")
	}

	if len(legs) == 0 {
		return nil
	}

	payload, err := json.Marshal(legs)
	if err != nil {
		return fmt.Errorf("insert leg cache: encode legs: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO leg_cache (
        request_key,
        legs_json,
        fetched_at
    )
    VALUES (?, ?, ?);
	`, key, string(payload), s.now().Unix()); err != nil {
		return fmt.Errorf("insert leg cache key=%q: %w", key, err)
	}

	return nil
}

// Delete entries fetched before cutoff.
func (s *SqliteLegCache) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("leg cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM leg_cache WHERE fetched_at < ?;`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge leg cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge leg cache: rows affected: %w", err)
	}
	return n, nil
}
