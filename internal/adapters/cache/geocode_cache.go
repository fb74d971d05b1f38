package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"strings"
	"time"
)

// geocodeDialect holds the statements that differ between SQLite and Postgres.
type geocodeDialect struct {
	// selectIn returns a lookup query for n addresses and its arguments.
	selectIn func(addresses []string) (string, []any)
	upsert   string
	purge    string
	// stamp converts a fetch time into the fetched_at column value.
	stamp func(t time.Time) any
}

var sqliteGeocodes = geocodeDialect{
	selectIn: func(addresses []string) (string, []any) {
		args := make([]any, len(addresses))
		for i, a := range addresses {
			args[i] = a
		}
		q := `SELECT address, lon, lat FROM geocode_cache WHERE address IN (?` +
			strings.Repeat(", ?", len(addresses)-1) + `);`
		return q, args
	},
	upsert: `
	INSERT OR REPLACE INTO geocode_cache (address, lon, lat, fetched_at)
    VALUES (?, ?, ?, ?);
	`,
	purge: `DELETE FROM geocode_cache WHERE fetched_at < ?;`,
	stamp: func(t time.Time) any { return t.Unix() },
}

var postgresGeocodes = geocodeDialect{
	selectIn: func(addresses []string) (string, []any) {
		return `SELECT address, lon, lat FROM geocode_cache WHERE address = ANY($1::text[]);`, []any{addresses}
	},
	upsert: `
	INSERT INTO geocode_cache (address, lon, lat, fetched_at)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		fetched_at = EXCLUDED.fetched_at;
	`,
	purge: `DELETE FROM geocode_cache WHERE fetched_at < $1;`,
	stamp: func(t time.Time) any { return t.UTC() },
}

// GeocodeCache maps normalized origin addresses to coordinates.
type GeocodeCache struct {
	DB *sql.DB

	dialect geocodeDialect
	now     func() time.Time
}

func NewSqliteGeocodeCache(db *sql.DB) *GeocodeCache {
	return &GeocodeCache{DB: db, dialect: sqliteGeocodes, now: time.Now}
}

// NewSQLGeocodeCache is the Postgres flavour.
func NewSQLGeocodeCache(db *sql.DB) *GeocodeCache {
	return &GeocodeCache{DB: db, dialect: postgresGeocodes, now: time.Now}
}

// GetMany returns the cached subset of addresses; blanks and duplicates are ignored.
func (s *GeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(addresses))
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		uniq = append(uniq, a)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	q, args := s.dialect.selectIn(uniq)
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var addr string
		var c domain.Coordinates
		if err := rows.Scan(&addr, &c.Lon, &c.Lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[addr] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// PutMany stores address -> coordinate mappings in one transaction.
func (s *GeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.dialect.upsert)
	if err != nil {
		return fmt.Errorf("put geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	fetched := s.dialect.stamp(s.now())
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return errors.New("put geocode cache: empty address key")
		}
		if !c.Valid() {
			return fmt.Errorf("put geocode cache %q: coordinates out of range", addr)
		}
		if _, err := stmt.ExecContext(ctx, addr, c.Lon, c.Lat, fetched); err != nil {
			return fmt.Errorf("put geocode cache %q: %w", addr, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put geocode cache: commit: %w", err)
	}
	return nil
}

// Purge deletes addresses geocoded before cutoff, so moved or renamed places are looked up again.
func (s *GeocodeCache) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("geocode cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.dialect.purge, s.dialect.stamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("purge geocode cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge geocode cache: rows affected: %w", err)
	}
	return n, nil
}
