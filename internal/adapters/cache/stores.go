package cache

import (
	"database/sql"
	"fmt"
	"goal-route-service/internal/platform/db"
	"goal-route-service/internal/ports"
)

// Stores are the cache tables of one database.
type Stores struct {
	DB       *sql.DB
	Driver   string
	Legs     ports.LegCache
	Geocodes *GeocodeCache
}

// Open connects to Postgres when databaseURL is set, otherwise to SQLite at
// sqlitePath, and makes sure the cache schema exists.
func Open(databaseURL, sqlitePath string) (*Stores, error) {
	if databaseURL != "" {
		conn, err := db.Open(databaseURL)
		if err != nil {
			return nil, err
		}
		if err := InitPostgresSchema(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return &Stores{
			DB:       conn,
			Driver:   "postgres",
			Legs:     NewSQLLegCache(conn),
			Geocodes: NewSQLGeocodeCache(conn),
		}, nil
	}

	conn, err := db.OpenSQLite(sqlitePath)
	if err != nil {
		return nil, err
	}
	if err := InitSQLiteSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Stores{
		DB:       conn,
		Driver:   "sqlite",
		Legs:     NewSqliteLegCache(conn),
		Geocodes: NewSqliteGeocodeCache(conn),
	}, nil
}

func (s *Stores) Close() error {
	return s.DB.Close()
}
