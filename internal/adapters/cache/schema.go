package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS leg_cache (
        request_key TEXT PRIMARY KEY,
        legs_json TEXT NOT NULL,
        fetched_at INTEGER NOT NULL
    );
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_leg_cache_fetched_at
    ON leg_cache(fetched_at);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL,
        fetched_at INTEGER NOT NULL DEFAULT 0
    );
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS leg_cache (
        request_key TEXT PRIMARY KEY,
        legs_json JSONB NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_leg_cache_fetched_at
    ON leg_cache(fetched_at);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`,
}

// InitSQLiteSchema creates the cache tables in a SQLite database.
func InitSQLiteSchema(db *sql.DB) error {
	return initSchema(db, sqliteSchema)
}

// InitPostgresSchema creates the cache tables in a Postgres database.
func InitPostgresSchema(db *sql.DB) error {
	return initSchema(db, postgresSchema)
}

func initSchema(db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
