package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// OpenDB opens and pings the database. For SQLite, dsn is a file path (or
// ":memory:") and the parent directory is created if needed.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
			dsn += "?_journal_mode=WAL&_busy_timeout=5000"
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// One writer at a time; an in-memory database also only exists per connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

var schemas = map[string]string{
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title VARCHAR(100) NOT NULL,
			amount REAL NOT NULL,
			category VARCHAR(50) NOT NULL,
			type VARCHAR(10) NOT NULL,
			date DATETIME NOT NULL
		)`,
	DriverPostgres: `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			category VARCHAR(50) NOT NULL,
			type VARCHAR(10) NOT NULL,
			date TIMESTAMPTZ NOT NULL
		)`,
}

// EnsureSchema creates the transactions table if it does not exist. It runs
// once at startup, before the server accepts requests.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	ddl, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver: %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create transactions table: %w", err)
	}
	return nil
}
