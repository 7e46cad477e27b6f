// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"mergington-activities/internal/common/config"

	_ "github.com/lib/pq"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresClient wraps the SQL connection used by the enrollment audit log.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a PostgreSQL pool. It does not dial; call Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}

// EnsureAuditTable creates the append-only enrollment audit table if missing.
func EnsureAuditTable(ctx context.Context, db *sql.DB, table string) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("invalid audit table name %q", table)
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			event_type  TEXT NOT NULL,
			activity    TEXT NOT NULL,
			email       TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		)`, table))
	if err != nil {
		return fmt.Errorf("create audit table: %w", err)
	}
	return nil
}

// ValidIdentifier reports whether name is safe to interpolate as a table name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}
