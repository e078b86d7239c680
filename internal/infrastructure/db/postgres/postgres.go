package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

const defaultTimeout = 10 * time.Second

// Config captures the connection and pool settings.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MinIdleConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration
}

// Connect opens a pooled connection and verifies it with a ping. A default
// timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MinIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS shipments (
	id            BIGINT PRIMARY KEY,
	tracking_code VARCHAR(32)  NOT NULL UNIQUE,
	customer_name VARCHAR(255) NOT NULL,
	address       VARCHAR(255) NOT NULL,
	province      VARCHAR(64)  NOT NULL,
	status        VARCHAR(255) NOT NULL,
	created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_shipments_created_at ON shipments(created_at);
CREATE INDEX IF NOT EXISTS idx_shipments_province ON shipments(province);
`

// Migrate creates the shipments table and its indexes. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}
