// internal/storage/client.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
)

// Client wraps the Postgres connection pool.
type Client struct {
	DB *sqlx.DB
}

func Connect(ctx context.Context, cfg *config.Config) (*Client, error) {
	connStr := cfg.DatabaseURL
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return &Client{DB: db}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_runs (
	run_id UUID PRIMARY KEY,
	brand TEXT NOT NULL,
	industry TEXT NOT NULL DEFAULT '',
	total_queries INT NOT NULL,
	branded_count INT NOT NULL,
	generic_count INT NOT NULL,
	branded_mention_rate DOUBLE PRECISION NOT NULL,
	generic_mention_rate DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_competitors (
	id UUID PRIMARY KEY,
	run_id UUID NOT NULL REFERENCES audit_runs(run_id) ON DELETE CASCADE,
	rank INT NOT NULL,
	brand_name TEXT NOT NULL,
	mention_count INT NOT NULL,
	mention_rate DOUBLE PRECISION NOT NULL,
	avg_ranking DOUBLE PRECISION NOT NULL,
	detail_score DOUBLE PRECISION NOT NULL,
	sentiment DOUBLE PRECISION NOT NULL,
	competitiveness_score DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_gap_clusters (
	id UUID PRIMARY KEY,
	run_id UUID NOT NULL REFERENCES audit_runs(run_id) ON DELETE CASCADE,
	competitor_name TEXT NOT NULL,
	theme TEXT NOT NULL,
	query_count INT NOT NULL,
	avg_gap_size DOUBLE PRECISION NOT NULL,
	priority_score DOUBLE PRECISION NOT NULL,
	affected_queries JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_recommendations (
	id UUID PRIMARY KEY,
	run_id UUID NOT NULL REFERENCES audit_runs(run_id) ON DELETE CASCADE,
	priority_rank INT NOT NULL,
	theme TEXT NOT NULL,
	competitor_name TEXT NOT NULL,
	impact TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	potential_improvement_pct DOUBLE PRECISION NOT NULL,
	actions JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_competitors_run ON audit_competitors(run_id);
CREATE INDEX IF NOT EXISTS idx_audit_gap_clusters_run ON audit_gap_clusters(run_id);
CREATE INDEX IF NOT EXISTS idx_audit_recommendations_run ON audit_recommendations(run_id);
`

// EnsureSchema creates the audit tables when missing. Idempotent, run at
// startup.
func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
