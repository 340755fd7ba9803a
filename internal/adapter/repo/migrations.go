package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS extraction_jobs (
    id            UUID PRIMARY KEY,
    status        TEXT NOT NULL,
    text          TEXT NOT NULL,
    result        TEXT,
    error_message TEXT NOT NULL DEFAULT '',
    claimed_at    TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_extraction_jobs_claim
    ON extraction_jobs (created_at) WHERE status = 'PROCESSING';

CREATE TABLE IF NOT EXISTS analytics_daily (
    day         TEXT PRIMARY KEY,
    submissions INT NOT NULL DEFAULT 0,
    completed   INT NOT NULL DEFAULT 0,
    failed      INT NOT NULL DEFAULT 0,
    by_country  JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies the schema. Statements are idempotent so both binaries can
// run it at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
