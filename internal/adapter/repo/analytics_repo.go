package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"litgraph/internal/domain"
)

// AnalyticsRepositoryPG implements domain.AnalyticsRepository using PostgreSQL.
type AnalyticsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{pool: pool}
}

// IncrementCounters upserts submission metrics for the provided day. When
// country is non-empty its per-country submission count is bumped as well.
func (r *AnalyticsRepositoryPG) IncrementCounters(ctx context.Context, day string, counters map[string]int, country string) error {
	query := `
INSERT INTO analytics_daily (day, submissions, completed, failed, by_country)
VALUES (
    $1, $2, $3, $4,
    CASE WHEN $5 = '' THEN '{}'::jsonb ELSE jsonb_build_object($5::text, 1) END
) ON CONFLICT (day) DO UPDATE SET
    submissions = analytics_daily.submissions + EXCLUDED.submissions,
    completed   = analytics_daily.completed + EXCLUDED.completed,
    failed      = analytics_daily.failed + EXCLUDED.failed,
    by_country  = CASE WHEN $5 = '' THEN analytics_daily.by_country
                  ELSE jsonb_set(
                      analytics_daily.by_country,
                      ARRAY[$5::text],
                      to_jsonb(COALESCE((analytics_daily.by_country->>$5)::int, 0) + 1)
                  ) END,
    updated_at  = NOW();
`
	_, err := r.pool.Exec(ctx, query,
		day,
		counters[domain.CounterSubmissions],
		counters[domain.CounterCompleted],
		counters[domain.CounterFailed],
		country,
	)
	return err
}

// GetSummary returns the most recent day's aggregated stats.
func (r *AnalyticsRepositoryPG) GetSummary(ctx context.Context) (*domain.AnalyticsDaily, error) {
	row := r.pool.QueryRow(ctx, `
SELECT day, submissions, completed, failed, by_country, created_at, updated_at
FROM analytics_daily
ORDER BY day DESC
LIMIT 1;
`)

	var summary domain.AnalyticsDaily
	if err := row.Scan(
		&summary.Day,
		&summary.Submissions,
		&summary.Completed,
		&summary.Failed,
		&summary.ByCountry,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}
