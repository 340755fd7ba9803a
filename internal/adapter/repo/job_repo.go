package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"litgraph/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository on PostgreSQL.
type JobRepositoryPG struct {
	pool            *pgxpool.Pool
	redeliveryAfter time.Duration
}

// NewJobRepository creates a job repository backed by PostgreSQL.
// redeliveryAfter controls when a claimed-but-unresolved job becomes
// claimable again.
func NewJobRepository(pool *pgxpool.Pool, redeliveryAfter time.Duration) *JobRepositoryPG {
	if redeliveryAfter <= 0 {
		redeliveryAfter = 5 * time.Minute
	}
	return &JobRepositoryPG{pool: pool, redeliveryAfter: redeliveryAfter}
}

// Create inserts a new extraction job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.ExtractionJob) error {
	query := `
INSERT INTO extraction_jobs (id, status, text, result, error_message)
VALUES ($1, $2, $3, $4, $5);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Status,
		job.Text,
		nullableString(job.Result),
		job.ErrorMessage,
	)
	return err
}

// UpdateStatus writes the job's terminal state and optionally error/result payloads.
func (r *JobRepositoryPG) UpdateStatus(ctx context.Context, jobID string, status domain.JobStatus, errMsg *string, result []byte) error {
	query := `
UPDATE extraction_jobs
SET status = $2,
    updated_at = NOW(),
    error_message = COALESCE($3, error_message),
    result = COALESCE($4, result)
WHERE id = $1;
`
	_, err := r.pool.Exec(ctx, query, jobID, status, errMsg, nullableString(string(result)))
	return err
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.ExtractionJob, error) {
	query := `
SELECT id, status, text, COALESCE(result, ''), error_message, created_at, updated_at
FROM extraction_jobs
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, jobID)
	var job domain.ExtractionJob
	if err := row.Scan(
		&job.ID,
		&job.Status,
		&job.Text,
		&job.Result,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ClaimNext hands out the oldest claimable PROCESSING job. Rows claimed but
// not resolved within the redelivery window are handed out again.
func (r *JobRepositoryPG) ClaimNext(ctx context.Context) (*domain.ExtractionJob, error) {
	query := `
WITH next_job AS (
    SELECT id
    FROM extraction_jobs
    WHERE status = 'PROCESSING'
      AND (claimed_at IS NULL OR claimed_at < NOW() - make_interval(secs => $1))
    ORDER BY created_at ASC
    FOR UPDATE SKIP LOCKED
    LIMIT 1
),
claimed AS (
    UPDATE extraction_jobs
    SET claimed_at = NOW()
    WHERE id IN (SELECT id FROM next_job)
    RETURNING id, status, text, COALESCE(result, ''), error_message, created_at, updated_at
)
SELECT * FROM claimed;
`
	row := r.pool.QueryRow(ctx, query, r.redeliveryAfter.Seconds())
	var job domain.ExtractionJob
	if err := row.Scan(
		&job.ID,
		&job.Status,
		&job.Text,
		&job.Result,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
