package domain

import "context"

// JobRepository defines persistence for extraction jobs.
type JobRepository interface {
	Create(ctx context.Context, job *ExtractionJob) error
	UpdateStatus(ctx context.Context, jobID string, status JobStatus, errMsg *string, result []byte) error
	GetByID(ctx context.Context, jobID string) (*ExtractionJob, error)
	// ClaimNext hands out the oldest unclaimed PROCESSING job, marking it
	// claimed so concurrent workers skip it. Returns ErrNotFound when no
	// job is available. Jobs claimed but never resolved become claimable
	// again after a redelivery window, so consumers see at-least-once
	// delivery.
	ClaimNext(ctx context.Context) (*ExtractionJob, error)
}

// AnalyticsRepository updates daily submission counters. Country may be
// empty when the submitter's origin is unknown.
type AnalyticsRepository interface {
	IncrementCounters(ctx context.Context, day string, counters map[string]int, country string) error
	GetSummary(ctx context.Context) (*AnalyticsDaily, error)
}
