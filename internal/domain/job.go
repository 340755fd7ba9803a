package domain

import "time"

// JobStatus enumerates extraction job lifecycle states.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the status is a final lifecycle state. A job
// transitions from PROCESSING to exactly one terminal status and never
// regresses.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ExtractionJob is one text-to-graph extraction request. The orchestrator
// creates the row in PROCESSING state, the worker writes it once to a
// terminal state, and the polling side reads it idempotently.
type ExtractionJob struct {
	ID           string
	Status       JobStatus
	Text         string
	Result       string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
