package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"litgraph/internal/domain"
	"litgraph/internal/graphview"
)

// ErrPollLimit is returned by WaitForResult when the attempt budget is
// exhausted before the job reaches a terminal state.
var ErrPollLimit = errors.New("poll attempt limit reached")

// Options tune orchestrator behavior.
type Options struct {
	// MaxTextChars caps the stored copy of the submitted text.
	MaxTextChars int
	// PollInterval is the delay between status reads in WaitForResult.
	PollInterval time.Duration
	// MaxPollAttempts bounds WaitForResult; 0 means poll until the context
	// is done.
	MaxPollAttempts int
	Logger          zerolog.Logger
}

// Orchestrator owns the client-facing half of the job lifecycle: it creates
// PROCESSING rows, notifies the worker, and polls rows to resolution. It
// never writes a terminal status; that is the worker's single-writer duty.
type Orchestrator struct {
	jobs            domain.JobRepository
	publisher       Publisher
	maxTextChars    int
	pollInterval    time.Duration
	maxPollAttempts int
	logger          zerolog.Logger
}

// NewOrchestrator wires an orchestrator. publisher may be nil when a
// store-polling worker picks jobs up on its own.
func NewOrchestrator(repo domain.JobRepository, publisher Publisher, opts Options) *Orchestrator {
	if opts.MaxTextChars <= 0 {
		opts.MaxTextChars = 20000
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	return &Orchestrator{
		jobs:            repo,
		publisher:       publisher,
		maxTextChars:    opts.MaxTextChars,
		pollInterval:    opts.PollInterval,
		maxPollAttempts: opts.MaxPollAttempts,
		logger:          opts.Logger,
	}
}

// CreateJob stores a PROCESSING row for the submitted text and notifies the
// worker. The stored copy may be truncated; the event carries the full text.
func (o *Orchestrator) CreateJob(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", domain.ErrEmptyText
	}

	job := &domain.ExtractionJob{
		ID:     uuid.NewString(),
		Status: domain.JobStatusProcessing,
		Text:   truncateRunes(trimmed, o.maxTextChars),
	}
	if err := o.jobs.Create(ctx, job); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	o.logger.Info().Str("job_id", job.ID).Int("text_chars", len(trimmed)).Msg("jobs: created")

	if o.publisher != nil {
		if err := o.publisher.Publish(ctx, JobCreated{ID: job.ID, Text: trimmed}); err != nil {
			// The row stays PROCESSING; a store-polling worker or a retry
			// can still pick it up.
			o.logger.Error().Err(err).Str("job_id", job.ID).Msg("jobs: publish failed")
			return job.ID, fmt.Errorf("notify worker: %w", err)
		}
	}
	return job.ID, nil
}

// JobStatusView is a point-in-time read of one job's lifecycle state.
type JobStatusView struct {
	Status       domain.JobStatus
	Result       string
	ErrorMessage string
}

// PollJob reads a job without side effects.
func (o *Orchestrator) PollJob(ctx context.Context, jobID string) (*JobStatusView, error) {
	job, err := o.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return &JobStatusView{
		Status:       job.Status,
		Result:       job.Result,
		ErrorMessage: job.ErrorMessage,
	}, nil
}

// JobOutcome is the resolved end state of a job. Result holds the decoded
// envelope on COMPLETED.
type JobOutcome struct {
	Status       domain.JobStatus
	Result       any
	ErrorMessage string
}

// WaitForResult polls the job on a fixed interval until it reaches a
// terminal state. Transient read failures keep the loop alive; only an
// unknown id, a terminal read, context cancellation, or the attempt budget
// stop it. On COMPLETED the stored result is unwrapped through repeated
// string decoding before being returned.
func (o *Orchestrator) WaitForResult(ctx context.Context, jobID string) (*JobOutcome, error) {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		view, err := o.PollJob(ctx, jobID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, err
		case err != nil:
			o.logger.Warn().Err(err).Str("job_id", jobID).Msg("jobs: poll failed, retrying")
		case view.Status.Terminal():
			return o.resolve(jobID, view)
		}

		attempts++
		if o.maxPollAttempts > 0 && attempts >= o.maxPollAttempts {
			return nil, fmt.Errorf("%w: %s after %d attempts", ErrPollLimit, jobID, attempts)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) resolve(jobID string, view *JobStatusView) (*JobOutcome, error) {
	outcome := &JobOutcome{Status: view.Status, ErrorMessage: view.ErrorMessage}
	if view.Status != domain.JobStatusCompleted {
		return outcome, nil
	}
	decoded, err := graphview.DecodeResult(view.Result)
	if err != nil {
		return nil, fmt.Errorf("job %s completed with undecodable result: %w", jobID, err)
	}
	outcome.Result = decoded
	return outcome, nil
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
