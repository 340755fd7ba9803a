package extract

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"litgraph/internal/domain"
	"litgraph/internal/jobs"
)

// Worker resolves extraction jobs: it runs the extractor for each
// job-created event and writes the terminal state back to the store. The
// job row is its only output channel; nothing is thrown to a caller.
type Worker struct {
	jobs      domain.JobRepository
	extractor *Extractor
	analytics domain.AnalyticsRepository
	logger    zerolog.Logger
}

// NewWorker wires a worker. analytics may be nil.
func NewWorker(repo domain.JobRepository, extractor *Extractor, analytics domain.AnalyticsRepository, logger zerolog.Logger) *Worker {
	return &Worker{jobs: repo, extractor: extractor, analytics: analytics, logger: logger}
}

// ProcessJob runs one extraction and writes the job's terminal state. It is
// safe under at-least-once delivery: a duplicate invocation rewrites the
// same row with equivalent data.
func (w *Worker) ProcessJob(ctx context.Context, jobID, text string) {
	if jobID == "" {
		w.logger.Error().Msg("worker: event missing job id, skipping")
		return
	}
	w.logger.Info().Str("job_id", jobID).Msg("worker: processing job")

	if text == "" {
		w.fail(ctx, jobID, "missing input text")
		return
	}

	envelope, err := w.extractor.ExtractGraph(ctx, text)
	if err != nil {
		w.fail(ctx, jobID, err.Error())
		return
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		w.fail(ctx, jobID, "encode result: "+err.Error())
		return
	}

	if err := w.jobs.UpdateStatus(ctx, jobID, domain.JobStatusCompleted, nil, payload); err != nil {
		w.logger.Error().Err(err).Str("job_id", jobID).Msg("worker: write completed status failed")
		return
	}
	w.bump(ctx, domain.CounterCompleted)
	w.logger.Info().Str("job_id", jobID).Msg("worker: job completed")
}

func (w *Worker) fail(ctx context.Context, jobID, message string) {
	if err := w.jobs.UpdateStatus(ctx, jobID, domain.JobStatusFailed, &message, nil); err != nil {
		w.logger.Error().Err(err).Str("job_id", jobID).Msg("worker: write failed status failed")
		return
	}
	w.bump(ctx, domain.CounterFailed)
	w.logger.Error().Str("job_id", jobID).Str("reason", message).Msg("worker: job failed")
}

func (w *Worker) bump(ctx context.Context, counter string) {
	if w.analytics == nil {
		return
	}
	day := time.Now().UTC().Format("2006-01-02")
	if err := w.analytics.IncrementCounters(ctx, day, map[string]int{counter: 1}, ""); err != nil {
		w.logger.Warn().Err(err).Str("counter", counter).Msg("worker: analytics update failed")
	}
}

// Run consumes job-created events until the context is cancelled.
func (w *Worker) Run(ctx context.Context, source jobs.EventSource) error {
	w.logger.Info().Msg("worker: started")
	for {
		ev, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			w.logger.Error().Err(err).Msg("worker: event source failed")
			return err
		}
		w.ProcessJob(ctx, ev.ID, ev.Text)
	}
}
