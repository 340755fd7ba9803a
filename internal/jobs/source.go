package jobs

import (
	"context"
	"errors"
	"time"

	"litgraph/internal/domain"
)

// JobCreated is the notification emitted when a new extraction job row is
// inserted.
type JobCreated struct {
	ID   string
	Text string
}

// EventSource delivers job-created events to a worker. Adapters decide the
// transport; only insert-type events may be delivered, and consumers must
// tolerate the same job arriving more than once.
type EventSource interface {
	Next(ctx context.Context) (JobCreated, error)
}

// Publisher is the producing half of an event source.
type Publisher interface {
	Publish(ctx context.Context, ev JobCreated) error
}

// ChannelSource is an in-process adapter connecting the orchestrator
// directly to a worker running in the same binary.
type ChannelSource struct {
	ch chan JobCreated
}

// NewChannelSource creates a buffered in-process event source.
func NewChannelSource(buffer int) *ChannelSource {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChannelSource{ch: make(chan JobCreated, buffer)}
}

// Publish enqueues one event, blocking until the worker has capacity or the
// context is done.
func (s *ChannelSource) Publish(ctx context.Context, ev JobCreated) error {
	select {
	case s.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next blocks until an event is available or the context is done.
func (s *ChannelSource) Next(ctx context.Context) (JobCreated, error) {
	select {
	case ev := <-s.ch:
		return ev, nil
	case <-ctx.Done():
		return JobCreated{}, ctx.Err()
	}
}

// StoreSource adapts the job store itself into an event source: it polls
// for unclaimed PROCESSING rows, which lets a worker binary run without a
// broker between it and the API. Claim redelivery in the repository gives
// the at-least-once behavior consumers already tolerate.
type StoreSource struct {
	repo     domain.JobRepository
	interval time.Duration
}

// NewStoreSource creates a store-backed event source polling at the given
// interval.
func NewStoreSource(repo domain.JobRepository, interval time.Duration) *StoreSource {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &StoreSource{repo: repo, interval: interval}
}

// Next claims the oldest available job, sleeping between empty polls.
func (s *StoreSource) Next(ctx context.Context) (JobCreated, error) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		job, err := s.repo.ClaimNext(ctx)
		if err == nil {
			return JobCreated{ID: job.ID, Text: job.Text}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return JobCreated{}, err
		}
		select {
		case <-ctx.Done():
			return JobCreated{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
