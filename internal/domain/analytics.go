package domain

import "time"

// AnalyticsDaily aggregates per-day submission counters.
type AnalyticsDaily struct {
	Day         string
	Submissions int
	Completed   int
	Failed      int
	ByCountry   map[string]int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Counter keys accepted by AnalyticsRepository.IncrementCounters.
const (
	CounterSubmissions = "submissions"
	CounterCompleted   = "completed"
	CounterFailed      = "failed"
)
