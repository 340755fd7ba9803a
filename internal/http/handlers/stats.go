package handlers

import (
	"errors"
	"net/http"

	"litgraph/internal/domain"
)

// StatsSummary returns the most recent day's submission counters.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	if a.Analytics == nil {
		a.fail(w, http.StatusNotFound, "stats not configured")
		return
	}

	summary, err := a.Analytics.GetSummary(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		summary = &domain.AnalyticsDaily{ByCountry: map[string]int{}}
	} else if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: stats summary failed")
		a.fail(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"ok":          true,
		"day":         summary.Day,
		"submissions": summary.Submissions,
		"completed":   summary.Completed,
		"failed":      summary.Failed,
		"byCountry":   summary.ByCountry,
	})
}
