package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"litgraph/internal/domain"
	"litgraph/internal/jobs"
	"litgraph/internal/middleware"
)

type extractRequest struct {
	Text string `json:"text"`
}

// StartExtract creates an extraction job and returns its id for polling.
func (a *App) StartExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobID, err := a.Orchestrator.CreateJob(r.Context(), req.Text)
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		a.fail(w, http.StatusBadRequest, "text is required")
		return
	case err != nil:
		a.Logger.Error().Err(err).Msg("handlers: create job failed")
		a.fail(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	a.recordSubmission(r)
	a.json(w, http.StatusOK, map[string]any{"ok": true, "jobId": jobID})
}

// ExtractStatus reports one job's lifecycle state.
func (a *App) ExtractStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		a.fail(w, http.StatusBadRequest, "id is required")
		return
	}

	view, err := a.Orchestrator.PollJob(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.fail(w, http.StatusNotFound, "job not found")
		return
	case err != nil:
		a.Logger.Error().Err(err).Str("job_id", id).Msg("handlers: get job failed")
		a.fail(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"ok":           true,
		"status":       view.Status,
		"result":       view.Result,
		"errorMessage": view.ErrorMessage,
	})
}

// Extract is the synchronous convenience path: create a job and block until
// it resolves, then return the result envelope directly.
func (a *App) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobID, err := a.Orchestrator.CreateJob(r.Context(), req.Text)
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		a.fail(w, http.StatusBadRequest, "text is required")
		return
	case err != nil:
		a.Logger.Error().Err(err).Msg("handlers: create job failed")
		a.fail(w, http.StatusInternalServerError, "failed to create job")
		return
	}
	a.recordSubmission(r)

	outcome, err := a.Orchestrator.WaitForResult(r.Context(), jobID)
	switch {
	case errors.Is(err, jobs.ErrPollLimit), errors.Is(err, context.DeadlineExceeded):
		a.fail(w, http.StatusGatewayTimeout, "extraction timed out")
		return
	case err != nil:
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: wait for result failed")
		a.fail(w, http.StatusInternalServerError, "failed to resolve job")
		return
	}

	if outcome.Status == domain.JobStatusFailed {
		a.json(w, http.StatusOK, map[string]any{"ok": false, "message": outcome.ErrorMessage, "jobId": jobID})
		return
	}
	a.json(w, http.StatusOK, outcome.Result)
}

func (a *App) recordSubmission(r *http.Request) {
	if a.Analytics == nil {
		return
	}
	day := time.Now().UTC().Format("2006-01-02")
	country := middleware.CountryFromContext(r.Context())
	if err := a.Analytics.IncrementCounters(r.Context(), day, map[string]int{domain.CounterSubmissions: 1}, country); err != nil {
		a.Logger.Warn().Err(err).Msg("handlers: analytics update failed")
	}
}
