package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"litgraph/internal/domain"
	"litgraph/internal/jobs"
)

// App bundles handler dependencies.
type App struct {
	Orchestrator *jobs.Orchestrator
	Analytics    domain.AnalyticsRepository
	Logger       zerolog.Logger
}

// NewApp builds the handler container. analytics may be nil.
func NewApp(orchestrator *jobs.Orchestrator, analytics domain.AnalyticsRepository, logger zerolog.Logger) *App {
	return &App{Orchestrator: orchestrator, Analytics: analytics, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) fail(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]any{"ok": false, "message": message})
}
