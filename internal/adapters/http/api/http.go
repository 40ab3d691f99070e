// Package api declares HTTP contracts and route registration helpers for
// the upload-handling shell around the scoring engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/swinglabs/fourb/internal/adapters/repository"
	"github.com/swinglabs/fourb/internal/domain/dedupe"
	"github.com/swinglabs/fourb/internal/domain/model"
	"github.com/swinglabs/fourb/internal/domain/profile"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// EnqueueImport pushes a CSV import for async processing. Returns false
	// on backpressure.
	EnqueueImport(ctx context.Context, job model.ImportJob) bool

	// AggregateBiomech synchronously folds a sample batch into the session
	// report.
	AggregateBiomech(ctx context.Context, sessionID string, samples []model.BiomechanicalSample) (model.CategoryScores, model.Categoricals, error)

	// AnalyzeSwing runs classification and ceiling projection on one swing.
	AnalyzeSwing(ctx context.Context, bundle profile.MetricBundle) (model.MotorProfile, model.CeilingProjection, []string)

	// Report assembles the session report.
	Report(ctx context.Context, sessionID string) (model.SessionReport, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	importsHandler *ImportsHandler
	biomechHandler *BiomechHandler
	analyzeHandler *AnalyzeHandler
	reportHandler  *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		importsHandler: NewImportsHandler(deps),
		biomechHandler: NewBiomechHandler(deps),
		analyzeHandler: NewAnalyzeHandler(deps),
		reportHandler:  NewReportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/imports", MetricsMiddleware(s.importsHandler.HandlePostImport, "imports"))
	mux.HandleFunc("/v1/sessions/", MetricsMiddleware(s.sessionRouter, "sessions"))
	mux.HandleFunc("/v1/swings/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
}

// sessionRouter dispatches /v1/sessions/{id}/biomech and
// /v1/sessions/{id}/report.
func (s *Server) sessionRouter(w http.ResponseWriter, r *http.Request) {
	sessionID, rest, ok := splitSessionPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownRoute)
		return
	}
	switch rest {
	case "biomech":
		s.biomechHandler.HandlePostBiomech(w, r, sessionID)
	case "report":
		s.reportHandler.HandleGetReport(w, r, sessionID)
	default:
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownRoute)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// splitSessionPath extracts the session ID and trailing action from
// /v1/sessions/{id}/{action}.
func splitSessionPath(path string) (sessionID, action string, ok bool) {
	const prefix = "/v1/sessions/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(path, prefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
