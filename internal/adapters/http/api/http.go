// Package api serves the JSON contract of the predictor: the form description,
// predictions, health, statistics and metrics.
package api

import (
	"context"
	"net/http"
)

const defaultMaxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Predictor
	FormProvider
	ReadinessProvider
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	metricsHandler   http.Handler
	statsHandler     *StatsHandler
	formHandler      *FormHandler
	predictHandler   *PredictHandler
	dashboardHandler *dashboardHandler
	metricsEnabled   bool
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps the size of prediction request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.predictHandler.maxBodyBytes = n
		}
	}
}

// WithMetrics toggles the /metrics route.
func WithMetrics(enabled bool) Option {
	return func(s *Server) {
		s.metricsEnabled = enabled
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(deps),
		metricsHandler:   NewMetricsHandler(),
		statsHandler:     NewStatsHandler(deps),
		formHandler:      NewFormHandler(deps),
		predictHandler:   NewPredictHandler(deps, defaultMaxBodyBytes),
		dashboardHandler: newDashboardHandler(),
		metricsEnabled:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/api/v1/form", MetricsMiddleware(s.formHandler.HandleGetForm, "form"))
	mux.HandleFunc("/api/v1/predict", MetricsMiddleware(s.predictHandler.HandlePostPredict, "predict"))
	if s.metricsEnabled {
		mux.Handle("/metrics", s.metricsHandler)
	}
}
