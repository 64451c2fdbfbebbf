// Package server provides the HTTP server for the consultation API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/myones/formulary/internal/infrastructure/config"
	"github.com/myones/formulary/internal/infrastructure/http/handlers"
	"github.com/myones/formulary/internal/infrastructure/http/middleware"
	"github.com/myones/formulary/internal/ports/inbound"
	"github.com/myones/formulary/internal/ports/outbound"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *chi.Mux
	server   *http.Server
	handlers *handlers.APIHandlers
	ai       outbound.AIService
	registry *prometheus.Registry
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	consultations inbound.ConsultationService,
	validator inbound.FormulaValidator,
	repo outbound.FormulaRepository,
	aiService outbound.AIService,
	registry *prometheus.Registry,
) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger.Named("http"),
		handlers: handlers.NewAPIHandlers(consultations, validator, repo, aiService, logger),
		ai:       aiService,
		registry: registry,
	}

	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))

	if s.config.RateLimit.Enable {
		r.Use(middleware.RateLimit(s.config.RateLimit.RequestsPerMin, s.config.RateLimit.BurstSize))
	}

	if s.config.Monitoring.EnableMetrics {
		httpMetrics := middleware.NewMetrics(s.registry)
		r.Use(httpMetrics.Handler())
		r.Handle(s.config.Monitoring.MetricsPath, promhttp.HandlerFor(
			s.registry,
			promhttp.HandlerOpts{EnableOpenMetrics: true},
		))
	}

	r.Get(s.config.Monitoring.HealthCheckPath, s.handleHealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/consultations/messages", s.handlers.HandleConsultationMessage)
		r.Route("/formulas", func(r chi.Router) {
			r.Post("/validate", s.handlers.HandleValidateFormula)
			r.Get("/current", s.handlers.HandleCurrentFormula)
			r.Get("/history", s.handlers.HandleFormulaHistory)
		})
	})

	return r
}

// handleHealthCheck reports service liveness and the AI provider's
// reachability. A slow or unreachable provider degrades the report but
// does not fail it; the engine keeps validating without the assistant.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	aiStatus := "ok"
	if err := s.ai.HealthCheck(ctx); err != nil {
		aiStatus = "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"version": s.config.App.Version,
		"checks": map[string]string{
			"ai_provider": aiStatus,
		},
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
