// Package apiserver provides the JSON API HTTP server implementation
package apiserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/config"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/http/handlers"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/http/middleware"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/monitoring"
	"github.com/richisen/smart-grocery-planner/internal/ports/inbound"
	"github.com/richisen/smart-grocery-planner/pkg/healthcheck"
	"go.uber.org/zap"
)

// Server represents the JSON API HTTP server
type Server struct {
	config         *config.Config
	logger         *zap.Logger
	server         *http.Server
	router         *chi.Mux
	plannerService inbound.PlannerService
	listService    inbound.ShoppingListService
	metrics        *monitoring.Metrics
	health         *healthcheck.HealthCheck
}

// NewServer creates a new API server instance
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	plannerService inbound.PlannerService,
	listService inbound.ShoppingListService,
	metrics *monitoring.Metrics,
	health *healthcheck.HealthCheck,
) *Server {
	server := &Server{
		config:         cfg,
		logger:         log,
		plannerService: plannerService,
		listService:    listService,
		metrics:        metrics,
		health:         health,
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures the JSON API routes
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Compress(5))

	r.Get("/health", s.health.Handler())
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Generation calls can take well over the default timeout
		r.Use(chimiddleware.Timeout(2 * time.Minute))
		r.Use(middleware.JSONOnly())
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *Server) setupAPIV1Routes(r chi.Router) {
	h := handlers.NewPlannerAPIHandlers(s.plannerService, s.listService, s.logger)

	r.Post("/chat", h.Chat)
	r.Post("/generate-meal-plan", h.GenerateMealPlan)
	r.Post("/generate-shopping-list", h.GenerateShoppingList)
	r.Post("/refine-meal-plan", h.RefineMealPlan)
}

// Start starts the API HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Router returns the configured router, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}
