// Package rest wires the retrieval engine's HTTP surface.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"contextgraph/application/services"
	"contextgraph/domain/config"
	"contextgraph/interfaces/http/rest/handlers"
	"contextgraph/interfaces/http/rest/middleware"
	"contextgraph/internal/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	service  *services.ContextService
	defaults *config.ScoringConfig
	metrics  *observability.Collector
	logger   *zap.Logger

	enableCORS bool
}

// NewRouter creates a new router instance
func NewRouter(
	service *services.ContextService,
	defaults *config.ScoringConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
	enableCORS bool,
) *Router {
	return &Router{
		service:    service,
		defaults:   defaults,
		metrics:    metrics,
		logger:     logger,
		enableCORS: enableCORS,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-User-ID", "X-User-Role", "X-Tenant-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check and metrics
	router.Get("/health", rt.healthCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.UserContext())
		r.Use(middleware.CircuitBreaker(middleware.DefaultCircuitBreakerConfig("api"), rt.logger))

		contextHandler := handlers.NewContextHandler(rt.service, rt.logger)
		r.Route("/context", func(r chi.Router) {
			r.Put("/", contextHandler.SetContext)
			r.Patch("/", contextHandler.UpdateContext)
			r.Get("/", contextHandler.GetContext)
			r.Get("/history", contextHandler.GetContextHistory)
			r.Post("/focus", contextHandler.AddFocusEntity)
			r.Delete("/focus", contextHandler.RemoveFocusEntity)
		})

		queryHandler := handlers.NewQueryHandler(rt.service, rt.defaults, rt.logger)
		r.Get("/subgraph", queryHandler.GetSubgraph)
		r.Get("/entities/{entityID}/neighborhood", queryHandler.GetNeighborhood)
		r.Get("/paths", queryHandler.FindPaths)
		r.Get("/scores/{entityID}", queryHandler.GetScore)
		r.Post("/task-entities", queryHandler.GetTaskRelevantEntities)
		r.Get("/audit-logs", queryHandler.GetAuditLogs)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
