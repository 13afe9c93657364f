// Package http assembles the AgreemShield HTTP surface: the chi route tree,
// the middleware chain, and the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/prometheus"
	"github.com/agreemshield/agreemshield/internal/interfaces/http/handlers"
	"github.com/agreemshield/agreemshield/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	// Handlers
	AnalysisHandler *handlers.AnalysisHandler
	ChatHandler     *handlers.ChatHandler
	AdvisoryHandler *handlers.AdvisoryHandler
	HealthHandler   *handlers.HealthHandler

	// Middleware
	CORS        *middleware.CORSConfig
	RateLimiter *middleware.ClientRateLimiter
	RateLimit   middleware.RateLimitConfig

	// Infrastructure
	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	AppMetrics       *prometheus.AppMetrics
}

// NewRouter constructs the complete HTTP route tree from the given
// configuration. It wires global middleware, public probe endpoints, and
// the /api/v1 resource groups into a single http.Handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.AppMetrics != nil {
		r.Use(middleware.Metrics(cfg.AppMetrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit))
	}

	// Probes, outside the rate limit and API groups.
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerAnalysisRoutes(api, cfg.AnalysisHandler)
		registerAssistantRoutes(api, cfg.ChatHandler, cfg.AdvisoryHandler)
	})

	return r
}

// registerAnalysisRoutes mounts the analysis pipeline endpoints.
func registerAnalysisRoutes(r chi.Router, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	r.Route("/analyses", func(ar chi.Router) {
		ar.Post("/", h.Create)
		ar.Get("/", h.List)

		ar.Route("/{analysisID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Delete)
		})
	})
	r.Get("/stats", h.Stats)
}

// registerAssistantRoutes mounts the chat and advisory endpoints.
func registerAssistantRoutes(r chi.Router, chat *handlers.ChatHandler, advisory *handlers.AdvisoryHandler) {
	if chat != nil {
		r.Post("/chat", chat.Chat)
	}
	if advisory != nil {
		r.Post("/benchmark", advisory.Benchmark)
		r.Post("/comparisons", advisory.Compare)
		r.Post("/compliance/check", advisory.CheckCompliance)
	}
}
