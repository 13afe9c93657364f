package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/prometheus"
	"github.com/agreemshield/agreemshield/internal/interfaces/http/handlers"
	"github.com/agreemshield/agreemshield/internal/interfaces/http/middleware"
)

func TestNewRouter_NilHandlersNoPanic(t *testing.T) {
	router := NewRouter(RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRouter_HealthEndpoints(t *testing.T) {
	router := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test"),
		Logger:        logging.NewNopLogger(),
	})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: "routertest",
	}, logging.NewNopLogger())
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		MetricsCollector: collector,
		AppMetrics:       prometheus.NewAppMetrics(collector),
		Logger:           logging.NewNopLogger(),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_RateLimitApplied(t *testing.T) {
	limiter := middleware.NewClientRateLimiter(1, 1, 0)
	defer limiter.Stop()
	cfg := middleware.DefaultRateLimitConfig()
	cfg.Burst = 1

	router := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test"),
		RateLimiter:   limiter,
		RateLimit:     cfg,
		Logger:        logging.NewNopLogger(),
	})

	// API paths consume the per-client budget.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	req.RemoteAddr = "10.1.1.1:1000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.NotEqual(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Probes are exempt.
	probe := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	probe.RemoteAddr = "10.1.1.1:1000"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, probe)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"*"}

	router := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test"),
		CORS:          &cors,
		Logger:        logging.NewNopLogger(),
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
