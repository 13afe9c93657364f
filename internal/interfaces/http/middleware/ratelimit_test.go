package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	limiter := NewClientRateLimiter(1, 3, 0)
	defer limiter.Stop()

	cfg := DefaultRateLimitConfig()
	cfg.RequestsPerSecond = 1
	cfg.Burst = 3
	handler := RateLimit(limiter, cfg)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "COMMON_007")
}

func TestRateLimit_SeparateClientsSeparateBudgets(t *testing.T) {
	limiter := NewClientRateLimiter(1, 1, 0)
	defer limiter.Stop()

	cfg := DefaultRateLimitConfig()
	cfg.Burst = 1
	handler := RateLimit(limiter, cfg)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same client is now exhausted.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client still has its own budget.
	second := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, limiter.ClientCount())
}

func TestRateLimit_SkipPaths(t *testing.T) {
	limiter := NewClientRateLimiter(1, 1, 0)
	defer limiter.Stop()

	cfg := DefaultRateLimitConfig()
	cfg.Burst = 1
	handler := RateLimit(limiter, cfg)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_ProxyHeadersPreferred(t *testing.T) {
	limiter := NewClientRateLimiter(1, 1, 0)
	defer limiter.Stop()

	cfg := DefaultRateLimitConfig()
	cfg.Burst = 1
	handler := RateLimit(limiter, cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Exhausted for the forwarded address regardless of the socket peer.
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	req2.RemoteAddr = "127.0.0.2:8888"
	req2.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
