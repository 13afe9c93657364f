package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/prometheus"
)

// Metrics returns middleware that records request counts, latencies, and
// sizes into the application metric set. The chi route pattern is used as
// the path label so per-resource IDs do not explode series cardinality.
func Metrics(metrics *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			path := routePattern(r)
			metrics.HTTPActiveRequests.WithLabelValues(r.Method, path).Inc()
			defer metrics.HTTPActiveRequests.WithLabelValues(r.Method, path).Dec()

			wrapped := newWrappedResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			// The full pattern is only known after routing.
			if resolved := routePattern(r); resolved != "" {
				path = resolved
			}
			prometheus.RecordHTTPRequest(metrics, r.Method, path,
				wrapped.statusCode, time.Since(start), r.ContentLength, wrapped.bytesWritten)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
