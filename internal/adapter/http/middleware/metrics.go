package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/fare-predictor/pkg/metrics"
)

// Metrics middleware records HTTP metrics. patternOf resolves the route
// pattern so path parameters do not explode label cardinality.
func (m *Middleware) Metrics(serviceName string, patternOf func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics endpoint to avoid recursion
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
			defer metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			path := "unmatched"
			if patternOf != nil {
				if p := patternOf(r); p != "" {
					path = p
				}
			}
			metrics.RecordHTTPMetrics(serviceName, r.Method, path, rw.statusCode, time.Since(start))
		})
	}
}
