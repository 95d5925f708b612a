package middleware

import (
	"net/http"
	"time"
)

// Logging logs the request details. Server errors are logged at WARN.
func (a *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		a.log.Debug(
			r.Context(),
			"started",
			"method", r.Method,
			"URL", r.URL.Path,
			"request-host", r.Host,
		)

		next.ServeHTTP(rw, r)

		args := []any{
			"method", r.Method,
			"URL", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start),
		}
		if rw.statusCode >= http.StatusInternalServerError {
			a.log.Warn(r.Context(), "completed", args...)
			return
		}
		a.log.Debug(r.Context(), "completed", args...)
	})
}
