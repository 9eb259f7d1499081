package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder receives per-request metrics.
type RequestRecorder interface {
	RecordRequest(route, method string, status int, duration time.Duration)
}

// Metrics records every request's status and duration. The URL path is
// used as the route label; the recorder bounds its cardinality.
func Metrics(rec RequestRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		if rec == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)
			rec.RecordRequest(r.URL.Path, r.Method, rw.statusCode, time.Since(start))
		})
	}
}
