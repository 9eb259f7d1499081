package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"fud-buddy/gateway/pkg/limits"
	"fud-buddy/gateway/pkg/limits/ratelimit"
	"fud-buddy/gateway/pkg/proxy"
	"fud-buddy/gateway/pkg/proxy/types"
)

// RateLimit admits requests through limiter, keyed by the identity stored
// by ClientIdentity. Rejected requests get a 429 and never reach next.
func RateLimit(limiter *limits.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Admit(r.Context(), w, limiter) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admit checks limiter for the request's client. It sets the rate limit
// headers and, on rejection, writes the 429 response and returns false.
func Admit(ctx context.Context, w http.ResponseWriter, limiter *limits.Limiter) bool {
	client := Client(ctx)
	result := limiter.Allow(client)
	SetRateLimitHeaders(w, result)

	if result.Allowed {
		return true
	}

	err := &limits.LimitError{
		Limiter:    limiter.Name(),
		Identity:   client,
		RetryAfter: result.RetryAfter,
	}
	slog.WarnContext(ctx, "rate limit exceeded",
		"limiter", err.Limiter,
		"retry_after_s", limits.RetryAfterSeconds(err.RetryAfter),
	)
	WriteRateLimited(w, err)
	return false
}

// SetRateLimitHeaders describes the caller's budget in the current window.
func SetRateLimitHeaders(w http.ResponseWriter, result ratelimit.CheckResult) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
	if !result.Reset.IsZero() {
		h.Set("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))
	}
}

// WriteRateLimited writes the 429 body and Retry-After header for err.
func WriteRateLimited(w http.ResponseWriter, err *limits.LimitError) {
	secs := limits.RetryAfterSeconds(err.RetryAfter)
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	_ = proxy.WriteError(w, types.NewRateLimitError(secs))
}
