package middleware

import (
	"context"
	"net/http"

	"fud-buddy/gateway/pkg/limits"
	"fud-buddy/gateway/pkg/telemetry/logging"
)

// ClientIdentity resolves the client's origin key once per request and
// stores it in the context. Proxy headers are consulted when trustProxy
// is set.
func ClientIdentity(trustProxy bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := limits.ClientIdentity(r, trustProxy)
			if id == "" {
				id = limits.UnknownIdentity
			}
			next.ServeHTTP(w, r.WithContext(logging.WithClient(r.Context(), id)))
		})
	}
}

// Client returns the identity stored by ClientIdentity, or
// limits.UnknownIdentity.
func Client(ctx context.Context) string {
	if id := logging.GetClient(ctx); id != "" {
		return id
	}
	return limits.UnknownIdentity
}
