// Package middleware provides the gateway's HTTP middleware.
//
// Chain applies middleware so that the first argument is outermost. The
// server uses this order:
//
//	RequestID -> ClientIdentity -> Logging -> Metrics -> Recovery ->
//	SecurityHeaders -> SuspiciousAgents -> CORS -> Timeout -> routes
//
// RequestID and ClientIdentity store their values with the logging package,
// so every slog call made with the request context carries request_id and
// client. The global rate limiter is applied per route by the server, only
// to /api/ paths, through RateLimit.
package middleware
