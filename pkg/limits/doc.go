// Package limits throttles gateway traffic per client identity.
//
// # Overview
//
// Two independent limiters exist, each a fixed window counter per identity:
//
//   - global: applied to every API route as middleware (default 30/minute)
//   - chat: applied to the chat endpoints after validation (default 10/minute)
//
// The Manager owns both limiters and their Prometheus metrics. It is
// constructed once at startup and injected into the HTTP layer.
//
// # Identity
//
// ClientIdentity derives a best-effort key from the request: the first
// X-Forwarded-For entry or X-Real-IP when proxy headers are trusted, else the
// remote address. Requests without any usable signal share the single
// UnknownIdentity bucket.
//
// # Example
//
//	manager := limits.NewManager(limits.Config{
//	    Global: ratelimit.Config{MaxRequests: 30, Window: time.Minute},
//	    Chat:   ratelimit.Config{MaxRequests: 10, Window: time.Minute},
//	}, registry)
//
//	result := manager.Chat().Allow(limits.ClientIdentity(r, true))
//	if !result.Allowed {
//	    // respond 429 with result.RetryAfter
//	}
//
// # Housekeeping
//
// Identities whose window has elapsed are dropped by Manager.Sweep, which the
// cache sweeper calls on its schedule. Sweeping only frees memory; an expired
// window already behaves like a fresh one.
package limits
