// Package providers defines the upstream model abstraction used by the
// gateway and the pieces shared by concrete backends: request and response
// types, typed errors and health tracking.
//
// # Overview
//
// A Provider turns a single prompt into a completion, either in one call
// (Generate) or as a stream of deltas (StreamGenerate). It can also list the
// models the backend serves and report whether the backend is reachable.
// The only backend today is Ollama (package providers/ollama).
//
// # Errors
//
// Backends classify every failure into one of the typed errors in this
// package so callers can log a precise reason:
//
//   - ProviderError: transport failure or non-success status
//   - TimeoutError: the bounded wait for the backend elapsed
//   - ParseError: the backend answered with an unusable body
//
// The gateway never forwards these to clients; it substitutes a fallback
// reply and reports a server error instead.
//
// # Health
//
// HealthTracker records the outcome of each call. Three consecutive failures
// mark the provider unhealthy; one success restores it. StartHealthChecker
// runs periodic checks with exponential backoff while unhealthy.
package providers
