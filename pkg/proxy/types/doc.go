// Package types defines the JSON bodies the gateway writes.
//
// Response types:
//   - ChatResponse: successful /api/chat reply
//   - HealthResponse: /api/health status
//   - ModelsResponse: /api/models listing
//   - CacheClearResponse: /api/cache/clear acknowledgement
//   - ContentRecord: one streamed content record
//
// Error types:
//   - ValidationErrorResponse: 400 with per-field details
//   - RateLimitResponse: 429 with a retry-after hint
//   - FallbackResponse: 500 carrying a usable fallback reply
//   - ErrorResponse: every other error
//
// Timestamps are RFC 3339 strings in UTC.
package types
