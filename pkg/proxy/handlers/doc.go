// Package handlers implements the gateway's HTTP endpoints.
//
//   - POST /api/chat           ChatHandler
//   - POST /api/chat/stream    StreamHandler (server-sent events)
//   - GET  /api/health         HealthHandler
//   - GET  /api/models         ModelsHandler
//   - POST /api/cache/clear    CacheClearHandler
//
// Chat and stream requests are decoded, validated and checked against the
// chat rate limiter, in that order, before the chat service is called.
// Upstream failures never surface raw: clients receive the chat type's
// fallback text and the detail goes to the log.
package handlers
