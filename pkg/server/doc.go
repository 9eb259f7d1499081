// Package server assembles the FUD Buddy gateway and runs its HTTP server.
//
// New builds the response cache, the rate limiters, the Ollama client, the
// chat service and the metrics collector from a *config.Config. Start
// serves until its context is canceled and then shuts down gracefully,
// waiting up to server.shutdown_timeout for in-flight requests.
//
// # Routes
//
//   - POST /api/chat: single chat reply
//   - POST /api/chat/stream: chat reply as server-sent events
//   - GET /api/health: upstream reachability, cache size and model
//   - GET /api/models: models installed on the Ollama server
//   - POST /api/cache/clear: empty the response cache
//   - GET /health, /ready, /version: probes
//   - GET /metrics: Prometheus exposition, when enabled
//
// Every /api/ route passes the global rate limiter. The chat routes also
// pass the chat limiter once the body has been validated. A known path
// requested with the wrong method gets a JSON 405; anything else a JSON
// 404.
//
// # Middleware Chain
//
// Outermost first: request ID, client identity, access logging, metrics,
// panic recovery, security headers, User-Agent screening, CORS and the
// request deadline.
//
// # Background Work
//
// While running, the server sweeps expired cache entries and idle rate
// limit windows on cron schedules, probes Ollama health with backoff and,
// when started WithConfigPath, reloads the log level and upstream timeout
// whenever the configuration file changes.
package server
