// Package telemetry groups the gateway's observability packages.
//
//   - logging: slog setup, request-scoped fields and PII redaction
//   - metrics: Prometheus collector and /metrics handler
//   - health: liveness and readiness probes
//
// Each subpackage is constructed explicitly by the server; nothing here
// keeps global state beyond the default slog logger installed by
// logging.Logger.Install.
package telemetry
