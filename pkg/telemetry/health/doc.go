// Package health provides liveness and readiness probes.
//
// Liveness (/health) only confirms the process is serving. Readiness
// (/ready) runs every registered check concurrently, each under its own
// timeout, and answers 503 when any of them fails. The gateway registers
// an "ollama" check backed by the upstream tag listing and a "config"
// check confirming a configuration is loaded.
package health
