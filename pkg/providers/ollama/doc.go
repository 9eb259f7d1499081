// Package ollama implements providers.Provider for an Ollama server using
// the official github.com/ollama/ollama/api client.
//
// Completions go to POST /api/generate with the gateway's fixed decoding
// options; model listing and health checks use GET /api/tags. Every call is
// bounded by the configured timeout and every failure is classified into a
// providers error type.
package ollama
