// FUD Buddy is an AI chat gateway for food recommendations.
//
// It sits between the FUD Buddy web app and a local Ollama server,
// providing:
//   - Input validation and sanitization of chat messages
//   - Global and per-chat rate limiting by client identity
//   - A short-lived response cache
//   - Streaming replies as server-sent events with fallback text
//
// Usage:
//
//	# Start the gateway with default configuration
//	fudbuddy run
//
//	# Start with a configuration file
//	fudbuddy run --config /etc/fudbuddy/config.yaml
//
//	# Ask a question through a running gateway
//	fudbuddy chat --type whereToGo --stream "date night near the river"
//
//	# Check the gateway and its upstream
//	fudbuddy health
package main

func main() {
	Execute()
}
