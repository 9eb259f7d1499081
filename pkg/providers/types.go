package providers

import "time"

// Decoding parameters used for every chat completion.
const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultNumPredict  = 300
)

// Options holds decoding parameters sent with a completion request.
type Options struct {
	// Temperature controls sampling randomness.
	Temperature float64

	// TopP is the nucleus sampling threshold.
	TopP float64

	// NumPredict caps the number of generated tokens.
	NumPredict int
}

// DefaultOptions returns the gateway's fixed decoding parameters.
func DefaultOptions() Options {
	return Options{
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		NumPredict:  DefaultNumPredict,
	}
}

// GenerateRequest is a single-prompt completion request.
type GenerateRequest struct {
	// Model is the backend model identifier.
	Model string

	// Prompt is the full prompt, system preamble included.
	Prompt string

	// Options are the decoding parameters.
	Options Options
}

// GenerateResponse is a completed generation.
type GenerateResponse struct {
	// Model is the model that produced the text.
	Model string

	// Text is the generated text, untrimmed.
	Text string

	// DoneReason is the backend's reason for stopping, if reported.
	DoneReason string

	// Latency is the wall time of the upstream call.
	Latency time.Duration
}

// StreamChunk is one increment of a streaming generation.
type StreamChunk struct {
	// Delta is the text generated since the previous chunk.
	Delta string

	// Done is set on the final chunk.
	Done bool

	// Error is set if the stream failed; no chunks follow it.
	Error error
}

// ModelInfo describes a model available from the backend.
type ModelInfo struct {
	Name              string    `json:"name"`
	Model             string    `json:"model"`
	Size              int64     `json:"size"`
	Digest            string    `json:"digest"`
	ModifiedAt        time.Time `json:"modified_at"`
	Family            string    `json:"family,omitempty"`
	ParameterSize     string    `json:"parameter_size,omitempty"`
	QuantizationLevel string    `json:"quantization_level,omitempty"`
}

// ProviderConfig contains the connection settings for a backend.
type ProviderConfig struct {
	// Name identifies the provider in logs and metrics.
	Name string

	// BaseURL is the backend's root URL (e.g. http://localhost:11434).
	BaseURL string

	// Model is the default model identifier.
	Model string

	// Timeout bounds every upstream call.
	Timeout time.Duration

	// HealthCheckInterval is the period of background health checks.
	// Zero disables them.
	HealthCheckInterval time.Duration

	// MaxIdleConns is the connection pool size.
	MaxIdleConns int

	// IdleConnTimeout is how long idle connections are kept.
	IdleConnTimeout time.Duration
}

// ProviderHealth tracks the health status of a provider.
type ProviderHealth struct {
	// IsHealthy indicates whether the provider is currently healthy
	IsHealthy bool

	// LastCheck is the timestamp of the last recorded outcome
	LastCheck time.Time

	// LastError is the most recent error encountered (nil if healthy)
	LastError error

	// ConsecutiveFailures counts sequential failures
	ConsecutiveFailures int

	// LastSuccessfulRequest is the timestamp of the last success
	LastSuccessfulRequest time.Time

	// TotalRequests is the total number of recorded outcomes
	TotalRequests int64

	// FailedRequests is the total number of failed outcomes
	FailedRequests int64
}
