package providers

import "context"

// Provider is implemented by every upstream model backend.
//
// All methods accept a context.Context for cancellation. Implementations
// bound each call with their configured timeout in addition to ctx.
type Provider interface {
	// Generate sends a non-streaming completion request.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// StreamGenerate sends a streaming completion request. The returned
	// channel yields deltas in order and is closed after the final chunk.
	// A failure is delivered as a chunk with Error set, after which the
	// channel closes.
	//
	//  chunks, err := provider.StreamGenerate(ctx, req)
	//  if err != nil {
	//      return err
	//  }
	//  for chunk := range chunks {
	//      if chunk.Error != nil {
	//          return chunk.Error
	//      }
	//      fmt.Print(chunk.Delta)
	//  }
	StreamGenerate(ctx context.Context, req *GenerateRequest) (<-chan *StreamChunk, error)

	// ListModels returns the models the backend can serve.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error

	// GetName returns the provider's configured name.
	GetName() string

	// IsHealthy reports the tracked health state.
	IsHealthy() bool

	// GetHealth returns detailed health information.
	GetHealth() ProviderHealth

	// Close releases resources and stops background health checks.
	Close() error
}
