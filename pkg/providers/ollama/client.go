package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/ollama/ollama/api"

	"fud-buddy/gateway/pkg/providers"
)

const (
	// DefaultBaseURL is where a local Ollama server listens.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "qwen2.5:14b"

	// DefaultTimeout bounds each upstream call.
	DefaultTimeout = 60 * time.Second

	providerName = "ollama"
)

// Client talks to a single Ollama server.
type Client struct {
	*providers.HealthTracker

	config  providers.ProviderConfig
	api     *api.Client
	http    *http.Client
	options providers.Options
	timeout atomic.Int64
}

// NewClient creates a client for cfg.BaseURL. Zero-valued settings fall back
// to the package defaults.
func NewClient(cfg providers.ProviderConfig) (*Client, error) {
	if cfg.Name == "" {
		cfg.Name = providerName
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 10
	}
	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama base url %q: scheme and host are required", cfg.BaseURL)
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConns,
			IdleConnTimeout:     cfg.IdleConnTimeout,
		},
	}

	c := &Client{
		HealthTracker: providers.NewHealthTracker(cfg.Name),
		config:        cfg,
		api:           api.NewClient(base, httpClient),
		http:          httpClient,
		options:       providers.DefaultOptions(),
	}
	c.timeout.Store(int64(cfg.Timeout))
	return c, nil
}

// GetName returns the provider's configured name.
func (c *Client) GetName() string {
	return c.config.Name
}

// Model returns the default model identifier.
func (c *Client) Model() string {
	return c.config.Model
}

// Timeout returns the bound applied to each upstream call.
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.timeout.Load())
}

// SetTimeout changes the bound for calls started after it returns. A
// non-positive d is ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout.Store(int64(d))
	}
}

// Generate performs a non-streaming completion.
func (c *Client) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	start := time.Now()
	stream := false

	var final api.GenerateResponse
	received := false
	err := c.api.Generate(ctx, c.buildRequest(req, &stream), func(resp api.GenerateResponse) error {
		final = resp
		received = true
		return nil
	})
	if err != nil {
		err = c.classify(ctx, err)
		c.RecordResult(err)
		return nil, err
	}
	if !received {
		err = &providers.ParseError{Provider: c.config.Name, Message: "empty response body"}
		c.RecordResult(err)
		return nil, err
	}

	c.RecordResult(nil)

	model := final.Model
	if model == "" {
		model = c.modelFor(req)
	}
	return &providers.GenerateResponse{
		Model:      model,
		Text:       final.Response,
		DoneReason: final.DoneReason,
		Latency:    time.Since(start),
	}, nil
}

// StreamGenerate performs a streaming completion. Deltas are delivered on
// the returned channel in the order Ollama emits them.
func (c *Client) StreamGenerate(ctx context.Context, req *providers.GenerateRequest) (<-chan *providers.StreamChunk, error) {
	chunks := make(chan *providers.StreamChunk)

	go func() {
		defer close(chunks)

		genCtx, cancel := context.WithTimeout(ctx, c.Timeout())
		defer cancel()

		send := func(chunk *providers.StreamChunk) error {
			select {
			case chunks <- chunk:
				return nil
			case <-genCtx.Done():
				return genCtx.Err()
			}
		}

		done := false
		err := c.api.Generate(genCtx, c.buildRequest(req, nil), func(resp api.GenerateResponse) error {
			if resp.Done {
				done = true
			}
			if resp.Response == "" && !resp.Done {
				return nil
			}
			return send(&providers.StreamChunk{Delta: resp.Response, Done: resp.Done})
		})

		switch {
		case err != nil:
			err = c.classify(genCtx, err)
		case !done && genCtx.Err() != nil:
			err = c.classify(genCtx, genCtx.Err())
		case !done:
			err = &providers.ParseError{Provider: c.config.Name, Message: "stream ended before completion"}
		}

		c.RecordResult(err)
		if err != nil {
			// genCtx is already done on a timeout, so only the caller's
			// context may stop the error chunk.
			select {
			case chunks <- &providers.StreamChunk{Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return chunks, nil
}

// ListModels returns the models installed on the server.
func (c *Client) ListModels(ctx context.Context) ([]providers.ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	models := make([]providers.ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, providers.ModelInfo{
			Name:              m.Name,
			Model:             m.Model,
			Size:              m.Size,
			Digest:            m.Digest,
			ModifiedAt:        m.ModifiedAt,
			Family:            m.Details.Family,
			ParameterSize:     m.Details.ParameterSize,
			QuantizationLevel: m.Details.QuantizationLevel,
		})
	}
	return models, nil
}

// HealthCheck lists models to confirm the server is reachable and records
// the outcome.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	c.RecordResult(err)
	return err
}

// StartHealthChecker runs HealthCheck on the configured interval.
func (c *Client) StartHealthChecker(ctx context.Context) {
	c.HealthTracker.StartHealthChecker(ctx, c.config.HealthCheckInterval, c.HealthCheck)
}

// Close stops background health checks and releases idle connections.
func (c *Client) Close() error {
	c.StopHealthChecker()
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) buildRequest(req *providers.GenerateRequest, stream *bool) *api.GenerateRequest {
	opts := req.Options
	if opts == (providers.Options{}) {
		opts = c.options
	}

	return &api.GenerateRequest{
		Model:  c.modelFor(req),
		Prompt: req.Prompt,
		Stream: stream,
		Options: map[string]any{
			"temperature": opts.Temperature,
			"top_p":       opts.TopP,
			"num_predict": opts.NumPredict,
		},
	}
}

func (c *Client) modelFor(req *providers.GenerateRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return c.config.Model
}

// classify maps an error from the api client onto the providers error types.
func (c *Client) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &providers.TimeoutError{Provider: c.config.Name, Timeout: c.Timeout()}
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.ErrorMessage
		if msg == "" {
			msg = statusErr.Status
		}
		return &providers.ProviderError{
			Provider:   c.config.Name,
			StatusCode: statusErr.StatusCode,
			Message:    msg,
			Cause:      err,
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &providers.ParseError{Provider: c.config.Name, Message: "malformed response body", Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &providers.TimeoutError{Provider: c.config.Name, Timeout: c.Timeout()}
	}

	return &providers.ProviderError{Provider: c.config.Name, Message: err.Error(), Cause: err}
}
