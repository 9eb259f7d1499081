package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fud-buddy/gateway/pkg/cache"
	"fud-buddy/gateway/pkg/providers"
)

// PreviewLength is the number of message runes included in log lines.
const PreviewLength = 50

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// OutcomeSuccess means the upstream produced a completion.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeFailure means the upstream call failed and Text holds the
	// fallback for the request's chat type.
	OutcomeFailure
)

// Outcome is the result of a single upstream invocation.
type Outcome struct {
	Kind OutcomeKind

	// Text is the trimmed completion on success, the fallback on failure.
	Text string

	// Model is the model that served the request.
	Model string

	// Reason is the upstream error on failure.
	Reason error
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Reply is what the gateway returns to a chat client.
type Reply struct {
	Text     string
	Cached   bool
	Model    string
	Fallback bool

	// Err is the upstream failure behind a fallback reply.
	Err error
}

// Recorder receives upstream call metrics.
type Recorder interface {
	RecordUpstream(provider, model string, latency time.Duration, errorKind string)
}

// Service answers chat requests.
type Service struct {
	provider providers.Provider
	cache    *cache.Cache
	model    string
	options  providers.Options
	logger   *slog.Logger
	recorder Recorder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithRecorder sets the upstream metrics recorder.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithOptions overrides the decoding parameters sent upstream.
func WithOptions(o providers.Options) ServiceOption {
	return func(s *Service) { s.options = o }
}

// NewService creates a Service that forwards to provider using model and
// caches successful replies in c. A nil cache disables caching.
func NewService(provider providers.Provider, c *cache.Cache, model string, opts ...ServiceOption) *Service {
	s := &Service{
		provider: provider,
		cache:    c,
		model:    model,
		options:  providers.DefaultOptions(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the model requests are sent to.
func (s *Service) Model() string {
	return s.model
}

// Provider returns the upstream provider.
func (s *Service) Provider() providers.Provider {
	return s.provider
}

// Cache returns the response cache, which may be nil.
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// Lookup returns the cached reply for req, if any.
func (s *Service) Lookup(req Request) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	return s.cache.Get(cache.Fingerprint(string(req.Type), req.Message))
}

// Chat answers req from the cache or the upstream.
func (s *Service) Chat(ctx context.Context, req Request) Reply {
	if text, ok := s.Lookup(req); ok {
		s.logger.DebugContext(ctx, "cache hit",
			"type", req.Type,
			"message", req.Preview(PreviewLength),
		)
		return Reply{Text: text, Cached: true, Model: s.model}
	}

	out := s.Invoke(ctx, req)
	if !out.OK() {
		return Reply{Text: out.Text, Model: out.Model, Fallback: true, Err: out.Reason}
	}
	return Reply{Text: out.Text, Model: out.Model}
}

// Invoke sends req upstream without consulting the cache. A success is
// stored in the cache; a failure is logged and yields the fallback text.
func (s *Service) Invoke(ctx context.Context, req Request) Outcome {
	start := time.Now()
	resp, err := s.provider.Generate(ctx, s.generateRequest(req))
	if err != nil {
		s.record(time.Since(start), err)
		return s.fail(ctx, req, err)
	}
	s.record(resp.Latency, nil)

	text := normalize(resp.Text)
	s.store(req, text)

	model := resp.Model
	if model == "" {
		model = s.model
	}

	s.logger.InfoContext(ctx, "chat completed",
		"type", req.Type,
		"model", model,
		"latency", resp.Latency,
		"message", req.Preview(PreviewLength),
	)

	return Outcome{Kind: OutcomeSuccess, Text: text, Model: model}
}

// StreamResult describes how a streamed reply ended.
type StreamResult struct {
	// Text is the complete reply that was emitted.
	Text string

	// Cached is set when the reply was replayed from the cache.
	Cached bool

	// Emitted is the number of emit calls that succeeded.
	Emitted int

	// Fallback is the fallback text when Err is an upstream failure.
	Fallback string

	// Err is non-nil when the stream did not complete. It is either an
	// upstream failure or the error returned by emit.
	Err error
}

// ErrEmit wraps the error returned by a Stream emit callback.
var ErrEmit = errors.New("chat: emit failed")

// ErrIncompleteStream is reported when the upstream stream closed without
// a final done chunk or an error.
var ErrIncompleteStream = errors.New("chat: upstream stream ended before completion")

// Stream answers req incrementally, calling emit for each piece of text in
// order. A cached reply is emitted as a single piece. Only an upstream reply
// that ends with a done chunk is cached.
func (s *Service) Stream(ctx context.Context, req Request, emit func(string) error) StreamResult {
	if text, ok := s.Lookup(req); ok {
		if err := emit(text); err != nil {
			return StreamResult{Cached: true, Err: errors.Join(ErrEmit, err)}
		}
		return StreamResult{Text: text, Cached: true, Emitted: 1}
	}

	start := time.Now()
	chunks, err := s.provider.StreamGenerate(ctx, s.generateRequest(req))
	if err != nil {
		s.record(time.Since(start), err)
		out := s.fail(ctx, req, err)
		return StreamResult{Fallback: out.Text, Err: err}
	}

	var (
		full     strings.Builder
		emitted  int
		complete bool
	)
	for chunk := range chunks {
		if chunk.Error != nil {
			s.record(time.Since(start), chunk.Error)
			out := s.fail(ctx, req, chunk.Error)
			drain(chunks)
			return StreamResult{Text: full.String(), Emitted: emitted, Fallback: out.Text, Err: chunk.Error}
		}
		complete = complete || chunk.Done
		if chunk.Delta == "" {
			continue
		}
		if err := emit(chunk.Delta); err != nil {
			drain(chunks)
			s.logger.InfoContext(ctx, "stream abandoned by client",
				"type", req.Type,
				"emitted", emitted,
				"error", err,
			)
			return StreamResult{Text: full.String(), Emitted: emitted, Err: errors.Join(ErrEmit, err)}
		}
		full.WriteString(chunk.Delta)
		emitted++
	}
	if !complete {
		err := ErrIncompleteStream
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(ErrIncompleteStream, ctxErr)
		}
		s.record(time.Since(start), err)
		out := s.fail(ctx, req, err)
		return StreamResult{Text: full.String(), Emitted: emitted, Fallback: out.Text, Err: err}
	}
	s.record(time.Since(start), nil)

	text := normalize(full.String())
	if emitted == 0 || strings.TrimSpace(full.String()) == "" {
		if err := emit(text); err != nil {
			return StreamResult{Emitted: emitted, Err: errors.Join(ErrEmit, err)}
		}
		emitted++
	}
	s.store(req, text)

	s.logger.InfoContext(ctx, "chat stream completed",
		"type", req.Type,
		"model", s.model,
		"chunks", emitted,
		"latency", time.Since(start),
		"message", req.Preview(PreviewLength),
	)

	return StreamResult{Text: text, Emitted: emitted}
}

func (s *Service) generateRequest(req Request) *providers.GenerateRequest {
	return &providers.GenerateRequest{
		Model:   s.model,
		Prompt:  BuildPrompt(req.Type, req.Message),
		Options: s.options,
	}
}

func (s *Service) fail(ctx context.Context, req Request, err error) Outcome {
	s.logger.ErrorContext(ctx, "upstream call failed",
		"type", req.Type,
		"model", s.model,
		"reason", providers.ErrorKind(err),
		"error", err,
		"message", req.Preview(PreviewLength),
	)
	return Outcome{Kind: OutcomeFailure, Text: Fallback(req.Type), Model: s.model, Reason: err}
}

func (s *Service) store(req Request, text string) {
	if s.cache == nil {
		return
	}
	s.cache.Set(cache.Fingerprint(string(req.Type), req.Message), text)
}

func (s *Service) record(latency time.Duration, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordUpstream(s.provider.GetName(), s.model, latency, providers.ErrorKind(err))
}

// normalize trims a completion and substitutes EmptyResponseText for a
// blank one.
func normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyResponseText
	}
	return text
}

func drain(chunks <-chan *providers.StreamChunk) {
	go func() {
		for range chunks {
		}
	}()
}
