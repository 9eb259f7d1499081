package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/limits"
	"fud-buddy/gateway/pkg/proxy"
	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/telemetry/metrics"
	"fud-buddy/gateway/pkg/validation"
)

// StreamRecorder receives stream outcomes.
type StreamRecorder interface {
	RecordStream(outcome string)
}

// StreamHandler serves POST /api/chat/stream as server-sent events.
//
// Each piece of the reply is a `data: {"content":...}` record and the
// stream ends with `data: [DONE]`. If the upstream fails before anything
// was sent the client gets the same 500 JSON fallback as /api/chat; after
// that, a fallback record flagged `"fallback":true` is sent before
// [DONE].
type StreamHandler struct {
	admission
	service  *chat.Service
	recorder StreamRecorder
}

// NewStreamHandler creates the streaming handler. limiter and recorder may
// be nil.
func NewStreamHandler(service *chat.Service, validator *validation.Validator, limiter *limits.Limiter, recorder StreamRecorder) *StreamHandler {
	return &StreamHandler{
		admission: admission{validator: validator, limiter: limiter},
		service:   service,
		recorder:  recorder,
	}
}

// ServeHTTP implements http.Handler.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, ok := h.admit(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	slog.InfoContext(ctx, "chat stream request",
		"type", req.Type,
		"message", req.Preview(chat.PreviewLength),
	)

	started := false
	emit := func(text string) error {
		if !started {
			proxy.SetSSEHeaders(w)
			w.WriteHeader(http.StatusOK)
			started = true
		}
		return proxy.WriteSSEContent(w, text)
	}

	res := h.service.Stream(ctx, req, emit)

	switch {
	case res.Err == nil:
		_ = proxy.WriteSSEDone(w)
		h.record(metrics.StreamComplete)

	case errors.Is(res.Err, chat.ErrEmit) || errors.Is(ctx.Err(), context.Canceled):
		slog.InfoContext(ctx, "stream client disconnected", "emitted", res.Emitted)
		h.record(metrics.StreamCanceled)

	case !started:
		_ = proxy.WriteError(w, types.NewFallbackError(res.Fallback))
		h.record(metrics.StreamFallback)

	default:
		if err := proxy.WriteSSEFallback(w, res.Fallback); err == nil {
			_ = proxy.WriteSSEDone(w)
		}
		h.record(metrics.StreamFallback)
	}
}

func (h *StreamHandler) record(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordStream(outcome)
	}
}
