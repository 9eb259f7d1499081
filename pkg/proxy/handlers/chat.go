package handlers

import (
	"log/slog"
	"net/http"

	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/limits"
	"fud-buddy/gateway/pkg/proxy"
	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/validation"
)

// ChatHandler serves POST /api/chat.
type ChatHandler struct {
	admission
	service *chat.Service
}

// NewChatHandler creates the chat handler. limiter may be nil to disable
// the per-route limit.
func NewChatHandler(service *chat.Service, validator *validation.Validator, limiter *limits.Limiter) *ChatHandler {
	return &ChatHandler{
		admission: admission{validator: validator, limiter: limiter},
		service:   service,
	}
}

// ServeHTTP implements http.Handler.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, ok := h.admit(w, r)
	if !ok {
		return
	}

	slog.InfoContext(r.Context(), "chat request",
		"type", req.Type,
		"message", req.Preview(chat.PreviewLength),
	)

	reply := h.service.Chat(r.Context(), req)
	if reply.Fallback {
		_ = proxy.WriteError(w, types.NewFallbackError(reply.Text))
		return
	}

	_ = proxy.WriteJSONResponse(w, http.StatusOK, types.ChatResponse{
		Response: reply.Text,
		Cached:   reply.Cached,
		Model:    reply.Model,
	})
}
