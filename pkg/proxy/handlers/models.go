package handlers

import (
	"log/slog"
	"net/http"

	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/providers"
	"fud-buddy/gateway/pkg/proxy"
	"fud-buddy/gateway/pkg/proxy/types"
)

// ModelsHandler serves GET /api/models with the upstream's model list and
// the model the gateway uses.
type ModelsHandler struct {
	service *chat.Service
}

// NewModelsHandler creates the models handler.
func NewModelsHandler(service *chat.Service) *ModelsHandler {
	return &ModelsHandler{service: service}
}

// ServeHTTP implements http.Handler.
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.Provider().ListModels(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list models", "error", err)
		_ = proxy.WriteError(w, types.NewServerError(types.MessageModelsUnavailable).
			WithMessage("upstream "+providers.ErrorKind(err)+" error"))
		return
	}

	_ = proxy.WriteJSONResponse(w, http.StatusOK, types.ModelsResponse{
		Models:  models,
		Default: h.service.Model(),
	})
}
