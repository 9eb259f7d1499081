package handlers

import (
	"log/slog"
	"net/http"

	"fud-buddy/gateway/pkg/cache"
	"fud-buddy/gateway/pkg/proxy"
	"fud-buddy/gateway/pkg/proxy/types"
)

// CacheClearHandler serves POST /api/cache/clear.
type CacheClearHandler struct {
	cache *cache.Cache
}

// NewCacheClearHandler creates the cache clear handler.
func NewCacheClearHandler(c *cache.Cache) *CacheClearHandler {
	return &CacheClearHandler{cache: c}
}

// ServeHTTP implements http.Handler.
func (h *CacheClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	removed := h.cache.Clear()
	slog.InfoContext(r.Context(), "cache cleared", "removed", removed)

	_ = proxy.WriteJSONResponse(w, http.StatusOK, types.CacheClearResponse{
		Message: "Cache cleared",
		Size:    h.cache.Len(),
	})
}
