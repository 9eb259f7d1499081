package types

// ChatResponse is the body of a successful chat call.
type ChatResponse struct {
	Response string `json:"response"`
	Cached   bool   `json:"cached"`
	Model    string `json:"model"`
}

// Upstream connectivity values reported by HealthResponse.
const (
	UpstreamConnected    = "connected"
	UpstreamDisconnected = "disconnected"
)

// HealthResponse is the body of /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Ollama    string `json:"ollama"`
	CacheSize int    `json:"cache_size"`
	Model     string `json:"model"`
}

// ModelsResponse is the body of /api/models.
type ModelsResponse struct {
	Models  any    `json:"models"`
	Default string `json:"default"`
}

// CacheClearResponse is the body of /api/cache/clear.
type CacheClearResponse struct {
	Message string `json:"message"`
	Size    int    `json:"size"`
}

// ContentRecord is the payload of one streamed data record.
type ContentRecord struct {
	Content  string `json:"content"`
	Fallback bool   `json:"fallback,omitempty"`
}
