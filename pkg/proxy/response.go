package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fud-buddy/gateway/pkg/proxy/types"
)

// StatusCoder is implemented by every error body in package types.
type StatusCoder interface {
	StatusCode() int
}

// WriteJSONResponse writes data as JSON with the given status.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteError writes an error body with its own status code.
func WriteError(w http.ResponseWriter, body StatusCoder) error {
	return WriteJSONResponse(w, body.StatusCode(), body)
}

// SetSSEHeaders prepares w for a streamed reply.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// WriteSSEContent writes one content record and flushes it.
func WriteSSEContent(w http.ResponseWriter, content string) error {
	return writeRecord(w, types.ContentRecord{Content: content})
}

// WriteSSEFallback writes a content record flagged as a fallback reply.
func WriteSSEFallback(w http.ResponseWriter, content string) error {
	return writeRecord(w, types.ContentRecord{Content: content, Fallback: true})
}

// WriteSSEDone writes the terminal record.
func WriteSSEDone(w http.ResponseWriter) error {
	if _, err := fmt.Fprint(w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("failed to write SSE done marker: %w", err)
	}
	flush(w)
	return nil
}

func writeRecord(w http.ResponseWriter, rec types.ContentRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE record: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write SSE record: %w", err)
	}
	flush(w)
	return nil
}

func flush(w http.ResponseWriter) {
	_ = http.NewResponseController(w).Flush()
}
