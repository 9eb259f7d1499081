package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/validation"
)

const (
	// MaxRequestBodySize is the largest accepted request body (64 KiB).
	MaxRequestBodySize = 64 << 10

	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
)

// RequestError reports a body that could not be decoded.
type RequestError struct {
	Status  int
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying decode error.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// DecodeChatRequest reads at most MaxRequestBodySize bytes of r's body and
// decodes them as a chat payload. An empty body decodes to an empty
// RawRequest so that the validator reports the missing message.
func DecodeChatRequest(r *http.Request) (validation.RawRequest, error) {
	var raw validation.RawRequest

	if r.Body == nil {
		return raw, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		return raw, &RequestError{
			Status:  http.StatusBadRequest,
			Field:   "body",
			Message: "failed to read request body",
			Cause:   err,
		}
	}
	if len(body) > MaxRequestBodySize {
		return raw, &RequestError{
			Status:  http.StatusRequestEntityTooLarge,
			Field:   "body",
			Message: types.MessageRequestTooLarge,
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, nil
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return validation.RawRequest{}, &RequestError{
			Status:  http.StatusBadRequest,
			Field:   "body",
			Message: types.MessageMalformedJSON,
			Cause:   err,
		}
	}
	return raw, nil
}
