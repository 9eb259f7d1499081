package types

import (
	"net/http"
	"time"
)

// Error messages returned to clients.
const (
	MessageInvalidInput      = "Invalid input"
	MessageTooManyRequests   = "Too many requests"
	MessageUpstreamFailure   = "AI service temporarily unavailable"
	MessageInternalError     = "Internal server error"
	MessageModelsUnavailable = "Failed to fetch models"
	MessageNotFound          = "Not found"
	MessageMethodNotAllowed  = "Method not allowed"
	MessageOriginNotAllowed  = "Origin not allowed"
	MessageRequestTooLarge   = "Request body too large"
	MessageMalformedJSON     = "Request body must be valid JSON"
)

// Timestamp formats t the way every error body carries it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FieldDetail describes one rejected input field.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationErrorResponse is the 400 body for rejected input.
type ValidationErrorResponse struct {
	Error     string        `json:"error"`
	Details   []FieldDetail `json:"details"`
	Timestamp string        `json:"timestamp"`
}

// NewValidationError builds a 400 body from field details.
func NewValidationError(details ...FieldDetail) *ValidationErrorResponse {
	return &ValidationErrorResponse{
		Error:     MessageInvalidInput,
		Details:   details,
		Timestamp: Timestamp(time.Now()),
	}
}

// StatusCode returns 400.
func (e *ValidationErrorResponse) StatusCode() int { return http.StatusBadRequest }

// RateLimitResponse is the 429 body.
type RateLimitResponse struct {
	Error string `json:"error"`

	// RetryAfter is whole seconds until the window resets.
	RetryAfter int `json:"retryAfter"`

	Timestamp string `json:"timestamp"`
}

// NewRateLimitError builds a 429 body.
func NewRateLimitError(retryAfterSeconds int) *RateLimitResponse {
	return &RateLimitResponse{
		Error:      MessageTooManyRequests,
		RetryAfter: retryAfterSeconds,
		Timestamp:  Timestamp(time.Now()),
	}
}

// StatusCode returns 429.
func (e *RateLimitResponse) StatusCode() int { return http.StatusTooManyRequests }

// FallbackResponse is the 500 body for an upstream failure. Response holds
// a reply the client can still show.
type FallbackResponse struct {
	Error    string `json:"error"`
	Response string `json:"response"`
	Fallback bool   `json:"fallback"`
}

// NewFallbackError builds a 500 body carrying fallback.
func NewFallbackError(fallback string) *FallbackResponse {
	return &FallbackResponse{
		Error:    MessageUpstreamFailure,
		Response: fallback,
		Fallback: true,
	}
}

// StatusCode returns 500.
func (e *FallbackResponse) StatusCode() int { return http.StatusInternalServerError }

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Stack     string `json:"stack,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`

	status int
}

// NewErrorResponse builds an error body with the given HTTP status.
func NewErrorResponse(status int, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:     message,
		Timestamp: Timestamp(time.Now()),
		status:    status,
	}
}

// NewServerError builds a 500 body.
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, message)
}

// WithMessage sets the detail message.
func (e *ErrorResponse) WithMessage(msg string) *ErrorResponse {
	e.Message = msg
	return e
}

// StatusCode returns the HTTP status of the error, 500 when unset.
func (e *ErrorResponse) StatusCode() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}
