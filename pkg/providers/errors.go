package providers

import (
	"errors"
	"fmt"
	"time"
)

// ProviderError represents a transport failure or non-success status.
type ProviderError struct {
	// Provider is the name of the provider that returned the error
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents a request that exceeded the configured timeout.
type TimeoutError struct {
	// Provider is the name of the provider where the timeout occurred
	Provider string

	// Timeout is the configured timeout duration
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// ParseError represents a malformed or empty response body.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// Message describes what was wrong with the body
	Message string

	// Cause is the underlying parse error, if any
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %q response parse error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %q response parse error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ErrorKind returns a short label for err suitable for metrics and logs:
// "timeout", "parse", "status", "transport" or "unknown".
func ErrorKind(err error) string {
	var timeoutErr *TimeoutError
	var parseErr *ParseError
	var providerErr *ProviderError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &providerErr):
		if providerErr.StatusCode > 0 {
			return "status"
		}
		return "transport"
	default:
		return "unknown"
	}
}
