package limits

import (
	"errors"
	"fmt"
	"time"

	"fud-buddy/gateway/pkg/limits/ratelimit"
)

// Limiter names used for metrics labels and log fields.
const (
	LimiterGlobal = "global"
	LimiterChat   = "chat"
)

// UnknownIdentity is the shared bucket for requests with no origin signal.
const UnknownIdentity = "unknown"

// ErrRateLimitExceeded is the sentinel wrapped by LimitError.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Config configures both gateway limiters.
type Config struct {
	// Global applies to every API route.
	Global ratelimit.Config

	// Chat applies to the chat and chat stream endpoints.
	Chat ratelimit.Config
}

// LimitError reports a rejected request.
type LimitError struct {
	// Limiter is the name of the limiter that rejected the request.
	Limiter string

	// Identity is the client key that was throttled.
	Identity string

	// RetryAfter is the time left in the current window.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("%s limit exceeded for %s (retry after %s)", e.Limiter, e.Identity, e.RetryAfter)
}

// Unwrap returns ErrRateLimitExceeded.
func (e *LimitError) Unwrap() error {
	return ErrRateLimitExceeded
}

// RetryAfterSeconds rounds d up to whole seconds, never below one.
func RetryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
