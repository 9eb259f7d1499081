package ratelimit

import "time"

// Config describes one fixed window budget.
type Config struct {
	// MaxRequests is the number of requests admitted per window.
	MaxRequests int64

	// Window is the length of each counting window.
	Window time.Duration
}

// CheckResult contains the result of a rate limit check.
type CheckResult struct {
	// Allowed indicates if the request is permitted.
	Allowed bool

	// Reason explains why the request was rejected (if Allowed=false).
	Reason string

	// Limit is the configured limit value.
	Limit int64

	// Remaining is how many requests remain in the current window.
	Remaining int64

	// Reset is when the current window ends.
	Reset time.Time

	// RetryAfter is the time left in the current window when the request
	// was rejected. It is zero for admitted requests.
	RetryAfter time.Duration
}
