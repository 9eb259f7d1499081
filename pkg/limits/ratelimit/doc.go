// Package ratelimit provides the fixed window counter used to throttle
// requests per client identity.
//
// # Fixed Window Algorithm
//
// Each window holds a count and the time the window started. A request is
// admitted while the count is below the limit. Once the window duration has
// elapsed the count resets to zero and a new window starts at the time of
// the next request:
//
//	fw := ratelimit.NewFixedWindow(Config{MaxRequests: 10, Window: time.Minute})
//	result := fw.Check(time.Now())
//	if !result.Allowed {
//	    // wait result.RetryAfter
//	}
//
// A client that spends its budget at the end of one window and again at the
// start of the next can be admitted up to twice the nominal rate across the
// boundary. This is the documented behavior of the gateway's limiter and is
// covered by tests; a smoother algorithm would change what clients observe.
//
// # Thread Safety
//
// FixedWindow is safe for concurrent use. The count and window start are
// updated together under one mutex, so concurrent requests are never lost.
package ratelimit
