package ratelimit

import (
	"fmt"
	"math"
	"time"
)

// Decision represents the result of a rate limit check.
type Decision struct {
	// Key is the identifier used for rate limiting (e.g., IP address).
	Key string

	Allowed bool

	// Limit is the bucket size.
	Limit int

	// RetryAfter is how long until a token is available. Zero when allowed.
	RetryAfter time.Duration
}

// String returns a human-readable representation of the decision.
func (d Decision) String() string {
	if d.Allowed {
		return fmt.Sprintf("Decision{Allowed: true, Key: %s, Limit: %d}", d.Key, d.Limit)
	}
	return fmt.Sprintf("Decision{Allowed: false, Key: %s, Limit: %d, RetryAfter: %s}", d.Key, d.Limit, d.RetryAfter)
}

// RetryAfterSeconds returns the Retry-After header value: whole seconds,
// rounded up, and at least 1 for a denied request.
func (d Decision) RetryAfterSeconds() int64 {
	if d.Allowed {
		return 0
	}
	seconds := int64(math.Ceil(d.RetryAfter.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
