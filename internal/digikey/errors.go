package digikey

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured is returned when API credentials are missing
var ErrNotConfigured = errors.New("digikey API credentials are not configured")

// RateLimitError is returned when the API reports 429 Too Many Requests.
// Batch lookups stop on it immediately, the daily budget is exhausted.
type RateLimitError struct {
	// RetryAfter is zero when the server did not send a usable Retry-After
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("digikey API daily call limit exceeded, retry in %s", e.RetryAfter)
	}
	return "digikey API daily call limit exceeded"
}

// IsRateLimit reports whether err is (or wraps) a RateLimitError
func IsRateLimit(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
