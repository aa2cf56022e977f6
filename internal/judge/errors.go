package judge

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError marks a throttled judgment call. The controller skips the
// announcement instead of retrying, so the run's latency stays bounded.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limit exceeded, retry after %v", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limit exceeded", e.Provider)
}

// RateLimited satisfies the engine's throttle detection without a package
// dependency in either direction.
func (e *RateLimitError) RateLimited() bool { return true }

// IsRateLimit reports whether err is (or wraps) a RateLimitError.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
