package repository

import (
	"context"
	"time"
)

// RateLimitStore counts hits per key in fixed windows.
type RateLimitStore interface {
	// Hit records one request for key and returns the number of requests
	// seen for key in the current window, this one included.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}
