package apiclient

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter spaces requests evenly at a fixed rate.
type RateLimiter struct {
	limiter *rate.Limiter
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1)}
}

// WaitTurn blocks until the caller's slot or until ctx is done. It fails
// at once when the slot lies past the ctx deadline.
func (r *RateLimiter) WaitTurn(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
