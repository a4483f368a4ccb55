package rate_limit

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// BurstMultiplier sizes the bucket relative to the sustained rate.
const BurstMultiplier = 5

type RateLimiter struct {
	limiter  *rate.Limiter
	rpsLimit float64
}

type RateLimitResult struct {
	Allowed       bool `json:"allowed"`
	Remaining     int  `json:"remaining"`
	RetryAfterSec int  `json:"retryAfterSec,omitempty"`
}

// NewRateLimiter returns a token bucket refilled at rpsLimit per second. A
// non-positive rpsLimit yields a limiter that allows everything. A
// non-positive burstLimit defaults to BurstMultiplier times the rate.
func NewRateLimiter(rpsLimit float64, burstLimit int) *RateLimiter {
	if rpsLimit <= 0 {
		return &RateLimiter{}
	}

	if burstLimit <= 0 {
		burstLimit = max(int(math.Ceil(rpsLimit*BurstMultiplier)), 1)
	}

	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(rpsLimit), burstLimit),
		rpsLimit: rpsLimit,
	}
}

func (r *RateLimiter) IsEnabled() bool {
	return r.limiter != nil
}

// CheckRateLimit consumes one token when available.
func (r *RateLimiter) CheckRateLimit() *RateLimitResult {
	if r.limiter == nil {
		return &RateLimitResult{Allowed: true, Remaining: math.MaxInt32}
	}

	now := time.Now()
	reservation := r.limiter.ReserveN(now, 1)

	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)

		return &RateLimitResult{
			Allowed:       false,
			Remaining:     0,
			RetryAfterSec: max(int(math.Ceil(delay.Seconds())), 1),
		}
	}

	return &RateLimitResult{
		Allowed:   true,
		Remaining: max(int(math.Floor(r.limiter.TokensAt(now))), 0),
	}
}
