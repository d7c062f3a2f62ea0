package marketdata

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiter wraps rate.Limiter with exponential backoff state for upstream
// 429 responses.
type limiter struct {
	limiter *rate.Limiter
	name    string
	mu      sync.Mutex
	backoff time.Duration
	maxWait time.Duration
}

// newLimiter creates a rate limiter allowing perMinute requests per minute.
func newLimiter(name string, perMinute int) *limiter {
	rps := float64(perMinute) / 60.0
	// Allow burst of up to 5 requests or 1/10th of per-minute limit
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	if burst > 5 {
		burst = 5
	}

	return &limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
		backoff: 100 * time.Millisecond,
		maxWait: 2 * time.Minute,
	}
}

// wait blocks until a token is available or the context is cancelled.
// Any accumulated backoff from prior 429s is served first.
func (l *limiter) wait(ctx context.Context) error {
	l.mu.Lock()
	delay := l.backoff
	l.mu.Unlock()

	if delay > 100*time.Millisecond {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// signalRateLimited doubles the backoff after a 429 response.
func (l *limiter) signalRateLimited() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.backoff *= 2
	if l.backoff > l.maxWait {
		l.backoff = l.maxWait
	}
}

// resetBackoff resets the backoff after a successful request.
func (l *limiter) resetBackoff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backoff = 100 * time.Millisecond
}
