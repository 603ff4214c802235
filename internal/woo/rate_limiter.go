package woo

import (
	"sync"
	"time"
)

// RateLimiter paces outgoing WooCommerce REST calls so bulk
// reconciliation and incremental scans stay under the store's
// throttling window (WOO_RATE_LIMIT_RPS). Concurrent workers share one
// limiter; each call books the next free slot and sleeps until it.
type RateLimiter struct {
	mu       sync.Mutex
	nextSlot time.Time
	interval time.Duration
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

// WaitTurn blocks until the caller's booked slot arrives. Slots are
// handed out in call order, so a burst of workers serializes evenly
// instead of stampeding the store.
func (r *RateLimiter) WaitTurn() {
	r.mu.Lock()
	now := time.Now()
	slot := now
	if r.nextSlot.After(now) {
		slot = r.nextSlot
	}
	r.nextSlot = slot.Add(r.interval)
	r.mu.Unlock()

	if sleep := time.Until(slot); sleep > 0 {
		time.Sleep(sleep)
	}
}
