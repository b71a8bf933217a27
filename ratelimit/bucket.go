// Package ratelimit implements the multi-category token-bucket rate
// limiter of spec §4.10, built on golang.org/x/time/rate.
//
// Grounded on original_source/crates/kraken-types/src/rate_limit.rs.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Result is the outcome of a try-acquire call.
type Result struct {
	Allowed bool
	Wait    time.Duration
}

// IsAllowed reports whether the acquisition succeeded immediately.
func (r Result) IsAllowed() bool { return r.Allowed }

// WaitDuration returns how long the caller would need to wait for enough
// tokens to accrue, zero if Allowed.
func (r Result) WaitDuration() time.Duration { return r.Wait }

// Bucket is a single named token bucket wrapping rate.Limiter, exposing the
// spec's try/blocking/inspect vocabulary on top of x/time/rate's burst
// model (burst == capacity, limit == refill rate per second).
type Bucket struct {
	limiter  *rate.Limiter
	capacity int
}

// NewBucket constructs a bucket with the given capacity (burst size) and
// refill rate (tokens/second). It starts full, matching the original's
// "tokens starts at full capacity" behavior.
func NewBucket(capacity int, refillRate float64) *Bucket {
	return &Bucket{
		limiter:  rate.NewLimiter(rate.Limit(refillRate), capacity),
		capacity: capacity,
	}
}

// TryAcquire attempts to consume n tokens without blocking.
func (b *Bucket) TryAcquire(n int) Result {
	reservation := b.limiter.ReserveN(time.Now(), n)
	if !reservation.OK() {
		return Result{Allowed: false, Wait: time.Duration(0)}
	}
	delay := reservation.Delay()
	if delay <= 0 {
		return Result{Allowed: true}
	}
	reservation.Cancel()
	return Result{Allowed: false, Wait: delay}
}

// CheckAvailable reports whether n tokens are available right now, without
// consuming any.
func (b *Bucket) CheckAvailable(n int) bool {
	return b.Available() >= float64(n)
}

// Available returns the current token count (may be fractional between refills).
func (b *Bucket) Available() float64 {
	return float64(b.limiter.Tokens())
}

// Capacity returns the bucket's configured burst size.
func (b *Bucket) Capacity() int { return b.capacity }

// RefillRate returns the bucket's configured tokens/second.
func (b *Bucket) RefillRate() float64 { return float64(b.limiter.Limit()) }

// AcquireBlocking blocks, honoring ctx, until n tokens are available.
func (b *Bucket) AcquireBlocking(ctx context.Context, n int) error {
	return b.limiter.WaitN(ctx, n)
}

// Reset refills the bucket back to full capacity immediately.
func (b *Bucket) Reset() {
	b.limiter = rate.NewLimiter(b.limiter.Limit(), b.capacity)
}
