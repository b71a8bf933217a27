// Package reconnect implements the exponential-backoff-with-jitter
// reconnection policy of spec §4.7.
//
// Grounded on original_source/crates/kraken-ws/src/reconnect.rs.
package reconnect

import (
	"math"
	"math/rand"
	"time"
)

// Config parameterizes the reconnect policy.
type Config struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64 // in [0, 1]
	MaxAttempts  *int    // nil = unlimited; 0 = disabled
}

// DefaultConfig returns the spec's recommended defaults: initial 100ms,
// max 30s, multiplier 2.0, jitter 0.2, no attempt cap.
func DefaultConfig() Config {
	return Config{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.2,
	}
}

// WithInitialDelay returns a copy of c with InitialDelay set.
func (c Config) WithInitialDelay(d time.Duration) Config { c.InitialDelay = d; return c }

// WithMaxDelay returns a copy of c with MaxDelay set.
func (c Config) WithMaxDelay(d time.Duration) Config { c.MaxDelay = d; return c }

// WithMultiplier returns a copy of c with Multiplier set.
func (c Config) WithMultiplier(m float64) Config { c.Multiplier = m; return c }

// WithJitter returns a copy of c with Jitter clamped to [0, 1].
func (c Config) WithJitter(j float64) Config {
	if j < 0 {
		j = 0
	}
	if j > 1 {
		j = 1
	}
	c.Jitter = j
	return c
}

// WithMaxAttempts returns a copy of c with an attempt cap.
func (c Config) WithMaxAttempts(n int) Config { c.MaxAttempts = &n; return c }

// Disabled returns a copy of c with reconnection turned off entirely
// (MaxAttempts = 0).
func (c Config) Disabled() Config { return c.WithMaxAttempts(0) }

// DelayForAttempt returns the base delay for a 1-indexed attempt, with
// attempt 0 treated as the first attempt's delay (InitialDelay).
func (c Config) DelayForAttempt(attempt int) time.Duration {
	if attempt <= 0 {
		return c.InitialDelay
	}
	exponent := float64(attempt - 1)
	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, exponent)
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	return time.Duration(delay)
}

// ApplyJitter scales base by a uniformly random factor in
// [1-Jitter, 1+Jitter].
func (c Config) ApplyJitter(base time.Duration) time.Duration {
	if c.Jitter <= 0 {
		return base
	}
	factor := 1 + (rand.Float64()*2-1)*c.Jitter
	return time.Duration(float64(base) * factor)
}

// DelayWithJitter returns DelayForAttempt(attempt) with jitter applied.
func (c Config) DelayWithJitter(attempt int) time.Duration {
	return c.ApplyJitter(c.DelayForAttempt(attempt))
}

// ShouldReconnect reports whether another attempt is permitted.
func (c Config) ShouldReconnect(attempt int) bool {
	if c.MaxAttempts == nil {
		return true
	}
	return attempt < *c.MaxAttempts
}
