// Package breaker implements the Closed/Open/HalfOpen circuit breaker of
// spec §4.8, adapting github.com/sony/gobreaker/v2 to the spec's exact
// state vocabulary and manual trip()/reset() operations.
//
// Grounded on original_source/crates/kraken-ws/src/circuit_breaker.rs.
package breaker

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// State mirrors gobreaker's three states under the spec's own names.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "half_open"
	}
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return Open
	case gobreaker.StateHalfOpen:
		return HalfOpen
	default:
		return Closed
	}
}

// Config parameterizes the breaker.
type Config struct {
	FailureThreshold uint32
	SuccessThreshold uint32
	Timeout          time.Duration
}

// DefaultConfig is the spec's recommended default: 5 failures trip, 2
// consecutive successes in HalfOpen close, 30s open timeout.
func DefaultConfig() Config {
	return Config{FailureThreshold: 5, SuccessThreshold: 2, Timeout: 30 * time.Second}
}

// Sensitive trips faster and recovers more cautiously.
func Sensitive() Config {
	return Config{FailureThreshold: 3, SuccessThreshold: 3, Timeout: 60 * time.Second}
}

// Resilient tolerates more failures and recovers faster.
func Resilient() Config {
	return Config{FailureThreshold: 10, SuccessThreshold: 1, Timeout: 15 * time.Second}
}

// Stats summarizes breaker history for operational visibility.
type Stats struct {
	State              State
	TotalFailures       uint64
	TotalSuccesses      uint64
	ConsecutiveFailures uint32
	Trips               uint64
	LastFailure         time.Time
}

// FailureRate returns TotalFailures / (TotalFailures + TotalSuccesses), or 0
// if neither has been recorded yet.
func (s Stats) FailureRate() float64 {
	total := s.TotalFailures + s.TotalSuccesses
	if total == 0 {
		return 0
	}
	return float64(s.TotalFailures) / float64(total)
}

// TimeSinceLastFailure returns the duration since the last recorded
// failure, or zero if none has occurred.
func (s Stats) TimeSinceLastFailure() time.Duration {
	if s.LastFailure.IsZero() {
		return 0
	}
	return time.Since(s.LastFailure)
}

// Breaker wraps gobreaker.CircuitBreaker[struct{}] (the result type is
// irrelevant here — callers use Allow/RecordSuccess/RecordFailure directly
// rather than gobreaker's Execute, so the session's connect-attempt
// lifecycle can straddle suspension points gobreaker's Execute wouldn't
// tolerate) with the spec's manual trip/reset and a stats ledger gobreaker
// does not itself keep.
type Breaker struct {
	mu     sync.Mutex
	inner  *gobreaker.CircuitBreaker[struct{}]
	config Config
	stats  Stats
}

// New constructs a Breaker from config.
func New(config Config) *Breaker {
	st := gobreaker.Settings{
		Name:        "kraken-session",
		MaxRequests: config.SuccessThreshold,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
	}
	return &Breaker{inner: gobreaker.NewCircuitBreaker[struct{}](st), config: config}
}

// WithDefaults constructs a Breaker using DefaultConfig().
func WithDefaults() *Breaker { return New(DefaultConfig()) }

// State returns the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fromGobreaker(b.inner.State())
}

// AllowRequest reports whether a request may proceed right now.
func (b *Breaker) AllowRequest() bool {
	return b.State() != Open
}

// RecordSuccess reports a successful operation to the breaker.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.inner.Execute(func() (struct{}, error) { return struct{}{}, nil })
	b.stats.TotalSuccesses++
	b.stats.ConsecutiveFailures = 0
}

// RecordFailure reports a failed operation to the breaker.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	before := b.inner.State()
	_, _ = b.inner.Execute(func() (struct{}, error) { return struct{}{}, assertedFailure })
	b.stats.TotalFailures++
	b.stats.ConsecutiveFailures++
	b.stats.LastFailure = time.Now()
	if before != gobreaker.StateOpen && b.inner.State() == gobreaker.StateOpen {
		b.stats.Trips++
	}
}

// assertedFailure is the sentinel error fed to gobreaker.Execute to force a
// failure count without performing real work; gobreaker's Execute requires
// a func() (T, error), and Breaker's own callers report success/failure
// directly rather than wrapping arbitrary work.
var assertedFailure = &executionFailed{}

type executionFailed struct{}

func (e *executionFailed) Error() string { return "operation reported as failed" }

// Trip forces the breaker into Open, as if the failure threshold had just
// been crossed.
func (b *Breaker) Trip() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := uint32(0); i < b.config.FailureThreshold && b.inner.State() != gobreaker.StateOpen; i++ {
		_, _ = b.inner.Execute(func() (struct{}, error) { return struct{}{}, assertedFailure })
	}
	b.stats.LastFailure = time.Now()
	if b.inner.State() == gobreaker.StateOpen {
		b.stats.Trips++
	}
}

// Reset forces the breaker back to Closed and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	config := b.config
	b.inner = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "kraken-session",
		MaxRequests: config.SuccessThreshold,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
	})
	b.stats = Stats{}
}

// Stats returns a snapshot of accumulated statistics.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.stats
	s.State = fromGobreaker(b.inner.State())
	return s
}

// IsOpen reports whether the breaker is currently Open.
func (b *Breaker) IsOpen() bool { return b.State() == Open }

// IsClosed reports whether the breaker is currently Closed.
func (b *Breaker) IsClosed() bool { return b.State() == Closed }
