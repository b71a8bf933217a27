package breaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsClosed(t *testing.T) {
	t.Parallel()
	b := New(DefaultConfig())
	assert.Equal(t, Closed, b.State())
	assert.True(t, b.AllowRequest())
}

func TestTripsAfterThresholdFailures(t *testing.T) {
	t.Parallel()
	b := New(Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Hour})
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, Closed, b.State())
	b.RecordFailure()
	assert.Equal(t, Open, b.State())
	assert.False(t, b.AllowRequest())
}

func TestSuccessResetsConsecutiveFailures(t *testing.T) {
	t.Parallel()
	b := New(Config{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Hour})
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.Equal(t, Closed, b.State(), "a success in Closed resets the consecutive-failure counter")
}

func TestManualTripAndReset(t *testing.T) {
	t.Parallel()
	b := New(DefaultConfig())
	b.Trip()
	assert.Equal(t, Open, b.State())

	b.Reset()
	assert.Equal(t, Closed, b.State())
	stats := b.Stats()
	assert.Equal(t, uint64(0), stats.TotalFailures)
}

func TestHalfOpenAfterTimeout(t *testing.T) {
	t.Parallel()
	b := New(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: 10 * time.Millisecond})
	b.RecordFailure()
	require.Equal(t, Open, b.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, HalfOpen, b.State())
}

func TestFailureRate(t *testing.T) {
	t.Parallel()
	b := New(DefaultConfig())
	b.RecordSuccess()
	b.RecordSuccess()
	b.RecordFailure()
	stats := b.Stats()
	assert.InDelta(t, 1.0/3.0, stats.FailureRate(), 1e-9)
}
