package reconnect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayForAttemptExponential(t *testing.T) {
	t.Parallel()
	c := DefaultConfig()
	assert.Equal(t, 100*time.Millisecond, c.DelayForAttempt(0))
	assert.Equal(t, 100*time.Millisecond, c.DelayForAttempt(1))
	assert.Equal(t, 200*time.Millisecond, c.DelayForAttempt(2))
	assert.Equal(t, 400*time.Millisecond, c.DelayForAttempt(3))
}

func TestDelayForAttemptCapsAtMaxDelay(t *testing.T) {
	t.Parallel()
	c := DefaultConfig()
	assert.Equal(t, c.MaxDelay, c.DelayForAttempt(20))
}

func TestApplyJitterWithinBounds(t *testing.T) {
	t.Parallel()
	c := DefaultConfig()
	base := 10 * time.Second
	for i := 0; i < 50; i++ {
		got := c.ApplyJitter(base)
		assert.GreaterOrEqual(t, got, 8*time.Second)
		assert.LessOrEqual(t, got, 12*time.Second)
	}
}

func TestShouldReconnectNoCap(t *testing.T) {
	t.Parallel()
	c := DefaultConfig()
	assert.True(t, c.ShouldReconnect(1000))
}

func TestShouldReconnectZeroCapDisables(t *testing.T) {
	t.Parallel()
	c := DefaultConfig().Disabled()
	assert.False(t, c.ShouldReconnect(0))
}

func TestShouldReconnectRespectsCap(t *testing.T) {
	t.Parallel()
	c := DefaultConfig().WithMaxAttempts(3)
	assert.True(t, c.ShouldReconnect(2))
	assert.False(t, c.ShouldReconnect(3))
}

func TestWithJitterClamps(t *testing.T) {
	t.Parallel()
	c := DefaultConfig().WithJitter(5)
	assert.Equal(t, 1.0, c.Jitter)
	c = DefaultConfig().WithJitter(-1)
	assert.Equal(t, 0.0, c.Jitter)
}
