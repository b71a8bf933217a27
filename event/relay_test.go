package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRelayPanicsOnZeroCapacity(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewRelay(Unbounded, 0) })
}

func TestSendBoundedDropsNewestOnOverflow(t *testing.T) {
	t.Parallel()
	r := NewRelay(BoundedDropNewest, 1)
	require.NoError(t, r.Send(context.Background(), Event{Kind: KindConnection}))
	err := r.Send(context.Background(), Event{Kind: KindMarket})
	assert.ErrorIs(t, err, ErrChannelBufferFull)
	assert.Equal(t, uint64(1), r.DroppedCount())
}

func TestBoundedDropNewestNeverReorders(t *testing.T) {
	t.Parallel()
	r := NewRelay(BoundedDropNewest, 1)
	require.NoError(t, r.Send(context.Background(), Event{Kind: KindConnection}))
	_ = r.Send(context.Background(), Event{Kind: KindMarket}) // dropped
	ch, ok := r.Take()
	require.True(t, ok)
	got := <-ch
	assert.Equal(t, KindConnection, got.Kind, "the surviving event must be the one delivered first")
}

func TestUnboundedNeverDrops(t *testing.T) {
	t.Parallel()
	r := NewRelay(Unbounded, 1)
	for i := 0; i < 5; i++ {
		go func() { _ = r.Send(context.Background(), Event{Kind: KindMarket}) }()
	}
	ch, ok := r.Take()
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		<-ch
	}
	assert.Equal(t, uint64(0), r.DroppedCount())
}

func TestTakeOnlyOnce(t *testing.T) {
	t.Parallel()
	r := NewRelay(Unbounded, 1)
	_, ok := r.Take()
	require.True(t, ok)
	_, ok = r.Take()
	assert.False(t, ok)
}

func TestCloseSignalsConsumer(t *testing.T) {
	t.Parallel()
	r := NewRelay(Unbounded, 1)
	r.Close()
	_, ok := <-r.C
	assert.False(t, ok)
}
