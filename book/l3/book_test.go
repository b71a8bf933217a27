package l3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// TestVwapAsk is seed scenario S4.
func TestVwapAsk(t *testing.T) {
	t.Parallel()
	b, err := New("BTC/USD", 10)
	require.NoError(t, err)

	require.True(t, b.AddOrder(Order{OrderID: "a1", Price: dec(t, "100"), Qty: dec(t, "1")}, types.Sell))
	require.True(t, b.AddOrder(Order{OrderID: "a2", Price: dec(t, "101"), Qty: dec(t, "2")}, types.Sell))
	require.True(t, b.AddOrder(Order{OrderID: "a3", Price: dec(t, "102"), Qty: dec(t, "3")}, types.Sell))

	vwap, ok := b.VwapAsk(dec(t, "3"))
	require.True(t, ok)
	f, _ := vwap.Float64()
	assert.InDelta(t, 100.6666666, f, 1e-4)
}

func TestAggregationProducesL2View(t *testing.T) {
	t.Parallel()
	b, err := New("BTC/USD", 10)
	require.NoError(t, err)
	require.True(t, b.AddOrder(Order{OrderID: "b1", Price: dec(t, "100"), Qty: dec(t, "1")}, types.Buy))
	require.True(t, b.AddOrder(Order{OrderID: "b2", Price: dec(t, "100"), Qty: dec(t, "2")}, types.Buy))

	agg := b.AggregatedBids()
	require.Len(t, agg, 1)
	assert.True(t, agg[0].Qty.Equal(dec(t, "3")))
}

func TestTruncateDropsIndexEntries(t *testing.T) {
	t.Parallel()
	b, err := New("BTC/USD", 2)
	require.NoError(t, err)
	require.True(t, b.AddOrder(Order{OrderID: "a1", Price: dec(t, "100"), Qty: dec(t, "1")}, types.Sell))
	require.True(t, b.AddOrder(Order{OrderID: "a2", Price: dec(t, "101"), Qty: dec(t, "1")}, types.Sell))
	require.True(t, b.AddOrder(Order{OrderID: "a3", Price: dec(t, "102"), Qty: dec(t, "1")}, types.Sell))

	b.Truncate()
	assert.Equal(t, 2, b.AskLevelCount())
	assert.False(t, b.HasOrder("a3"), "evicted level's order must leave the index")
}

func TestImbalanceRange(t *testing.T) {
	t.Parallel()
	b, err := New("BTC/USD", 10)
	require.NoError(t, err)
	require.True(t, b.AddOrder(Order{OrderID: "b1", Price: dec(t, "100"), Qty: dec(t, "10")}, types.Buy))
	require.True(t, b.AddOrder(Order{OrderID: "a1", Price: dec(t, "101"), Qty: dec(t, "5")}, types.Sell))

	imbalance, ok := b.Imbalance()
	require.True(t, ok)
	assert.InDelta(t, (10.0-5.0)/(10.0+5.0), imbalance, 1e-9)
}

func TestImbalanceEmptyBookIsUndefined(t *testing.T) {
	t.Parallel()
	b, err := New("BTC/USD", 10)
	require.NoError(t, err)
	_, ok := b.Imbalance()
	assert.False(t, ok)
}
