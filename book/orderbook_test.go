package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitakshiA/Havklo-sdk-sub000/checksum"
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

func snapshotChecksum(t *testing.T, bids, asks []types.Level) uint32 {
	t.Helper()
	return checksum.Compute(bids, asks)
}

// TestSnapshotThenDelta is seed scenario S1.
func TestSnapshotThenDelta(t *testing.T) {
	t.Parallel()
	ob, err := New("BTC/USD")
	require.NoError(t, err)

	bids := []types.Level{
		{Price: d(t, "100.5"), Qty: d(t, "1.0")},
		{Price: d(t, "100.0"), Qty: d(t, "2.0")},
	}
	asks := []types.Level{
		{Price: d(t, "101.0"), Qty: d(t, "1.0")},
		{Price: d(t, "101.5"), Qty: d(t, "2.0")},
	}
	c1 := snapshotChecksum(t, bids, asks)

	result, err := ob.ApplyBookData(true, bids, asks, c1)
	require.NoError(t, err)
	assert.Equal(t, ResultSnapshot, result)
	assert.Equal(t, Synced, ob.State())

	best, ok := ob.BestBid()
	require.True(t, ok)
	assert.True(t, best.Price.Equal(d(t, "100.5")))

	spread, ok := ob.Spread()
	require.True(t, ok)
	assert.True(t, spread.Equal(d(t, "0.5")))

	delta := []types.Level{{Price: d(t, "100.5"), Qty: types.Zero}}
	newBids := []types.Level{{Price: d(t, "100.0"), Qty: d(t, "2.0")}}
	c2 := snapshotChecksum(t, newBids, asks)

	result, err = ob.ApplyBookData(false, delta, nil, c2)
	require.NoError(t, err)
	assert.Equal(t, ResultUpdate, result)
	assert.Equal(t, Synced, ob.State())

	best, ok = ob.BestBid()
	require.True(t, ok)
	assert.True(t, best.Price.Equal(d(t, "100.0")))

	spread, ok = ob.Spread()
	require.True(t, ok)
	assert.True(t, spread.Equal(d(t, "1.0")))
}

// TestChecksumMismatch is seed scenario S2.
func TestChecksumMismatch(t *testing.T) {
	t.Parallel()
	ob, err := New("BTC/USD")
	require.NoError(t, err)

	bids := []types.Level{
		{Price: d(t, "100.5"), Qty: d(t, "1.0")},
		{Price: d(t, "100.0"), Qty: d(t, "2.0")},
	}
	asks := []types.Level{
		{Price: d(t, "101.0"), Qty: d(t, "1.0")},
		{Price: d(t, "101.5"), Qty: d(t, "2.0")},
	}
	c1 := snapshotChecksum(t, bids, asks)

	_, err = ob.ApplyBookData(true, bids, asks, c1+1)
	require.Error(t, err)
	assert.Equal(t, Desynchronized, ob.State())

	var mismatch *ChecksumMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "BTC/USD", mismatch.Symbol)
	assert.Equal(t, c1+1, mismatch.Expected)
	assert.Equal(t, c1, mismatch.Computed)
}

func TestDeltaBeforeSnapshotIsIgnored(t *testing.T) {
	t.Parallel()
	ob, err := New("ETH/USD")
	require.NoError(t, err)
	ob.SetAwaitingSnapshot()

	result, err := ob.ApplyBookData(false, []types.Level{{Price: d(t, "100"), Qty: d(t, "1")}}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, result)
	assert.Equal(t, AwaitingSnapshot, ob.State())
}

func TestQtyZeroNeverPersistsAfterApply(t *testing.T) {
	t.Parallel()
	ob, err := New("BTC/USD")
	require.NoError(t, err)

	bids := []types.Level{{Price: d(t, "100"), Qty: d(t, "1")}}
	c1 := snapshotChecksum(t, bids, nil)
	_, err = ob.ApplyBookData(true, bids, nil, c1)
	require.NoError(t, err)

	delta := []types.Level{{Price: d(t, "100"), Qty: types.Zero}}
	c2 := snapshotChecksum(t, nil, nil)
	_, err = ob.ApplyBookData(false, delta, nil, c2)
	require.NoError(t, err)

	for _, l := range ob.BidsVec() {
		assert.False(t, l.IsTombstone(), "tombstone level must not persist")
	}
}

func TestNewRejectsEmptySymbol(t *testing.T) {
	t.Parallel()
	_, err := New("")
	assert.Error(t, err)
}
