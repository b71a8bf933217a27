package book

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

func d(t *testing.T, s string) types.Decimal {
	t.Helper()
	v, err := types.ParseDecimal(s)
	require.NoError(t, err)
	return v
}

func TestBidStorageDescendingOrder(t *testing.T) {
	t.Parallel()
	s := NewBidStorage()
	s.Insert(d(t, "100"), d(t, "1"))
	s.Insert(d(t, "101"), d(t, "1"))
	s.Insert(d(t, "99"), d(t, "1"))

	levels := s.Levels()
	require.Len(t, levels, 3)
	assert.True(t, levels[0].Price.Equal(d(t, "101")))
	assert.True(t, levels[1].Price.Equal(d(t, "100")))
	assert.True(t, levels[2].Price.Equal(d(t, "99")))
}

func TestAskStorageAscendingOrder(t *testing.T) {
	t.Parallel()
	s := NewAskStorage()
	s.Insert(d(t, "101"), d(t, "1"))
	s.Insert(d(t, "100"), d(t, "1"))

	levels := s.Levels()
	require.Len(t, levels, 2)
	assert.True(t, levels[0].Price.Equal(d(t, "100")))
}

func TestInsertZeroQtyRemoves(t *testing.T) {
	t.Parallel()
	s := NewBidStorage()
	s.Insert(d(t, "100"), d(t, "1"))
	require.Equal(t, 1, s.Count())
	s.Insert(d(t, "100"), d(t, "0"))
	assert.Equal(t, 0, s.Count())
}

func TestTruncateExactlyAtCapacityKeepsAll(t *testing.T) {
	t.Parallel()
	s := NewBidStorage()
	for i := 100; i < 105; i++ {
		s.Insert(d(t, strconv.Itoa(i)), d(t, "1"))
	}
	require.Equal(t, 5, s.Count())
	s.Truncate(5)
	assert.Equal(t, 5, s.Count(), "depth cap exactly at capacity evicts nothing")
}

func TestTruncateBeyondCapacityEvicts(t *testing.T) {
	t.Parallel()
	s := NewAskStorage()
	for i := 100; i < 110; i++ {
		s.Insert(d(t, strconv.Itoa(i)), d(t, "1"))
	}
	s.Truncate(3)
	assert.Equal(t, 3, s.Count())
	levels := s.Levels()
	assert.True(t, levels[0].Price.Equal(d(t, "100")))
	assert.True(t, levels[2].Price.Equal(d(t, "102")))
}
