package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

func mustLevel(t *testing.T, price, qty string) types.Level {
	t.Helper()
	p, err := types.ParseDecimal(price)
	require.NoError(t, err)
	q, err := types.ParseDecimal(qty)
	require.NoError(t, err)
	return types.Level{Price: p, Qty: q}
}

func TestFormatForChecksum(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"45285.2", "452852"},
		{"0.00100000", "100000"},
		{"0.05005", "5005"},
		{"0", "0"},
		{"0.0", "0"},
	}
	for _, tc := range cases {
		d, err := types.ParseDecimal(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, formatForChecksum(d), "input %q", tc.in)
	}
}

func TestComputeUsesTopTenOnly(t *testing.T) {
	t.Parallel()
	var asks []types.Level
	for i := 0; i < 15; i++ {
		asks = append(asks, mustLevel(t, "100", "1"))
	}
	full := Compute(nil, asks)
	truncated := Compute(nil, asks[:10])
	assert.Equal(t, truncated, full, "levels beyond the top ten must not affect the checksum")
}

func TestComputeNeverPadsFewerThanTen(t *testing.T) {
	t.Parallel()
	bids := []types.Level{mustLevel(t, "100", "1")}
	got := Compute(bids, nil)
	assert.NotZero(t, got)
}

func TestComputeDeterministic(t *testing.T) {
	t.Parallel()
	bids := []types.Level{mustLevel(t, "100.5", "1.0"), mustLevel(t, "100.0", "2.0")}
	asks := []types.Level{mustLevel(t, "101.0", "1.0"), mustLevel(t, "101.5", "2.0")}
	a := Compute(bids, asks)
	b := Compute(bids, asks)
	assert.Equal(t, a, b)
}
