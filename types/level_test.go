package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelUnmarshalJSONQuotedString(t *testing.T) {
	t.Parallel()
	var l Level
	require.NoError(t, json.Unmarshal([]byte(`{"price":"100.50","qty":"2.00000000"}`), &l))
	assert.True(t, l.Price.Equal(mustDecimal(t, "100.50")))
	assert.True(t, l.Qty.Equal(mustDecimal(t, "2.00000000")))
}

func TestLevelUnmarshalJSONPlainNumber(t *testing.T) {
	t.Parallel()
	var l Level
	require.NoError(t, json.Unmarshal([]byte(`{"price":100.5,"qty":2}`), &l))
	assert.True(t, l.Price.Equal(mustDecimal(t, "100.5")))
	assert.True(t, l.Qty.Equal(mustDecimal(t, "2")))
}

func TestLevelIsTombstone(t *testing.T) {
	t.Parallel()
	l := Level{Price: mustDecimal(t, "100"), Qty: Zero}
	assert.True(t, l.IsTombstone())

	l.Qty = mustDecimal(t, "0.1")
	assert.False(t, l.IsTombstone())
}

func TestLevelRoundTrip(t *testing.T) {
	t.Parallel()
	original := Level{Price: mustDecimal(t, "45285.20000000"), Qty: mustDecimal(t, "0.00100000")}
	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Level
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.True(t, decoded.Price.Equal(original.Price))
	assert.True(t, decoded.Qty.Equal(original.Qty))
}

func mustDecimal(t *testing.T, s string) Decimal {
	t.Helper()
	d, err := ParseDecimal(s)
	require.NoError(t, err)
	return d
}
