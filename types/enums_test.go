package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSideOpposite(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Sell, Buy.Opposite())
	assert.Equal(t, Buy, Sell.Opposite())
}

func TestSideJSONRoundTrip(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(Buy)
	assert.NoError(t, err)
	assert.Equal(t, `"buy"`, string(data))

	var s Side
	assert.NoError(t, json.Unmarshal([]byte(`"sell"`), &s))
	assert.Equal(t, Sell, s)
}

func TestChannelIsPrivate(t *testing.T) {
	t.Parallel()
	assert.True(t, ChannelExecutions.IsPrivate())
	assert.True(t, ChannelBalances.IsPrivate())
	assert.True(t, ChannelLevel3.IsPrivate())
	assert.False(t, ChannelBook.IsPrivate())
}

func TestParseSystemStatus(t *testing.T) {
	t.Parallel()
	status, ok := ParseSystemStatus("post_only")
	assert.True(t, ok)
	assert.Equal(t, StatusPostOnly, status)

	_, ok = ParseSystemStatus("bogus")
	assert.False(t, ok)
}
