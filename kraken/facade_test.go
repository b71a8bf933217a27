package kraken

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitakshiA/Havklo-sdk-sub000/auth"
	"github.com/hitakshiA/Havklo-sdk-sub000/event"
	"github.com/hitakshiA/Havklo-sdk-sub000/krakenerr"
	"github.com/hitakshiA/Havklo-sdk-sub000/tracker"
)

func validKeyB64() string {
	return base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestConnectRejectsEmptySymbols(t *testing.T) {
	t.Parallel()
	_, err := NewBuilder().Connect(context.Background())
	require.Error(t, err)
	var invalid *krakenerr.InvalidState
	assert.ErrorAs(t, err, &invalid)
}

func TestConnectRejectsPrivateWithoutCredentials(t *testing.T) {
	t.Parallel()
	b := NewBuilder().WithSymbols("BTC/USD")
	b.private = true
	_, err := b.Connect(context.Background())
	require.Error(t, err)
	var invalid *krakenerr.InvalidState
	assert.ErrorAs(t, err, &invalid)
}

func TestBuilderDefaultsToPublicBookChannel(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	assert.Equal(t, defaultPublicURL, b.url)
	require.Len(t, b.channels, 1)
}

func TestWithPrivateSwitchesURL(t *testing.T) {
	t.Parallel()
	creds, err := auth.New("key", validKeyB64())
	require.NoError(t, err)
	b := NewBuilder().WithPrivate(creds)
	assert.Equal(t, defaultPrivateURL, b.url)
	assert.True(t, b.private)
}

func TestObserveIgnoresNonExecutionEvents(t *testing.T) {
	t.Parallel()
	c := &Client{tracker: tracker.NewOrderTracker(tracker.DefaultConfig())}
	c.Observe(event.Event{
		Kind: event.KindConnection,
		At:   time.Now(),
		Connection: &event.ConnectionEvent{Type: "connected"},
	})
	assert.Empty(t, c.Tracker().All())
}

func TestObserveRoutesExecutionToTracker(t *testing.T) {
	t.Parallel()
	c := &Client{tracker: tracker.NewOrderTracker(tracker.DefaultConfig())}
	raw := []byte(`{"channel":"executions","type":"update","data":[{"order_id":"O-1","order_status":"new","symbol":"BTC/USD","side":"buy"}]}`)
	c.Observe(event.Event{
		Kind:    event.KindPrivate,
		At:      time.Now(),
		Private: &event.PrivateEvent{Type: "execution", Raw: raw},
	})
	got, ok := c.Tracker().Get("O-1")
	require.True(t, ok, "an execution for an order this tracker never submitted is synthesized, not dropped")
	assert.Equal(t, "BTC/USD", got.Symbol)
}
