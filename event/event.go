// Package event defines the tagged Event union emitted by a session and the
// fan-out channel that carries it to a single consumer (spec §4.11).
//
// The channel itself is grounded on the teacher's
// exchange/stream/relay_test.go (a generic bounded Relay[T] with Send/Close
// semantics); this package generalizes that shape to the spec's two
// delivery modes (unbounded, and bounded-with-drop-newest).
package event

import (
	"time"

	"github.com/hitakshiA/Havklo-sdk-sub000/book"
	"github.com/hitakshiA/Havklo-sdk-sub000/book/l3"
	"github.com/hitakshiA/Havklo-sdk-sub000/checksum"
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// Kind discriminates the Event tagged union.
type Kind int

const (
	KindConnection Kind = iota
	KindSubscription
	KindMarket
	KindPrivate
	KindL3
)

// Event is the single tagged union carried by the fan-out channel.
type Event struct {
	Kind Kind
	At   time.Time

	Connection   *ConnectionEvent
	Subscription *SubscriptionEvent
	Market       *MarketEvent
	Private      *PrivateEvent
	L3           *L3Event
}

// ConnectionEvent covers session lifecycle notifications.
type ConnectionEvent struct {
	Type          string // "connected", "disconnected", "reconnecting", "reconnect_failed"
	Reason        string
	Attempt       int
	Delay         time.Duration
	APIVersion    string
	ConnectionID  string
	RestoredCount int
}

// SubscriptionEvent covers subscribe/unsubscribe acknowledgement notifications.
type SubscriptionEvent struct {
	Type    string // "subscribed", "rejected"
	Channel types.Channel
	Symbols []string
	ReqID   uint64
	Error   string
}

// MarketEvent covers public market-data notifications (book, ticker, trade, ohlc, status).
type MarketEvent struct {
	Type             string // "orderbook_snapshot", "orderbook_update", "checksum_mismatch", "ticker", "trade", "ohlc", "status", "heartbeat"
	Symbol           string
	Snapshot         *book.Snapshot
	ChecksumMismatch *checksum.Result
	Raw              []byte
}

// PrivateEvent covers authenticated execution/balance notifications.
type PrivateEvent struct {
	Type string
	Raw  []byte
}

// L3Event covers level-3 book notifications.
type L3Event struct {
	Type     string
	Symbol   string
	Snapshot *l3.Snapshot
}
