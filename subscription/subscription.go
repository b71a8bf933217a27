// Package subscription tracks the client's active/pending channel
// subscriptions and produces restoration requests on reconnect (spec §4.6).
//
// Grounded on original_source/crates/kraken-ws/src/subscription.rs.
package subscription

import (
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// Subscription is one (channel, symbols, depth?, snapshot-flag) record.
type Subscription struct {
	Channel  types.Channel
	Symbols  []string
	Depth    *types.Depth
	Snapshot bool
}

// New constructs a generic subscription with snapshot enabled by default.
func New(channel types.Channel, symbols []string) Subscription {
	return Subscription{Channel: channel, Symbols: symbols, Snapshot: true}
}

// Orderbook constructs a book-channel subscription at the given depth.
func Orderbook(symbols []string, depth types.Depth) Subscription {
	s := New(types.ChannelBook, symbols)
	s.Depth = &depth
	return s
}

// Ticker constructs a ticker-channel subscription.
func Ticker(symbols []string) Subscription { return New(types.ChannelTicker, symbols) }

// Trade constructs a trade-channel subscription.
func Trade(symbols []string) Subscription { return New(types.ChannelTrade, symbols) }

// Level3 constructs a level3-channel subscription at the given depth.
func Level3(symbols []string, depth types.Depth) Subscription {
	s := New(types.ChannelLevel3, symbols)
	s.Depth = &depth
	return s
}

// SubscribeParams is the outbound wire shape's params object (spec §6).
type SubscribeParams struct {
	Channel      string   `json:"channel"`
	Symbol       []string `json:"symbol"`
	Depth        *int     `json:"depth,omitempty"`
	Snapshot     *bool    `json:"snapshot,omitempty"`
	Interval     *int     `json:"interval,omitempty"`
	EventTrigger *string  `json:"event_trigger,omitempty"`
	Token        *string  `json:"token,omitempty"`
}

// SubscribeRequest is the full outbound subscribe/unsubscribe wire frame.
type SubscribeRequest struct {
	Method string          `json:"method"`
	ReqID  uint64          `json:"req_id"`
	Params SubscribeParams `json:"params"`
}

// ToRequest renders the subscription as an outbound SubscribeRequest
// carrying reqID.
func (s Subscription) ToRequest(reqID uint64) SubscribeRequest {
	params := SubscribeParams{Channel: s.Channel.String(), Symbol: s.Symbols}
	snapshot := s.Snapshot
	params.Snapshot = &snapshot
	if s.Depth != nil {
		depth := int(s.Depth.AsUint32())
		params.Depth = &depth
	}
	return SubscribeRequest{Method: "subscribe", ReqID: reqID, Params: params}
}
