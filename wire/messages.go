// Package wire decodes raw inbound WebSocket text frames into the spec's
// tagged union of channel messages (spec §4.5, §6).
//
// Grounded on spec §6's wire shapes and
// original_source/crates/kraken-ws/src/connection.rs's message dispatch.
package wire

import (
	"encoding/json"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// Kind discriminates the decoded Message tagged union.
type Kind int

const (
	KindStatus Kind = iota
	KindMethodReply
	KindBookSnapshot
	KindBookUpdate
	KindTicker
	KindTrade
	KindOhlc
	KindHeartbeat
	KindExecution
	KindUnknown
)

// Message is the tagged union produced by Parse.
type Message struct {
	Kind        Kind
	Status      *StatusMessage
	MethodReply *MethodReply
	Book        *BookMessage
	Ticker      *TickerMessage
	Trade       *TradeMessage
	Ohlc        *OhlcMessage
	Execution   *ExecutionMessage
	Raw         json.RawMessage
}

// StatusMessage carries connection metadata (spec §6: channel "status").
type StatusMessage struct {
	APIVersion   string `json:"api_version"`
	ConnectionID uint64 `json:"connection_id"`
	System       string `json:"system"`
	Version      string `json:"version"`
}

type statusEnvelope struct {
	Channel string          `json:"channel"`
	Type    string          `json:"type"`
	Data    []StatusMessage `json:"data"`
}

// MethodReply is a subscribe/unsubscribe/order-method acknowledgement.
type MethodReply struct {
	Method  string          `json:"method"`
	ReqID   *uint64         `json:"req_id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	TimeIn  string          `json:"time_in,omitempty"`
	TimeOut string          `json:"time_out,omitempty"`
}

// BookMessage carries a book snapshot or delta for one symbol.
type BookMessage struct {
	Symbol    string        `json:"symbol"`
	Bids      []types.Level `json:"bids"`
	Asks      []types.Level `json:"asks"`
	Checksum  uint32        `json:"checksum"`
	Timestamp string        `json:"timestamp,omitempty"`
}

type bookEnvelope struct {
	Channel string        `json:"channel"`
	Type    string        `json:"type"`
	Data    []BookMessage `json:"data"`
}

// TickerMessage carries one ticker update.
type TickerMessage struct {
	Symbol    string  `json:"symbol"`
	Bid       *string `json:"bid,omitempty"`
	Ask       *string `json:"ask,omitempty"`
	Last      *string `json:"last,omitempty"`
	Volume    *string `json:"volume,omitempty"`
	VwapToday *string `json:"vwap,omitempty"`
}

type tickerEnvelope struct {
	Channel string          `json:"channel"`
	Type    string          `json:"type"`
	Data    []TickerMessage `json:"data"`
}

// TradeMessage carries one executed trade.
type TradeMessage struct {
	Symbol    string      `json:"symbol"`
	Side      types.Side  `json:"side"`
	Price     types.Decimal `json:"price"`
	Qty       types.Decimal `json:"qty"`
	Timestamp string      `json:"timestamp"`
}

type tradeEnvelope struct {
	Channel string         `json:"channel"`
	Type    string         `json:"type"`
	Data    []TradeMessage `json:"data"`
}

// OhlcMessage carries one OHLC candle update.
type OhlcMessage struct {
	Symbol   string        `json:"symbol"`
	Interval int           `json:"interval"`
	Open     types.Decimal `json:"open"`
	High     types.Decimal `json:"high"`
	Low      types.Decimal `json:"low"`
	Close    types.Decimal `json:"close"`
	Volume   types.Decimal `json:"volume"`
}

type ohlcEnvelope struct {
	Channel string        `json:"channel"`
	Type    string        `json:"type"`
	Data    []OhlcMessage `json:"data"`
}

// ExecutionMessage carries one private order-execution report.
type ExecutionMessage struct {
	OrderID     string         `json:"order_id"`
	Symbol      string         `json:"symbol"`
	Side        types.Side     `json:"side"`
	OrderType   string         `json:"order_type,omitempty"`
	OrderStatus string         `json:"order_status"`
	ExecType    string         `json:"exec_type,omitempty"`
	ExecID      *string        `json:"exec_id,omitempty"`
	OrderQty    *types.Decimal `json:"order_qty,omitempty"`
	CumQty      *types.Decimal `json:"cum_qty,omitempty"`
	LimitPrice  *types.Decimal `json:"limit_price,omitempty"`
	LastPrice   *types.Decimal `json:"last_price,omitempty"`
	LastQty     *types.Decimal `json:"last_qty,omitempty"`
	FeePaid     *types.Decimal `json:"fee_usd_equiv,omitempty"`
	FeeCurrency *string        `json:"fee_currency,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
	ReqID       *uint64        `json:"req_id,omitempty"`
	UserRef     *string        `json:"cl_ord_id,omitempty"`
}

type executionEnvelope struct {
	Channel string             `json:"channel"`
	Type    string             `json:"type"`
	Data    []ExecutionMessage `json:"data"`
}
