package types

import "fmt"

// Side is the book/order side.
type Side int

const (
	Buy Side = iota
	Sell
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// MarshalJSON renders Side as the wire's lowercase string.
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the wire's lowercase side string.
func (s *Side) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"buy"`:
		*s = Buy
	case `"sell"`:
		*s = Sell
	default:
		return fmt.Errorf("unknown side %s", data)
	}
	return nil
}

// Channel identifies a subscribable WebSocket channel.
type Channel int

const (
	ChannelTicker Channel = iota
	ChannelBook
	ChannelTrade
	ChannelOhlc
	ChannelInstrument
	ChannelExecutions
	ChannelBalances
	ChannelStatus
	ChannelLevel3
)

func (c Channel) String() string {
	switch c {
	case ChannelTicker:
		return "ticker"
	case ChannelBook:
		return "book"
	case ChannelTrade:
		return "trade"
	case ChannelOhlc:
		return "ohlc"
	case ChannelInstrument:
		return "instrument"
	case ChannelExecutions:
		return "executions"
	case ChannelBalances:
		return "balances"
	case ChannelStatus:
		return "status"
	case ChannelLevel3:
		return "level3"
	default:
		return "unknown"
	}
}

// IsPrivate reports whether the channel requires an authenticated token.
func (c Channel) IsPrivate() bool {
	return c == ChannelExecutions || c == ChannelBalances || c == ChannelLevel3
}

// IsL3 reports whether the channel carries order-level (not price-level) data.
func (c Channel) IsL3() bool {
	return c == ChannelLevel3
}

// Depth is the configured number of levels per side for a book subscription.
type Depth int

const (
	Depth10   Depth = 10
	Depth25   Depth = 25
	Depth100  Depth = 100
	Depth500  Depth = 500
	Depth1000 Depth = 1000
)

// AsUint32 returns the numeric depth as used on the wire.
func (d Depth) AsUint32() uint32 {
	return uint32(d)
}

// DefaultDepth is the depth assumed when none is configured.
const DefaultDepth = Depth10

// OrderType is the Kraken order type.
type OrderType int

const (
	OrderMarket OrderType = iota
	OrderLimit
	OrderStopLoss
	OrderTakeProfit
	OrderStopLossLimit
	OrderTakeProfitLimit
)

func (t OrderType) String() string {
	switch t {
	case OrderMarket:
		return "market"
	case OrderLimit:
		return "limit"
	case OrderStopLoss:
		return "stop-loss"
	case OrderTakeProfit:
		return "take-profit"
	case OrderStopLossLimit:
		return "stop-loss-limit"
	case OrderTakeProfitLimit:
		return "take-profit-limit"
	default:
		return "unknown"
	}
}

// TimeInForce controls order lifetime semantics for order requests.
type TimeInForce int

const (
	TimeInForceGTC TimeInForce = iota
	TimeInForceIOC
	TimeInForceGTD
)

func (t TimeInForce) String() string {
	switch t {
	case TimeInForceGTC:
		return "gtc"
	case TimeInForceIOC:
		return "ioc"
	case TimeInForceGTD:
		return "gtd"
	default:
		return "gtc"
	}
}

// OhlcInterval is a candle interval, in minutes, for the OHLC channel.
type OhlcInterval int

const (
	Interval1m    OhlcInterval = 1
	Interval5m    OhlcInterval = 5
	Interval15m   OhlcInterval = 15
	Interval30m   OhlcInterval = 30
	Interval1h    OhlcInterval = 60
	Interval4h    OhlcInterval = 240
	Interval1d    OhlcInterval = 1440
	Interval15d   OhlcInterval = 21600
)

// SystemStatus is the exchange-wide trading status carried on the status channel.
type SystemStatus int

const (
	StatusOnline SystemStatus = iota
	StatusCancelOnly
	StatusPostOnly
	StatusLimitOnly
	StatusReduceOnly
	StatusMaintenance
)

func (s SystemStatus) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusCancelOnly:
		return "cancel_only"
	case StatusPostOnly:
		return "post_only"
	case StatusLimitOnly:
		return "limit_only"
	case StatusReduceOnly:
		return "reduce_only"
	case StatusMaintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// ParseSystemStatus parses the wire's system status string.
func ParseSystemStatus(s string) (SystemStatus, bool) {
	switch s {
	case "online":
		return StatusOnline, true
	case "cancel_only":
		return StatusCancelOnly, true
	case "post_only":
		return StatusPostOnly, true
	case "limit_only":
		return StatusLimitOnly, true
	case "reduce_only":
		return StatusReduceOnly, true
	case "maintenance":
		return StatusMaintenance, true
	default:
		return StatusOnline, false
	}
}

// TickerTrigger selects what moves the Ticker channel's last-price field.
type TickerTrigger int

const (
	TriggerTrades TickerTrigger = iota
	TriggerBbo
)

func (t TickerTrigger) String() string {
	if t == TriggerBbo {
		return "bbo"
	}
	return "trades"
}
