package book

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hitakshiA/Havklo-sdk-sub000/checksum"
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

var two = decimal.NewFromInt(2)

const packageError = "book error: %w"

// Sentinel errors returned by Orderbook methods.
var (
	errEmptySymbol = errors.New("book: symbol must not be empty")
	errBadDepth    = errors.New("book: depth must be positive")
)

// State is the L2 orderbook lifecycle state (spec §4.3).
type State int

const (
	Uninitialized State = iota
	AwaitingSnapshot
	Synced
	Desynchronized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case AwaitingSnapshot:
		return "awaiting_snapshot"
	case Synced:
		return "synced"
	case Desynchronized:
		return "desynchronized"
	default:
		return "unknown"
	}
}

// ApplyResult reports how ApplyBookData handled an incoming payload.
type ApplyResult int

const (
	ResultSnapshot ApplyResult = iota
	ResultUpdate
	ResultIgnored
)

// ChecksumMismatch is returned when a computed checksum disagrees with the
// server-provided value (spec §4.1).
type ChecksumMismatch struct {
	Symbol   string
	Expected uint32
	Computed uint32
}

func (e *ChecksumMismatch) Error() string {
	return fmt.Sprintf("book %s: checksum mismatch: expected %d, computed %d", e.Symbol, e.Expected, e.Computed)
}

// Orderbook is the L2 price-level book for one symbol.
type Orderbook struct {
	symbol         string
	bids           *Storage
	asks           *Storage
	lastChecksum   uint32
	state          State
	depth          int
	pricePrecision *int32
	qtyPrecision   *int32
}

// New constructs an Orderbook for symbol at the default depth (10).
func New(symbol string) (*Orderbook, error) {
	return WithDepth(symbol, int(types.DefaultDepth))
}

// WithDepth constructs an Orderbook for symbol truncating storage to depth
// levels per side after every mutation.
func WithDepth(symbol string, depth int) (*Orderbook, error) {
	if symbol == "" {
		return nil, fmt.Errorf(packageError, errEmptySymbol)
	}
	if depth <= 0 {
		return nil, fmt.Errorf(packageError, errBadDepth)
	}
	return &Orderbook{
		symbol: symbol,
		bids:   NewBidStorage(),
		asks:   NewAskStorage(),
		state:  Uninitialized,
		depth:  depth,
	}, nil
}

// SetPrecision fixes the per-pair price/qty scale used to render the
// canonical checksum digit string. Nil leaves the Decimal's own scale.
func (o *Orderbook) SetPrecision(price, qty int32) {
	o.pricePrecision = &price
	o.qtyPrecision = &qty
}

// Symbol returns the book's symbol.
func (o *Orderbook) Symbol() string { return o.symbol }

// State returns the current lifecycle state.
func (o *Orderbook) State() State { return o.state }

// IsSynced reports whether the book is in the Synced state.
func (o *Orderbook) IsSynced() bool { return o.state == Synced }

// LastChecksum returns the last validated checksum.
func (o *Orderbook) LastChecksum() uint32 { return o.lastChecksum }

// Depth returns the configured per-side depth cap.
func (o *Orderbook) Depth() int { return o.depth }

// BestBid returns the best bid level, if any.
func (o *Orderbook) BestBid() (types.Level, bool) { return o.bids.Best() }

// BestAsk returns the best ask level, if any.
func (o *Orderbook) BestAsk() (types.Level, bool) { return o.asks.Best() }

// Spread returns best_ask - best_bid, if both sides are non-empty.
func (o *Orderbook) Spread() (types.Decimal, bool) {
	bid, okB := o.BestBid()
	ask, okA := o.BestAsk()
	if !okB || !okA {
		return types.Zero, false
	}
	return ask.Price.Sub(bid.Price), true
}

// MidPrice returns (best_bid+best_ask)/2, if both sides are non-empty.
func (o *Orderbook) MidPrice() (types.Decimal, bool) {
	bid, okB := o.BestBid()
	ask, okA := o.BestAsk()
	if !okB || !okA {
		return types.Zero, false
	}
	return bid.Price.Add(ask.Price).Div(two), true
}

// BidsVec returns every bid level, descending.
func (o *Orderbook) BidsVec() []types.Level { return o.bids.Levels() }

// AsksVec returns every ask level, ascending.
func (o *Orderbook) AsksVec() []types.Level { return o.asks.Levels() }

// TopBids returns up to n best bid levels.
func (o *Orderbook) TopBids(n int) []types.Level { return o.bids.Top(n) }

// TopAsks returns up to n best ask levels.
func (o *Orderbook) TopAsks(n int) []types.Level { return o.asks.Top(n) }

// BidCount returns the number of bid levels.
func (o *Orderbook) BidCount() int { return o.bids.Count() }

// AskCount returns the number of ask levels.
func (o *Orderbook) AskCount() int { return o.asks.Count() }

// SetAwaitingSnapshot transitions to AwaitingSnapshot, e.g. right after a
// subscribe request is sent.
func (o *Orderbook) SetAwaitingSnapshot() {
	o.state = AwaitingSnapshot
}

// ApplyBookData dispatches to applySnapshot or applyDelta depending on
// isSnapshot, per spec §4.3.
func (o *Orderbook) ApplyBookData(isSnapshot bool, bids, asks []types.Level, expectedChecksum uint32) (ApplyResult, error) {
	if isSnapshot {
		return o.applySnapshot(bids, asks, expectedChecksum)
	}
	return o.applyDelta(bids, asks, expectedChecksum)
}

func (o *Orderbook) applySnapshot(bids, asks []types.Level, expectedChecksum uint32) (ApplyResult, error) {
	o.bids.Clear()
	o.asks.Clear()
	for _, l := range bids {
		o.bids.Insert(l.Price, l.Qty)
	}
	for _, l := range asks {
		o.asks.Insert(l.Price, l.Qty)
	}
	o.bids.Truncate(o.depth)
	o.asks.Truncate(o.depth)

	if err := o.validateChecksum(expectedChecksum); err != nil {
		return ResultSnapshot, err
	}
	o.state = Synced
	return ResultSnapshot, nil
}

func (o *Orderbook) applyDelta(bids, asks []types.Level, expectedChecksum uint32) (ApplyResult, error) {
	if o.state != Synced {
		return ResultIgnored, nil
	}
	for _, l := range bids {
		o.bids.Insert(l.Price, l.Qty)
	}
	for _, l := range asks {
		o.asks.Insert(l.Price, l.Qty)
	}
	o.bids.Truncate(o.depth)
	o.asks.Truncate(o.depth)

	if err := o.validateChecksum(expectedChecksum); err != nil {
		return ResultUpdate, err
	}
	return ResultUpdate, nil
}

// roundToPrecision renders levels at the book's configured price/qty scale,
// if one was set via SetPrecision, before they reach the checksum engine.
func (o *Orderbook) roundToPrecision(levels []types.Level) []types.Level {
	if o.pricePrecision == nil && o.qtyPrecision == nil {
		return levels
	}
	out := make([]types.Level, len(levels))
	for i, l := range levels {
		out[i] = l
		if o.pricePrecision != nil {
			out[i].Price = l.Price.Round(*o.pricePrecision)
		}
		if o.qtyPrecision != nil {
			out[i].Qty = l.Qty.Round(*o.qtyPrecision)
		}
	}
	return out
}

func (o *Orderbook) validateChecksum(expected uint32) error {
	computed := checksum.Compute(o.roundToPrecision(o.bids.Top(10)), o.roundToPrecision(o.asks.Top(10)))
	if computed != expected {
		o.state = Desynchronized
		return &ChecksumMismatch{Symbol: o.symbol, Expected: expected, Computed: computed}
	}
	o.lastChecksum = expected
	return nil
}

// Reset returns the book to Uninitialized and drops all stored levels; used
// ahead of a resubscription after desync.
func (o *Orderbook) Reset() {
	o.bids.Clear()
	o.asks.Clear()
	o.lastChecksum = 0
	o.state = Uninitialized
}

// Snapshot is an immutable point-in-time view of the book.
type Snapshot struct {
	Symbol   string
	Bids     []types.Level
	Asks     []types.Level
	Checksum uint32
	State    State
}

// Snapshot captures the current book state.
func (o *Orderbook) Snapshot() Snapshot {
	return Snapshot{
		Symbol:   o.symbol,
		Bids:     o.bids.Levels(),
		Asks:     o.asks.Levels(),
		Checksum: o.lastChecksum,
		State:    o.state,
	}
}

// BestBidPrice returns the best bid price, if any.
func (s Snapshot) BestBidPrice() (types.Decimal, bool) {
	if len(s.Bids) == 0 {
		return types.Zero, false
	}
	return s.Bids[0].Price, true
}

// BestAskPrice returns the best ask price, if any.
func (s Snapshot) BestAskPrice() (types.Decimal, bool) {
	if len(s.Asks) == 0 {
		return types.Zero, false
	}
	return s.Asks[0].Price, true
}
