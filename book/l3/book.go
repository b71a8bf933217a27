package l3

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hitakshiA/Havklo-sdk-sub000/checksum"
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

const packageError = "l3 book error: %w"

var errEmptySymbol = errors.New("l3: symbol must not be empty")

var twoL3 = mustTwo()

func mustTwo() types.Decimal {
	v, err := types.ParseDecimal("2")
	if err != nil {
		panic(err)
	}
	return v
}

// ChecksumMismatch mirrors book.ChecksumMismatch for the L3 aggregated view.
type ChecksumMismatch struct {
	Symbol   string
	Expected uint32
	Computed uint32
}

func (e *ChecksumMismatch) Error() string {
	return fmt.Sprintf("l3 book %s: checksum mismatch: expected %d, computed %d", e.Symbol, e.Expected, e.Computed)
}

// side is one sorted slice of price levels, ascending or descending.
type side struct {
	levels     []*PriceLevel
	descending bool
}

func newSide(descending bool) *side { return &side{descending: descending} }

func (s *side) less(a, b types.Decimal) bool {
	if s.descending {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

func (s *side) search(price types.Decimal) int {
	return sort.Search(len(s.levels), func(i int) bool {
		return !s.less(s.levels[i].Price, price)
	})
}

func (s *side) get(price types.Decimal) (*PriceLevel, bool) {
	i := s.search(price)
	if i < len(s.levels) && s.levels[i].Price.Equal(price) {
		return s.levels[i], true
	}
	return nil, false
}

func (s *side) getOrCreate(price types.Decimal) *PriceLevel {
	i := s.search(price)
	if i < len(s.levels) && s.levels[i].Price.Equal(price) {
		return s.levels[i]
	}
	lvl := NewPriceLevel(price)
	s.levels = append(s.levels, nil)
	copy(s.levels[i+1:], s.levels[i:])
	s.levels[i] = lvl
	return lvl
}

func (s *side) dropIfEmpty(price types.Decimal) {
	i := s.search(price)
	if i < len(s.levels) && s.levels[i].Price.Equal(price) && s.levels[i].IsEmpty() {
		s.levels = append(s.levels[:i], s.levels[i+1:]...)
	}
}

func (s *side) truncate(maxDepth int, index map[string]OrderLocation) {
	if maxDepth <= 0 || maxDepth >= len(s.levels) {
		return
	}
	for _, lvl := range s.levels[maxDepth:] {
		for _, o := range lvl.Orders() {
			delete(index, o.OrderID)
		}
	}
	s.levels = s.levels[:maxDepth]
}

// Book is the order-level (L3) book for one symbol.
type Book struct {
	symbol         string
	bids           *side
	asks           *side
	index          map[string]OrderLocation
	depth          int
	lastSequence   uint64
	pricePrecision *int32
	qtyPrecision   *int32
}

// New constructs an L3 Book for symbol at the given per-side depth cap.
func New(symbol string, depth int) (*Book, error) {
	if symbol == "" {
		return nil, fmt.Errorf(packageError, errEmptySymbol)
	}
	if depth <= 0 {
		depth = 10
	}
	return &Book{
		symbol: symbol,
		bids:   newSide(true),
		asks:   newSide(false),
		index:  make(map[string]OrderLocation),
		depth:  depth,
	}, nil
}

// SetPrecision fixes the scale used when rendering checksum digit strings.
func (b *Book) SetPrecision(price, qty int32) {
	b.pricePrecision = &price
	b.qtyPrecision = &qty
}

// Symbol returns the book's symbol.
func (b *Book) Symbol() string { return b.symbol }

// Depth returns the configured per-side depth cap.
func (b *Book) Depth() int { return b.depth }

// LastSequence returns the last applied sequence number.
func (b *Book) LastSequence() uint64 { return b.lastSequence }

// SetLastSequence records the sequence number of the most recently applied message.
func (b *Book) SetLastSequence(seq uint64) { b.lastSequence = seq }

func (b *Book) sideFor(s Side) *side {
	if s == types.Buy {
		return b.bids
	}
	return b.asks
}

// AddOrder inserts a new resting order. Returns false if order_id is already
// present (spec §4.4: reject, no-op).
func (b *Book) AddOrder(o Order, s Side) bool {
	if _, exists := b.index[o.OrderID]; exists {
		return false
	}
	lvl := b.sideFor(s).getOrCreate(o.Price)
	lvl.AddOrder(o)
	b.index[o.OrderID] = OrderLocation{Price: o.Price, Side: s}
	return true
}

// RemoveOrder removes an order by id, returning it if found.
func (b *Book) RemoveOrder(orderID string) (Order, bool) {
	loc, ok := b.index[orderID]
	if !ok {
		return Order{}, false
	}
	s := b.sideFor(loc.Side)
	lvl, ok := s.get(loc.Price)
	if !ok {
		delete(b.index, orderID)
		return Order{}, false
	}
	o, removed := lvl.RemoveOrder(orderID)
	if removed {
		s.dropIfEmpty(loc.Price)
		delete(b.index, orderID)
	}
	return o, removed
}

// ModifyOrder adjusts an order's quantity in place, preserving its queue
// position; returns false if the order is unknown.
func (b *Book) ModifyOrder(orderID string, newQty types.Decimal) bool {
	loc, ok := b.index[orderID]
	if !ok {
		return false
	}
	lvl, ok := b.sideFor(loc.Side).get(loc.Price)
	if !ok {
		return false
	}
	return lvl.ModifyOrder(orderID, newQty)
}

// GetOrder returns the order with the given id, if known.
func (b *Book) GetOrder(orderID string) (Order, bool) {
	loc, ok := b.index[orderID]
	if !ok {
		return Order{}, false
	}
	lvl, ok := b.sideFor(loc.Side).get(loc.Price)
	if !ok {
		return Order{}, false
	}
	return lvl.GetOrder(orderID)
}

// QueuePosition reports the queue rank for an order.
func (b *Book) QueuePosition(orderID string) (QueuePosition, bool) {
	loc, ok := b.index[orderID]
	if !ok {
		return QueuePosition{}, false
	}
	lvl, ok := b.sideFor(loc.Side).get(loc.Price)
	if !ok {
		return QueuePosition{}, false
	}
	return lvl.QueuePosition(orderID)
}

// OrderSide returns the side an order was inserted on.
func (b *Book) OrderSide(orderID string) (Side, bool) {
	loc, ok := b.index[orderID]
	return loc.Side, ok
}

// HasOrder reports whether orderID is currently indexed.
func (b *Book) HasOrder(orderID string) bool {
	_, ok := b.index[orderID]
	return ok
}

// Clear removes every order and price level.
func (b *Book) Clear() {
	b.bids = newSide(true)
	b.asks = newSide(false)
	b.index = make(map[string]OrderLocation)
}

// BestBid returns the best (highest-price) bid level, if any.
func (b *Book) BestBid() (*PriceLevel, bool) {
	if len(b.bids.levels) == 0 {
		return nil, false
	}
	return b.bids.levels[0], true
}

// BestAsk returns the best (lowest-price) ask level, if any.
func (b *Book) BestAsk() (*PriceLevel, bool) {
	if len(b.asks.levels) == 0 {
		return nil, false
	}
	return b.asks.levels[0], true
}

// BestBidPrice returns the best bid price, if any.
func (b *Book) BestBidPrice() (types.Decimal, bool) {
	l, ok := b.BestBid()
	if !ok {
		return types.Zero, false
	}
	return l.Price, true
}

// BestAskPrice returns the best ask price, if any.
func (b *Book) BestAskPrice() (types.Decimal, bool) {
	l, ok := b.BestAsk()
	if !ok {
		return types.Zero, false
	}
	return l.Price, true
}

// Spread returns best_ask - best_bid.
func (b *Book) Spread() (types.Decimal, bool) {
	bid, okB := b.BestBidPrice()
	ask, okA := b.BestAskPrice()
	if !okB || !okA {
		return types.Zero, false
	}
	return ask.Sub(bid), true
}

// MidPrice returns (best_bid+best_ask)/2.
func (b *Book) MidPrice() (types.Decimal, bool) {
	bid, okB := b.BestBidPrice()
	ask, okA := b.BestAskPrice()
	if !okB || !okA {
		return types.Zero, false
	}
	return bid.Add(ask).Div(twoL3), true
}

// BidLevels returns every bid price level, descending.
func (b *Book) BidLevels() []*PriceLevel { return append([]*PriceLevel(nil), b.bids.levels...) }

// AskLevels returns every ask price level, ascending.
func (b *Book) AskLevels() []*PriceLevel { return append([]*PriceLevel(nil), b.asks.levels...) }

// TopBids returns up to n best bid levels.
func (b *Book) TopBids(n int) []*PriceLevel { return topLevels(b.bids.levels, n) }

// TopAsks returns up to n best ask levels.
func (b *Book) TopAsks(n int) []*PriceLevel { return topLevels(b.asks.levels, n) }

func topLevels(levels []*PriceLevel, n int) []*PriceLevel {
	if n > len(levels) {
		n = len(levels)
	}
	out := make([]*PriceLevel, n)
	copy(out, levels[:n])
	return out
}

// BidLevelCount returns the number of distinct bid price levels.
func (b *Book) BidLevelCount() int { return len(b.bids.levels) }

// AskLevelCount returns the number of distinct ask price levels.
func (b *Book) AskLevelCount() int { return len(b.asks.levels) }

// OrderCount returns the total number of indexed orders.
func (b *Book) OrderCount() int { return len(b.index) }

// IsEmpty reports whether the book holds no orders.
func (b *Book) IsEmpty() bool { return len(b.index) == 0 }

// AggregatedBids returns the L2 view (one Level per price) of the bid side.
func (b *Book) AggregatedBids() []types.Level { return aggregate(b.bids.levels) }

// AggregatedAsks returns the L2 view of the ask side.
func (b *Book) AggregatedAsks() []types.Level { return aggregate(b.asks.levels) }

func aggregate(levels []*PriceLevel) []types.Level {
	out := make([]types.Level, len(levels))
	for i, l := range levels {
		out[i] = types.Level{Price: l.Price, Qty: l.TotalQty()}
	}
	return out
}

// TopAggregatedBids returns the L2 view of up to n best bid levels.
func (b *Book) TopAggregatedBids(n int) []types.Level { return aggregate(topLevels(b.bids.levels, n)) }

// TopAggregatedAsks returns the L2 view of up to n best ask levels.
func (b *Book) TopAggregatedAsks(n int) []types.Level { return aggregate(topLevels(b.asks.levels, n)) }

func (b *Book) roundToPrecision(levels []types.Level) []types.Level {
	if b.pricePrecision == nil && b.qtyPrecision == nil {
		return levels
	}
	out := make([]types.Level, len(levels))
	for i, l := range levels {
		out[i] = l
		if b.pricePrecision != nil {
			out[i].Price = l.Price.Round(*b.pricePrecision)
		}
		if b.qtyPrecision != nil {
			out[i].Qty = l.Qty.Round(*b.qtyPrecision)
		}
	}
	return out
}

// ComputeChecksum computes the CRC32 over the top-10 aggregated levels per side.
func (b *Book) ComputeChecksum() uint32 {
	bids := b.roundToPrecision(b.TopAggregatedBids(10))
	asks := b.roundToPrecision(b.TopAggregatedAsks(10))
	return checksum.Compute(bids, asks)
}

// ValidateChecksum compares ComputeChecksum() against expected.
func (b *Book) ValidateChecksum(expected uint32) error {
	computed := b.ComputeChecksum()
	if computed != expected {
		return &ChecksumMismatch{Symbol: b.symbol, Expected: expected, Computed: computed}
	}
	return nil
}

// Truncate drops whole price levels beyond the configured depth cap on each
// side, deleting the index entries of every order in the evicted levels.
func (b *Book) Truncate() {
	b.bids.truncate(b.depth, b.index)
	b.asks.truncate(b.depth, b.index)
}

// TotalBidQty sums the cached total quantity across all bid levels.
func (b *Book) TotalBidQty() types.Decimal { return totalQty(b.bids.levels) }

// TotalAskQty sums the cached total quantity across all ask levels.
func (b *Book) TotalAskQty() types.Decimal { return totalQty(b.asks.levels) }

func totalQty(levels []*PriceLevel) types.Decimal {
	total := types.Zero
	for _, l := range levels {
		total = total.Add(l.TotalQty())
	}
	return total
}

// Imbalance returns (bid_qty-ask_qty)/(bid_qty+ask_qty), or false if both
// sides are empty.
func (b *Book) Imbalance() (float64, bool) {
	bidQty := b.TotalBidQty()
	askQty := b.TotalAskQty()
	total := bidQty.Add(askQty)
	if total.IsZero() {
		return 0, false
	}
	diff := bidQty.Sub(askQty)
	f, _ := diff.Div(total).Float64()
	return f, true
}

// VwapBid returns the volume-weighted average price achievable selling
// targetQty into the bid side, walking from the best bid outward.
func (b *Book) VwapBid(targetQty types.Decimal) (types.Decimal, bool) {
	return vwap(b.bids.levels, targetQty)
}

// VwapAsk returns the volume-weighted average price achievable buying
// targetQty from the ask side, walking from the best ask outward.
func (b *Book) VwapAsk(targetQty types.Decimal) (types.Decimal, bool) {
	return vwap(b.asks.levels, targetQty)
}

func vwap(levels []*PriceLevel, targetQty types.Decimal) (types.Decimal, bool) {
	if targetQty.IsZero() || targetQty.IsNegative() {
		return types.Zero, false
	}
	remaining := targetQty
	weighted := types.Zero
	filled := types.Zero
	for _, lvl := range levels {
		if remaining.IsZero() {
			break
		}
		fillQty := lvl.TotalQty()
		if fillQty.GreaterThan(remaining) {
			fillQty = remaining
		}
		weighted = weighted.Add(lvl.Price.Mul(fillQty))
		filled = filled.Add(fillQty)
		remaining = remaining.Sub(fillQty)
	}
	if filled.IsZero() {
		return types.Zero, false
	}
	return weighted.Div(filled), true
}

// Snapshot is an immutable point-in-time view of the L3 book.
type Snapshot struct {
	Symbol    string
	Bids      []types.Level
	Asks      []types.Level
	BidOrders map[string][]Order
	AskOrders map[string][]Order
	Checksum  uint32
	Sequence  uint64
}

// Snapshot captures the current book state, aggregated plus per-level orders.
func (b *Book) Snapshot() Snapshot {
	s := Snapshot{
		Symbol:    b.symbol,
		Bids:      aggregate(b.bids.levels),
		Asks:      aggregate(b.asks.levels),
		BidOrders: make(map[string][]Order),
		AskOrders: make(map[string][]Order),
		Checksum:  b.ComputeChecksum(),
		Sequence:  b.lastSequence,
	}
	for _, l := range b.bids.levels {
		s.BidOrders[l.Price.String()] = l.Orders()
	}
	for _, l := range b.asks.levels {
		s.AskOrders[l.Price.String()] = l.Orders()
	}
	return s
}

// OrderCount returns the total number of orders in the snapshot.
func (s Snapshot) OrderCount() int {
	n := 0
	for _, os := range s.BidOrders {
		n += len(os)
	}
	for _, os := range s.AskOrders {
		n += len(os)
	}
	return n
}

// BestBidPrice returns the best bid price in the snapshot, if any.
func (s Snapshot) BestBidPrice() (types.Decimal, bool) {
	if len(s.Bids) == 0 {
		return types.Zero, false
	}
	return s.Bids[0].Price, true
}

// BestAskPrice returns the best ask price in the snapshot, if any.
func (s Snapshot) BestAskPrice() (types.Decimal, bool) {
	if len(s.Asks) == 0 {
		return types.Zero, false
	}
	return s.Asks[0].Price, true
}
