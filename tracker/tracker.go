package tracker

import (
	"sync"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
	"github.com/hitakshiA/Havklo-sdk-sub000/wire"
)

// Config tunes the tracker's housekeeping behaviour.
type Config struct {
	// MaxCompletedOrders is stored with the tracker but not read by it;
	// terminal orders are retained until ClearCompleted or Clear is called.
	MaxCompletedOrders int
}

// DefaultConfig returns the tracker's default configuration.
func DefaultConfig() Config {
	return Config{MaxCompletedOrders: 0}
}

// Stats summarizes the tracker's population at a point in time.
type Stats struct {
	Total           int
	Active          int
	Filled          int
	Canceled        int
	Rejected        int
	Expired         int
	PendingCorrelation int
}

// FillStatistics summarizes fills across a set of orders.
type FillStatistics struct {
	TotalFills     int
	TotalFilledQty types.Decimal
	TotalFees      types.Decimal
	AvgSlippageBps types.Decimal
	SlippageSamples int
}

// OrderTracker correlates order submissions with execution reports and
// tracks each order through its lifecycle (spec §4.12).
//
// Grounded on original_source/crates/kraken-ws/src/order_tracker.rs, with
// the correlation rule widened per spec §4.12 to match on (symbol, side)
// and — when present — user_ref, rather than the looser lookup the
// original implementation used (see DESIGN.md Open Question resolution #1).
type OrderTracker struct {
	mu sync.RWMutex

	ordersByID        map[string]*Order
	ordersByRequestID map[string]*Order
	pendingOrders     []*Order

	config Config
}

// NewOrderTracker constructs an empty tracker.
func NewOrderTracker(config Config) *OrderTracker {
	return &OrderTracker{
		ordersByID:        make(map[string]*Order),
		ordersByRequestID: make(map[string]*Order),
		pendingOrders:     nil,
		config:            config,
	}
}

// TrackSubmission registers a newly submitted order awaiting its first
// execution report. It is indexed by request id (if any) and held in the
// pending set until an execution correlates it to a kraken order id.
func (t *OrderTracker) TrackSubmission(order *Order) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if order.RequestID != nil {
		t.ordersByRequestID[*order.RequestID] = order
	}
	t.pendingOrders = append(t.pendingOrders, order)
}

// HandleExecution applies an inbound execution report to its matching
// tracked order, correlating in three steps: by kraken order id (exact,
// for subsequent reports on an already-correlated order), by request id
// (exact), and then — only for orders still pending correlation — by
// (symbol, side) and user_ref when the report carries one. When none of
// the three steps match, the execution belongs to an order this tracker
// never saw submitted (e.g. placed from another session); per spec §4.12
// step 3 and the original's "new order we haven't seen before" branch
// (order_tracker.rs), an Order is synthesized directly from the
// execution report and indexed under its order id.
func (t *OrderTracker) HandleExecution(exec *wire.ExecutionMessage) *Order {
	t.mu.Lock()
	defer t.mu.Unlock()

	if order, ok := t.ordersByID[exec.OrderID]; ok {
		order.ApplyExecution(exec)
		return order
	}

	if exec.ReqID != nil {
		for _, o := range t.pendingOrders {
			if o.RequestID != nil && *o.RequestID == requestIDFromUint(*exec.ReqID) {
				return t.correlate(o, exec)
			}
		}
	}

	for i, o := range t.pendingOrders {
		if o == nil {
			continue
		}
		if o.Symbol != exec.Symbol || o.Side != exec.Side {
			continue
		}
		if o.UserRef != nil && exec.UserRef != nil && *o.UserRef != *exec.UserRef {
			continue
		}
		t.pendingOrders[i] = nil
		return t.correlate(o, exec)
	}

	qty := types.Zero
	if exec.OrderQty != nil {
		qty = *exec.OrderQty
	}
	o := NewPending(nil, exec.Symbol, exec.Side, qty, exec.LimitPrice)
	o.OrderID = exec.OrderID
	o.UserRef = exec.UserRef
	t.ordersByID[exec.OrderID] = o
	o.ApplyExecution(exec)
	return o
}

func requestIDFromUint(id uint64) string {
	return formatUint(id)
}

func formatUint(id uint64) string {
	if id == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = byte('0' + id%10)
		id /= 10
	}
	return string(buf[i:])
}

func (t *OrderTracker) correlate(o *Order, exec *wire.ExecutionMessage) *Order {
	o.OrderID = exec.OrderID
	t.ordersByID[exec.OrderID] = o
	o.ApplyExecution(exec)
	t.removePending(o)
	return o
}

func (t *OrderTracker) removePending(target *Order) {
	filtered := t.pendingOrders[:0]
	for _, o := range t.pendingOrders {
		if o != target && o != nil {
			filtered = append(filtered, o)
		}
	}
	t.pendingOrders = filtered
}

// Get returns the order tracked under the given kraken order id.
func (t *OrderTracker) Get(orderID string) (*Order, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	o, ok := t.ordersByID[orderID]
	return o, ok
}

// GetByRequestID returns the order tracked under the given client request id.
func (t *OrderTracker) GetByRequestID(requestID string) (*Order, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	o, ok := t.ordersByRequestID[requestID]
	return o, ok
}

// All returns every tracked order, correlated or not.
func (t *OrderTracker) All() []*Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seen := make(map[*Order]bool)
	out := make([]*Order, 0, len(t.ordersByID)+len(t.pendingOrders))
	for _, o := range t.ordersByID {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	for _, o := range t.pendingOrders {
		if o != nil && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// ByState returns every tracked order in the given lifecycle state.
func (t *OrderTracker) ByState(state LifecycleState) []*Order {
	return t.Filter(func(o *Order) bool { return o.State == state })
}

// ActiveOrders returns every order whose state is still active.
func (t *OrderTracker) ActiveOrders() []*Order {
	return t.Filter(func(o *Order) bool { return o.State.IsActive() })
}

// BySymbol returns every tracked order for the given symbol.
func (t *OrderTracker) BySymbol(symbol string) []*Order {
	return t.Filter(func(o *Order) bool { return o.Symbol == symbol })
}

// BySide returns every tracked order on the given side.
func (t *OrderTracker) BySide(side types.Side) []*Order {
	return t.Filter(func(o *Order) bool { return o.Side == side })
}

// Filter returns every tracked order satisfying predicate.
func (t *OrderTracker) Filter(predicate func(*Order) bool) []*Order {
	all := t.All()
	out := make([]*Order, 0, len(all))
	for _, o := range all {
		if predicate(o) {
			out = append(out, o)
		}
	}
	return out
}

// Stats computes a population summary across all tracked orders.
func (t *OrderTracker) Stats() Stats {
	all := t.All()
	s := Stats{Total: len(all)}
	t.mu.RLock()
	s.PendingCorrelation = len(t.pendingOrders)
	t.mu.RUnlock()
	for _, o := range all {
		switch {
		case o.State.IsActive():
			s.Active++
		case o.State == Filled:
			s.Filled++
		case o.State == Canceled:
			s.Canceled++
		case o.State == Rejected:
			s.Rejected++
		case o.State == Expired:
			s.Expired++
		}
	}
	return s
}

// CountByState returns how many tracked orders are in the given state.
func (t *OrderTracker) CountByState(state LifecycleState) int {
	return len(t.ByState(state))
}

// FillStatistics aggregates fill data across the given orders.
func (t *OrderTracker) FillStatistics(orders []*Order) FillStatistics {
	stats := FillStatistics{TotalFilledQty: types.Zero, TotalFees: types.Zero}
	slippageSum := types.Zero
	for _, o := range orders {
		stats.TotalFills += o.FillCount()
		stats.TotalFilledQty = stats.TotalFilledQty.Add(o.FilledQty)
		stats.TotalFees = stats.TotalFees.Add(o.TotalFees)
		if bps, ok := o.SlippageBps(); ok {
			slippageSum = slippageSum.Add(bps)
			stats.SlippageSamples++
		}
	}
	if stats.SlippageSamples > 0 {
		stats.AvgSlippageBps = slippageSum.Div(mustDecimal(itoa(stats.SlippageSamples)))
	}
	return stats
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ClearCompleted removes every order in a terminal state from the
// tracker's indices, keeping memory bounded for long-running sessions.
func (t *OrderTracker) ClearCompleted() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, o := range t.ordersByID {
		if o.State.IsTerminal() {
			delete(t.ordersByID, id)
			removed++
		}
	}
	for reqID, o := range t.ordersByRequestID {
		if o.State.IsTerminal() {
			delete(t.ordersByRequestID, reqID)
		}
	}
	return removed
}

// Clear removes every tracked order, correlated or pending.
func (t *OrderTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ordersByID = make(map[string]*Order)
	t.ordersByRequestID = make(map[string]*Order)
	t.pendingOrders = nil
}
