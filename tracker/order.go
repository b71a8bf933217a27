// Package tracker implements the order lifecycle tracker of spec §4.12:
// request->order correlation, state transitions across partial fills,
// fill aggregation, and slippage/timing statistics.
//
// Grounded on original_source/crates/kraken-ws/src/order_tracker.rs.
package tracker

import (
	"time"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
	"github.com/hitakshiA/Havklo-sdk-sub000/wire"
)

// LifecycleState is the order's position in its state machine (spec §3).
type LifecycleState int

const (
	Pending LifecycleState = iota
	New
	PartiallyFilled
	Filled
	Canceled
	Expired
	Rejected
)

func (s LifecycleState) String() string {
	switch s {
	case Pending:
		return "pending"
	case New:
		return "new"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	case Canceled:
		return "canceled"
	case Expired:
		return "expired"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// FromKrakenStatus parses the wire's order_status string into a
// LifecycleState. An unrecognized status falls back to Rejected — the only
// sane terminal default for a status word the tracker has never seen
// (see DESIGN.md Open Question resolution #5).
func FromKrakenStatus(status string) LifecycleState {
	switch status {
	case "pending", "pending-new":
		return Pending
	case "new", "open":
		return New
	case "partially_filled", "partiallyfilled", "partial":
		return PartiallyFilled
	case "filled", "closed":
		return Filled
	case "canceled", "cancelled":
		return Canceled
	case "expired":
		return Expired
	default:
		return Rejected
	}
}

// IsActive reports whether the state is one of Pending/New/PartiallyFilled.
func (s LifecycleState) IsActive() bool {
	return s == Pending || s == New || s == PartiallyFilled
}

// IsTerminal reports whether the state will never transition further.
func (s LifecycleState) IsTerminal() bool {
	return s == Filled || s == Canceled || s == Expired || s == Rejected
}

// IsSuccess reports whether the state is the successful terminal outcome.
func (s LifecycleState) IsSuccess() bool { return s == Filled }

// Fill is one partial or full execution against an order.
type Fill struct {
	ExecID      *string
	Price       types.Decimal
	Qty         types.Decimal
	Fee         types.Decimal
	FeeCurrency *string
	Timestamp   string
	Latency     *time.Duration
}

// Value returns price*qty for this fill.
func (f Fill) Value() types.Decimal { return f.Price.Mul(f.Qty) }

// Order is a tracked client order across its whole lifecycle.
type Order struct {
	RequestID    *string
	OrderID      string
	UserRef      *string
	Symbol       string
	Side         types.Side
	OrderType    string
	OriginalQty  types.Decimal
	LimitPrice   *types.Decimal
	State        LifecycleState
	FilledQty    types.Decimal
	Fills        []Fill
	TotalFees    types.Decimal
	FeeCurrency  *string
	CreatedAt    string
	UpdatedAt    string
	CancelReason *string
	RejectReason *string

	submissionTime  *time.Time
	firstFillTime   *time.Time
	completionTime  *time.Time
}

// NewPending constructs a freshly submitted order in the Pending state.
func NewPending(requestID *string, symbol string, side types.Side, qty types.Decimal, limitPrice *types.Decimal) *Order {
	orderType := "market"
	if limitPrice != nil {
		orderType = "limit"
	}
	now := time.Now()
	nowStr := now.UTC().Format(time.RFC3339Nano)
	return &Order{
		RequestID:      requestID,
		Symbol:         symbol,
		Side:           side,
		OrderType:      orderType,
		OriginalQty:    qty,
		LimitPrice:     limitPrice,
		State:          Pending,
		FilledQty:      types.Zero,
		TotalFees:      types.Zero,
		CreatedAt:      nowStr,
		UpdatedAt:      nowStr,
		submissionTime: &now,
	}
}

// RemainingQty returns original_qty - filled_qty.
func (o *Order) RemainingQty() types.Decimal { return o.OriginalQty.Sub(o.FilledQty) }

// FillPercentage returns filled_qty/original_qty*100, 0 if original_qty is zero.
func (o *Order) FillPercentage() float64 {
	if o.OriginalQty.IsZero() {
		return 0
	}
	f, _ := o.FilledQty.Div(o.OriginalQty).Mul(hundred).Float64()
	return f
}

var hundred = mustDecimal("100")

func mustDecimal(s string) types.Decimal {
	d, err := types.ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// AvgFillPrice returns Σ(fill.value())/filled_qty, or false if there are no
// fills or filled_qty is zero.
func (o *Order) AvgFillPrice() (types.Decimal, bool) {
	if len(o.Fills) == 0 || o.FilledQty.IsZero() {
		return types.Zero, false
	}
	total := types.Zero
	for _, f := range o.Fills {
		total = total.Add(f.Value())
	}
	return total.Div(o.FilledQty), true
}

// SlippageBps returns the fill slippage against the order's own limit
// price, in basis points (spec §4.12).
func (o *Order) SlippageBps() (types.Decimal, bool) {
	if o.LimitPrice == nil {
		return types.Zero, false
	}
	return o.SlippageVsReference(*o.LimitPrice)
}

// SlippageVsReference computes slippage against an arbitrary reference
// price (for market orders with no limit price of their own).
func (o *Order) SlippageVsReference(reference types.Decimal) (types.Decimal, bool) {
	avg, ok := o.AvgFillPrice()
	if !ok || reference.IsZero() {
		return types.Zero, false
	}
	diff := avg.Sub(reference)
	bps := diff.Div(reference).Mul(tenThousand)
	if o.Side == types.Sell {
		bps = bps.Neg()
	}
	return bps, true
}

var tenThousand = mustDecimal("10000")

// TimeToFirstFill returns the duration between submission and the first
// fill, if both timestamps were tracked.
func (o *Order) TimeToFirstFill() (time.Duration, bool) {
	if o.submissionTime == nil || o.firstFillTime == nil {
		return 0, false
	}
	return o.firstFillTime.Sub(*o.submissionTime), true
}

// TimeToComplete returns the duration between submission and terminal
// completion, if both timestamps were tracked.
func (o *Order) TimeToComplete() (time.Duration, bool) {
	if o.submissionTime == nil || o.completionTime == nil {
		return 0, false
	}
	return o.completionTime.Sub(*o.submissionTime), true
}

// ActiveDuration returns how long an active order has been outstanding.
func (o *Order) ActiveDuration() (time.Duration, bool) {
	if o.submissionTime == nil {
		return 0, false
	}
	return time.Since(*o.submissionTime), true
}

// FillCount returns the number of fills recorded against this order.
func (o *Order) FillCount() int { return len(o.Fills) }

// HasFills reports whether any fill has been recorded.
func (o *Order) HasFills() bool { return len(o.Fills) > 0 }

// ApplyExecution updates the order from an inbound execution report,
// per spec §4.12's apply() rule.
func (o *Order) ApplyExecution(exec *wire.ExecutionMessage) {
	o.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	if o.OrderID == "" {
		o.OrderID = exec.OrderID
	}
	if exec.CumQty != nil {
		o.FilledQty = *exec.CumQty
	}
	if exec.FeePaid != nil {
		o.TotalFees = *exec.FeePaid
	}
	if exec.FeeCurrency != nil {
		o.FeeCurrency = exec.FeeCurrency
	}

	if exec.LastPrice != nil && exec.LastQty != nil {
		isFirstFill := len(o.Fills) == 0
		var latency *time.Duration
		if o.submissionTime != nil {
			l := time.Since(*o.submissionTime)
			latency = &l
		}
		o.Fills = append(o.Fills, Fill{
			ExecID:      exec.ExecID,
			Price:       *exec.LastPrice,
			Qty:         *exec.LastQty,
			Fee:         o.TotalFees,
			FeeCurrency: exec.FeeCurrency,
			Timestamp:   exec.Timestamp,
			Latency:     latency,
		})
		if isFirstFill {
			now := time.Now()
			o.firstFillTime = &now
		}
	}

	if exec.OrderStatus != "" {
		newState := FromKrakenStatus(exec.OrderStatus)
		if newState != o.State {
			o.State = newState
			if newState.IsTerminal() {
				now := time.Now()
				o.completionTime = &now
				if newState == Canceled {
					reason := exec.ExecType
					o.CancelReason = &reason
				}
				if newState == Rejected {
					reason := exec.ExecType
					o.RejectReason = &reason
				}
			}
		}
	}
}
