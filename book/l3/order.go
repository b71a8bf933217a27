// Package l3 implements the order-level (L3) book: per-price FIFO order
// queues, an order-id index for O(1) modify/remove, queue-position queries,
// and aggregation to an L2 view.
//
// Grounded on original_source/crates/kraken-book/src/l3/order.go and
// l3/book.rs.
package l3

import (
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// Side distinguishes bid/ask within the L3 book, mirroring types.Side.
type Side = types.Side

// Order is a single resting order at a price level.
type Order struct {
	OrderID   string
	Price     types.Decimal
	Qty       types.Decimal
	Timestamp int64
	Sequence  uint64
}

// PriceLevel is one price's FIFO queue of orders plus a cached total quantity.
type PriceLevel struct {
	Price    types.Decimal
	orders   []Order
	totalQty types.Decimal
}

// NewPriceLevel constructs an empty price level.
func NewPriceLevel(price types.Decimal) *PriceLevel {
	return &PriceLevel{Price: price, totalQty: types.Zero}
}

// AddOrder appends an order to the tail of the FIFO queue and adds its
// quantity to the cached total.
func (l *PriceLevel) AddOrder(o Order) {
	l.orders = append(l.orders, o)
	l.totalQty = l.totalQty.Add(o.Qty)
}

// RemoveOrder removes the order with the given id, if present, and returns
// it along with whether it was found.
func (l *PriceLevel) RemoveOrder(orderID string) (Order, bool) {
	for i, o := range l.orders {
		if o.OrderID == orderID {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			l.totalQty = l.totalQty.Sub(o.Qty)
			return o, true
		}
	}
	return Order{}, false
}

// ModifyOrder adjusts the order in place, preserving its queue position
// (the order is not moved to the tail).
func (l *PriceLevel) ModifyOrder(orderID string, newQty types.Decimal) bool {
	for i, o := range l.orders {
		if o.OrderID == orderID {
			l.totalQty = l.totalQty.Add(newQty.Sub(o.Qty))
			l.orders[i].Qty = newQty
			return true
		}
	}
	return false
}

// GetOrder returns the order with the given id, if present.
func (l *PriceLevel) GetOrder(orderID string) (Order, bool) {
	for _, o := range l.orders {
		if o.OrderID == orderID {
			return o, true
		}
	}
	return Order{}, false
}

// QueuePosition reports the zero-indexed rank of an order within the level.
type QueuePosition struct {
	Position     int
	OrdersAhead  int
	QtyAhead     types.Decimal
	TotalOrders  int
	TotalQty     types.Decimal
}

// FillProbability is a crude 1 - position/total_orders estimate.
func (q QueuePosition) FillProbability() float64 {
	if q.TotalOrders == 0 {
		return 0
	}
	return 1.0 - float64(q.Position)/float64(q.TotalOrders)
}

// IsFirst reports whether the order is at the head of the queue.
func (q QueuePosition) IsFirst() bool { return q.Position == 0 }

// IsLast reports whether the order is at the tail of the queue.
func (q QueuePosition) IsLast() bool { return q.Position == q.TotalOrders-1 }

// QueuePosition walks the level from the head, returning the zero-indexed
// position of orderID along with the quantity and order count ahead of it.
func (l *PriceLevel) QueuePosition(orderID string) (QueuePosition, bool) {
	qtyAhead := types.Zero
	for i, o := range l.orders {
		if o.OrderID == orderID {
			return QueuePosition{
				Position:    i,
				OrdersAhead: i,
				QtyAhead:    qtyAhead,
				TotalOrders: len(l.orders),
				TotalQty:    l.totalQty,
			}, true
		}
		qtyAhead = qtyAhead.Add(o.Qty)
	}
	return QueuePosition{}, false
}

// TotalQty returns the cached sum of order quantities at this level.
func (l *PriceLevel) TotalQty() types.Decimal { return l.totalQty }

// OrderCount returns the number of orders resting at this level.
func (l *PriceLevel) OrderCount() int { return len(l.orders) }

// IsEmpty reports whether the level holds no orders.
func (l *PriceLevel) IsEmpty() bool { return len(l.orders) == 0 }

// Orders returns a copy of the level's FIFO order queue.
func (l *PriceLevel) Orders() []Order {
	out := make([]Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// Oldest returns the order at the head of the queue, if any.
func (l *PriceLevel) Oldest() (Order, bool) {
	if len(l.orders) == 0 {
		return Order{}, false
	}
	return l.orders[0], true
}

// Newest returns the order at the tail of the queue, if any.
func (l *PriceLevel) Newest() (Order, bool) {
	if len(l.orders) == 0 {
		return Order{}, false
	}
	return l.orders[len(l.orders)-1], true
}

// recalculateTotal recomputes totalQty from scratch; used defensively after
// bulk mutation if a caller suspects drift.
func (l *PriceLevel) recalculateTotal() {
	total := types.Zero
	for _, o := range l.orders {
		total = total.Add(o.Qty)
	}
	l.totalQty = total
}

// OrderLocation records which side and price an indexed order lives at.
type OrderLocation struct {
	Price types.Decimal
	Side  Side
}
