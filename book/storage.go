// Package book implements the L2 (price-level) orderbook: sorted storage
// and the Uninitialized/AwaitingSnapshot/Synced/Desynchronized state machine
// layered on top of it.
//
// Grounded on original_source/crates/kraken-book/src/storage.rs and
// orderbook.rs; styled after the teacher's exchange/websocket/buffer.go
// (mutex-guarded map of per-symbol state, sentinel errors, one-line doc
// comments on exported methods).
package book

import (
	"sort"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// Storage is a sorted price->Level mapping for one side of an orderbook.
// Bids are kept in descending-price order, asks in ascending-price order;
// Storage itself is side-agnostic, the caller picks the comparison via
// descending.
type Storage struct {
	levels     []types.Level
	descending bool
}

// NewBidStorage returns storage ordered descending by price, for the bid side.
func NewBidStorage() *Storage {
	return &Storage{descending: true}
}

// NewAskStorage returns storage ordered ascending by price, for the ask side.
func NewAskStorage() *Storage {
	return &Storage{descending: false}
}

func (s *Storage) less(a, b types.Decimal) bool {
	if s.descending {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

func (s *Storage) search(price types.Decimal) int {
	return sort.Search(len(s.levels), func(i int) bool {
		return !s.less(s.levels[i].Price, price)
	})
}

// Insert upserts a level by price; a zero quantity removes the level.
func (s *Storage) Insert(price, qty types.Decimal) {
	if qty.IsZero() {
		s.Remove(price)
		return
	}
	i := s.search(price)
	if i < len(s.levels) && s.levels[i].Price.Equal(price) {
		s.levels[i].Qty = qty
		return
	}
	s.levels = append(s.levels, types.Level{})
	copy(s.levels[i+1:], s.levels[i:])
	s.levels[i] = types.Level{Price: price, Qty: qty}
}

// Remove deletes the level at price, if present.
func (s *Storage) Remove(price types.Decimal) {
	i := s.search(price)
	if i < len(s.levels) && s.levels[i].Price.Equal(price) {
		s.levels = append(s.levels[:i], s.levels[i+1:]...)
	}
}

// Best returns the first (best) level, if any.
func (s *Storage) Best() (types.Level, bool) {
	if len(s.levels) == 0 {
		return types.Level{}, false
	}
	return s.levels[0], true
}

// BestPrice returns the price of the best level, if any.
func (s *Storage) BestPrice() (types.Decimal, bool) {
	l, ok := s.Best()
	return l.Price, ok
}

// Levels returns all levels in sorted order. The returned slice is owned by
// the caller; it is a fresh copy.
func (s *Storage) Levels() []types.Level {
	out := make([]types.Level, len(s.levels))
	copy(out, s.levels)
	return out
}

// Top returns up to n levels from the best side, never padding.
func (s *Storage) Top(n int) []types.Level {
	if n > len(s.levels) {
		n = len(s.levels)
	}
	out := make([]types.Level, n)
	copy(out, s.levels[:n])
	return out
}

// Count returns the number of levels currently stored.
func (s *Storage) Count() int {
	return len(s.levels)
}

// Clear removes every level.
func (s *Storage) Clear() {
	s.levels = s.levels[:0]
}

// Truncate drops every level beyond the first maxDepth entries.
func (s *Storage) Truncate(maxDepth int) {
	if maxDepth <= 0 || maxDepth >= len(s.levels) {
		return
	}
	s.levels = s.levels[:maxDepth]
}
