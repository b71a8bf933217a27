package subscription

import (
	"sync"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// Manager stores an ordered list of active subscriptions plus the set of
// currently-pending request ids, and assigns fresh request ids on
// reconnect restoration (spec §4.6). Subscriptions to the same channel for
// disjoint symbol sets are distinct records; the manager never dedupes.
type Manager struct {
	mu            sync.Mutex
	subscriptions []Subscription
	pending       map[uint64]bool
	nextReqID     uint64
}

// NewManager constructs an empty Manager.
func NewManager() *Manager {
	return &Manager{pending: make(map[uint64]bool)}
}

// Add assigns the next request id to sub, marks it pending, and appends the
// subscription to the active list. Returns the assigned request id.
func (m *Manager) Add(sub Subscription) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextReqID++
	reqID := m.nextReqID
	m.pending[reqID] = true
	m.subscriptions = append(m.subscriptions, sub)
	return reqID
}

// Confirm clears pending status for reqID on a successful ack.
func (m *Manager) Confirm(reqID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, reqID)
}

// Reject clears pending status for reqID on a failed ack. It does not
// remove the subscription from the active list; the caller decides whether
// to retry or drop it.
func (m *Manager) Reject(reqID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, reqID)
}

// All returns a copy of every active subscription record.
func (m *Manager) All() []Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Subscription, len(m.subscriptions))
	copy(out, m.subscriptions)
	return out
}

// Count returns the number of active subscription records.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscriptions)
}

// Clear drops every active subscription and pending marker.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = nil
	m.pending = make(map[uint64]bool)
}

// HasPending reports whether any request id is currently awaiting an ack.
func (m *Manager) HasPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending) > 0
}

// RestorationRequest pairs a freshly assigned request id with the outbound
// frame to send for it.
type RestorationRequest struct {
	ReqID   uint64
	Request SubscribeRequest
}

// ResubscribeSymbol produces a single fresh subscribe request scoped to one
// symbol on the given channel, without touching the active subscription
// list. It is used to re-subscribe a single desynchronized book (spec §7's
// Integrity recovery: "drop its book state, re-subscribe") without waiting
// for a full reconnect and replaying every other active subscription.
func (m *Manager) ResubscribeSymbol(channel types.Channel, symbol string, depth *types.Depth) RestorationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextReqID++
	reqID := m.nextReqID
	m.pending[reqID] = true
	sub := Subscription{Channel: channel, Symbols: []string{symbol}, Depth: depth, Snapshot: true}
	return RestorationRequest{ReqID: reqID, Request: sub.ToRequest(reqID)}
}

// RestorationRequests re-enumerates every active subscription with a fresh
// request id, marking each pending again. It does not dedupe: two records
// for the same channel produce two restoration requests.
func (m *Manager) RestorationRequests() []RestorationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RestorationRequest, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		m.nextReqID++
		reqID := m.nextReqID
		m.pending[reqID] = true
		out = append(out, RestorationRequest{ReqID: reqID, Request: sub.ToRequest(reqID)})
	}
	return out
}
