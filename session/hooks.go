package session

import (
	"github.com/hitakshiA/Havklo-sdk-sub000/book"
	"github.com/hitakshiA/Havklo-sdk-sub000/log"
)

// Hooks are optional synchronous callbacks invoked alongside event
// emission, for embedders that want a direct notification path instead of
// (or in addition to) draining the event relay. Every hook is guarded
// against panics so a misbehaving embedder callback cannot take down the
// session's run loop.
type Hooks struct {
	OnConnect           func(apiVersion string, connectionID uint64)
	OnDisconnect        func(reason string)
	OnReconnectAttempt  func(attempt int, delay string)
	OnSubscriptionAck   func(channel string, symbols []string, success bool, errMsg string)
	OnChecksumMismatch  func(mismatch *book.ChecksumMismatch)
	OnMessage           func(raw []byte)
	OnError             func(err error)
}

func (h Hooks) safeCall(name string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(log.SessionMgr, "hook %s panicked: %v", name, r)
		}
	}()
	fn()
}

func (h Hooks) connect(apiVersion string, connectionID uint64) {
	h.safeCall("OnConnect", func() {
		if h.OnConnect != nil {
			h.OnConnect(apiVersion, connectionID)
		}
	})
}

func (h Hooks) disconnect(reason string) {
	h.safeCall("OnDisconnect", func() {
		if h.OnDisconnect != nil {
			h.OnDisconnect(reason)
		}
	})
}

func (h Hooks) reconnectAttempt(attempt int, delay string) {
	h.safeCall("OnReconnectAttempt", func() {
		if h.OnReconnectAttempt != nil {
			h.OnReconnectAttempt(attempt, delay)
		}
	})
}

func (h Hooks) subscriptionAck(channel string, symbols []string, success bool, errMsg string) {
	h.safeCall("OnSubscriptionAck", func() {
		if h.OnSubscriptionAck != nil {
			h.OnSubscriptionAck(channel, symbols, success, errMsg)
		}
	})
}

func (h Hooks) checksumMismatch(mismatch *book.ChecksumMismatch) {
	h.safeCall("OnChecksumMismatch", func() {
		if h.OnChecksumMismatch != nil {
			h.OnChecksumMismatch(mismatch)
		}
	})
}

func (h Hooks) message(raw []byte) {
	h.safeCall("OnMessage", func() {
		if h.OnMessage != nil {
			h.OnMessage(raw)
		}
	})
}

func (h Hooks) error(err error) {
	h.safeCall("OnError", func() {
		if h.OnError != nil {
			h.OnError(err)
		}
	})
}
