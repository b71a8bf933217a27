package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hitakshiA/Havklo-sdk-sub000/book"
	"github.com/hitakshiA/Havklo-sdk-sub000/breaker"
	"github.com/hitakshiA/Havklo-sdk-sub000/checksum"
	"github.com/hitakshiA/Havklo-sdk-sub000/event"
	"github.com/hitakshiA/Havklo-sdk-sub000/krakenerr"
	"github.com/hitakshiA/Havklo-sdk-sub000/log"
	"github.com/hitakshiA/Havklo-sdk-sub000/ratelimit"
	"github.com/hitakshiA/Havklo-sdk-sub000/reconnect"
	"github.com/hitakshiA/Havklo-sdk-sub000/subscription"
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
	"github.com/hitakshiA/Havklo-sdk-sub000/wire"
)

// State is the session's lifecycle state (spec §4.9).
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Reconnecting
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	case ShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// TransportFactory constructs a fresh Transport for one connect attempt.
// Production callers pass a factory that returns *WSTransport; tests pass
// one that returns a scripted fake.
type TransportFactory func() Transport

// Config parameterizes a Session.
type Config struct {
	URL            string
	ConnectTimeout time.Duration
	Reconnect      reconnect.Config
	Breaker        *breaker.Breaker
	Depth          types.Depth
	Hooks          Hooks

	// RateLimit, if set, gates every outbound Send against Kraken's
	// per-category token buckets (spec §4.10). Nil disables gating.
	RateLimit *ratelimit.Limiter
}

// bookEntry guards one symbol's L2 orderbook with its own lock, per the
// fine-grained per-symbol locking described in spec §5.
type bookEntry struct {
	mu sync.RWMutex
	ob *book.Orderbook
}

// Session runs the single logical connection over potentially many
// underlying sockets (spec §4.9). Book mutation happens only on the run
// loop's own goroutine; the facade reads books through a per-symbol lock.
//
// Grounded on original_source/crates/kraken-ws/src/connection.rs.
type Session struct {
	cfg              Config
	transportFactory TransportFactory
	subs             *subscription.Manager
	relay            *event.Relay

	state   atomic.Int32
	attempt atomic.Int32
	shuttingDown atomic.Bool

	booksMu sync.RWMutex
	books   map[string]*bookEntry

	apiVersion   atomic.Value // string
	connectionID atomic.Uint64

	currentTransport atomic.Value // Transport
}

// New constructs a Session. transportFactory is called once per connect
// attempt.
func New(cfg Config, transportFactory TransportFactory, subs *subscription.Manager, relay *event.Relay) *Session {
	if cfg.Reconnect.Multiplier == 0 {
		cfg.Reconnect = reconnect.DefaultConfig()
	}
	if cfg.Breaker == nil {
		cfg.Breaker = breaker.WithDefaults()
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	s := &Session{
		cfg:              cfg,
		transportFactory: transportFactory,
		subs:             subs,
		relay:            relay,
		books:            make(map[string]*bookEntry),
	}
	s.apiVersion.Store("")
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(st State) { s.state.Store(int32(st)) }

// IsConnected reports whether the session is currently in the Connected state.
func (s *Session) IsConnected() bool { return s.State() == Connected }

// Shutdown requests a graceful close; the run loop exits at its next
// cooperative check point.
func (s *Session) Shutdown() { s.shuttingDown.Store(true) }

// Orderbook returns a read-only snapshot of the book for symbol, if one
// has been created.
func (s *Session) Orderbook(symbol string) (book.Snapshot, bool) {
	s.booksMu.RLock()
	entry, ok := s.books[symbol]
	s.booksMu.RUnlock()
	if !ok {
		return book.Snapshot{}, false
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()
	return entry.ob.Snapshot(), true
}

func (s *Session) bookFor(symbol string) *bookEntry {
	s.booksMu.RLock()
	entry, ok := s.books[symbol]
	s.booksMu.RUnlock()
	if ok {
		return entry
	}

	s.booksMu.Lock()
	defer s.booksMu.Unlock()
	if entry, ok := s.books[symbol]; ok {
		return entry
	}
	ob, err := book.WithDepth(symbol, int(s.cfg.Depth.AsUint32()))
	if err != nil {
		ob, _ = book.New(symbol)
	}
	entry := &bookEntry{ob: ob}
	s.books[symbol] = entry
	return entry
}

// Send marshals payload to JSON and writes it to the active transport,
// gated by the configured rate limiter (spec §4.10). It returns an error
// if the session is not currently connected or the rate limiter denies
// the request outright.
func (s *Session) Send(ctx context.Context, category ratelimit.Category, payload any) error {
	box, _ := s.currentTransport.Load().(transportBox)
	if box.t == nil {
		return &krakenerr.InvalidState{Expected: "connected session"}
	}
	if s.cfg.RateLimit != nil {
		if err := s.cfg.RateLimit.AcquireN(ctx, category, 1); err != nil {
			return err
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbound request: %w", err)
	}
	return box.t.Send(ctx, string(raw))
}

// Run drives the session's full lifecycle until ctx is canceled or
// Shutdown is called and reconnection is exhausted or denied.
func (s *Session) Run(ctx context.Context) error {
	for {
		if s.shuttingDown.Load() {
			s.setState(ShuttingDown)
			return nil
		}

		transport, err := s.connectStep(ctx)
		if err != nil {
			s.cfg.Hooks.error(err)
			if !s.shouldRetry() {
				return err
			}
			if !s.sleepBeforeRetry(ctx) {
				return ctx.Err()
			}
			continue
		}

		err = s.mainLoop(ctx, transport)
		_ = transport.Close()
		if err == nil {
			return nil
		}
		s.cfg.Hooks.error(err)
		s.emitConnection("disconnected", err.Error(), 0, 0)

		if s.shuttingDown.Load() {
			s.setState(ShuttingDown)
			return nil
		}
		if !s.shouldRetry() {
			s.emitConnection("reconnect_failed", err.Error(), 0, 0)
			return err
		}
		if !s.sleepBeforeRetry(ctx) {
			return ctx.Err()
		}
	}
}

func (s *Session) shouldRetry() bool {
	attempt := int(s.attempt.Load())
	return s.cfg.Reconnect.ShouldReconnect(attempt) && s.cfg.Breaker.AllowRequest()
}

func (s *Session) sleepBeforeRetry(ctx context.Context) bool {
	attempt := int(s.attempt.Add(1))
	delay := s.cfg.Reconnect.DelayWithJitter(attempt)
	s.setState(Reconnecting)
	s.cfg.Hooks.reconnectAttempt(attempt, delay.String())
	s.emitConnection("reconnecting", "", attempt, delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// connectStep opens the transport and completes the handshake, awaiting a
// Status message before returning.
func (s *Session) connectStep(ctx context.Context) (Transport, error) {
	s.setState(Connecting)

	connectCtx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()

	transport := s.transportFactory()
	if err := transport.Connect(connectCtx, s.cfg.URL); err != nil {
		s.cfg.Breaker.RecordFailure()
		return nil, &krakenerr.ConnectionTimeout{URL: s.cfg.URL, Timeout: s.cfg.ConnectTimeout}
	}
	s.currentTransport.Store(transportBox{t: transport})

	if err := s.handshake(connectCtx, transport); err != nil {
		s.cfg.Breaker.RecordFailure()
		s.currentTransport.Store(transportBox{})
		_ = transport.Close()
		return nil, err
	}

	s.cfg.Breaker.RecordSuccess()
	s.attempt.Store(0)
	s.setState(Connected)
	s.postHandshake(ctx, transport)
	return transport, nil
}

func (s *Session) handshake(ctx context.Context, transport Transport) error {
	for {
		frame, ok := transport.Recv(ctx)
		if !ok {
			return &krakenerr.WebSocketError{Message: "closed before ready"}
		}
		if frame.Kind != FrameText {
			continue
		}
		msg, err := wire.Parse([]byte(frame.Text))
		if err != nil {
			continue
		}
		if msg.Kind == wire.KindStatus {
			s.apiVersion.Store(msg.Status.APIVersion)
			s.connectionID.Store(msg.Status.ConnectionID)
			s.emitConnectionStatus(msg.Status)
			s.cfg.Hooks.connect(msg.Status.APIVersion, msg.Status.ConnectionID)
			return nil
		}
	}
}

func (s *Session) postHandshake(ctx context.Context, transport Transport) {
	restorations := s.subs.RestorationRequests()
	for _, r := range restorations {
		payload, err := marshalSubscribe(r.Request)
		if err != nil {
			continue
		}
		_ = transport.Send(ctx, payload)
	}
	if len(restorations) > 0 {
		s.emitConnection("subscriptions_restored", "", 0, 0)
	}
}

// transportBox avoids storing a bare nil interface in an atomic.Value,
// which panics; the box is always a non-nil concrete type.
type transportBox struct{ t Transport }

func (s *Session) mainLoop(ctx context.Context, transport Transport) error {
	s.currentTransport.Store(transportBox{t: transport})
	defer s.currentTransport.Store(transportBox{})
	for {
		if s.shuttingDown.Load() {
			_ = transport.Close()
			return nil
		}

		frame, ok := transport.Recv(ctx)
		if !ok {
			return &krakenerr.WebSocketError{Message: "connection closed"}
		}

		switch frame.Kind {
		case FramePing:
			_ = transport.Pong(frame.Payload)
		case FrameClose:
			return &krakenerr.WebSocketError{Message: "connection closed by peer"}
		case FrameText:
			s.dispatch(ctx, transport, []byte(frame.Text))
		}
	}
}

func (s *Session) dispatch(ctx context.Context, transport Transport, raw []byte) {
	s.cfg.Hooks.message(raw)

	msg, err := wire.Parse(raw)
	if err != nil {
		log.Warnf(log.SessionMgr, "dropping unparseable frame: %v", err)
		return
	}

	switch msg.Kind {
	case wire.KindStatus:
		s.apiVersion.Store(msg.Status.APIVersion)
		s.connectionID.Store(msg.Status.ConnectionID)
		s.emitConnectionStatus(msg.Status)

	case wire.KindMethodReply:
		s.handleMethodReply(msg.MethodReply)

	case wire.KindBookSnapshot, wire.KindBookUpdate:
		s.handleBook(ctx, transport, msg.Kind == wire.KindBookSnapshot, msg.Book)

	case wire.KindHeartbeat:
		s.emitMarket("heartbeat", "", raw)

	case wire.KindTicker:
		s.emitMarket("ticker", msg.Ticker.Symbol, raw)

	case wire.KindTrade:
		s.emitMarket("trade", msg.Trade.Symbol, raw)

	case wire.KindOhlc:
		s.emitMarket("ohlc", msg.Ohlc.Symbol, raw)

	case wire.KindExecution:
		s.emitPrivate("execution", raw)

	case wire.KindUnknown:
		log.Debugf(log.SessionMgr, "unknown channel frame retained as raw")
	}
}

func (s *Session) handleMethodReply(reply *wire.MethodReply) {
	if reply.Method != "subscribe" && reply.Method != "unsubscribe" {
		return
	}
	if reply.ReqID != nil {
		if reply.Success {
			s.subs.Confirm(*reply.ReqID)
		} else {
			s.subs.Reject(*reply.ReqID)
		}
	}
	s.cfg.Hooks.subscriptionAck(reply.Method, nil, reply.Success, reply.Error)
	typ := "subscribed"
	if !reply.Success {
		typ = "rejected"
	}
	s.relaySend(event.Event{
		Kind: event.KindSubscription,
		At:   time.Now(),
		Subscription: &event.SubscriptionEvent{
			Type:  typ,
			Error: reply.Error,
		},
	})
}

func (s *Session) handleBook(ctx context.Context, transport Transport, isSnapshot bool, msg *wire.BookMessage) {
	entry := s.bookFor(msg.Symbol)
	entry.mu.Lock()
	if isSnapshot {
		entry.ob.SetAwaitingSnapshot()
	}
	result, err := entry.ob.ApplyBookData(isSnapshot, msg.Bids, msg.Asks, msg.Checksum)
	snap := entry.ob.Snapshot()
	entry.mu.Unlock()

	if err != nil {
		var mismatch *book.ChecksumMismatch
		if asMismatch(err, &mismatch) {
			s.cfg.Hooks.checksumMismatch(mismatch)
			s.relaySend(event.Event{
				Kind: event.KindMarket,
				At:   time.Now(),
				Market: &event.MarketEvent{
					Type:             "checksum_mismatch",
					Symbol:           msg.Symbol,
					ChecksumMismatch: &checksum.Result{Computed: mismatch.Computed, Expected: mismatch.Expected},
				},
			})
			s.resyncSymbol(ctx, transport, msg.Symbol)
			return
		}
		log.Warnf(log.OrderbookMgr, "book %s: apply failed: %v", msg.Symbol, err)
		return
	}

	typ := "orderbook_update"
	if result == book.ResultSnapshot {
		typ = "orderbook_snapshot"
	}
	if result == book.ResultIgnored {
		return
	}
	s.relaySend(event.Event{
		Kind: event.KindMarket,
		At:   time.Now(),
		Market: &event.MarketEvent{
			Type:     typ,
			Symbol:   msg.Symbol,
			Snapshot: &snap,
		},
	})
}

// resyncSymbol implements spec §7's Integrity recovery for one symbol: the
// book is already marked Desynchronized by validateChecksum, so its stale
// levels are dropped and a fresh, snapshot-seeking subscribe request is sent
// for that symbol alone, without disturbing any other active subscription.
func (s *Session) resyncSymbol(ctx context.Context, transport Transport, symbol string) {
	entry := s.bookFor(symbol)
	entry.mu.Lock()
	entry.ob.Reset()
	entry.mu.Unlock()

	depth := s.cfg.Depth
	req := s.subs.ResubscribeSymbol(types.ChannelBook, symbol, &depth)
	payload, err := marshalSubscribe(req.Request)
	if err != nil {
		log.Warnf(log.OrderbookMgr, "book %s: failed to build resync request: %v", symbol, err)
		return
	}
	if err := transport.Send(ctx, payload); err != nil {
		log.Warnf(log.OrderbookMgr, "book %s: failed to send resync request: %v", symbol, err)
	}
}

func asMismatch(err error, target **book.ChecksumMismatch) bool {
	if m, ok := err.(*book.ChecksumMismatch); ok {
		*target = m
		return true
	}
	return false
}

func (s *Session) emitConnectionStatus(status *wire.StatusMessage) {
	s.relaySend(event.Event{
		Kind: event.KindMarket,
		At:   time.Now(),
		Market: &event.MarketEvent{
			Type: "status",
		},
	})
	s.emitConnection("connected", "", 0, 0)
}

func (s *Session) emitConnection(typ, reason string, attempt int, delay time.Duration) {
	apiVersion, _ := s.apiVersion.Load().(string)
	s.relaySend(event.Event{
		Kind: event.KindConnection,
		At:   time.Now(),
		Connection: &event.ConnectionEvent{
			Type:         typ,
			Reason:       reason,
			Attempt:      attempt,
			Delay:        delay,
			APIVersion:   apiVersion,
			ConnectionID: fmt.Sprintf("%d", s.connectionID.Load()),
		},
	})
}

func (s *Session) emitMarket(typ, symbol string, raw []byte) {
	s.relaySend(event.Event{
		Kind: event.KindMarket,
		At:   time.Now(),
		Market: &event.MarketEvent{
			Type:   typ,
			Symbol: symbol,
			Raw:    raw,
		},
	})
}

func (s *Session) emitPrivate(typ string, raw []byte) {
	s.relaySend(event.Event{
		Kind: event.KindPrivate,
		At:   time.Now(),
		Private: &event.PrivateEvent{
			Type: typ,
			Raw:  raw,
		},
	})
}

func (s *Session) relaySend(ev event.Event) {
	if s.relay == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.relay.Send(ctx, ev); err != nil {
		log.Debugf(log.SessionMgr, "event relay send failed: %v", err)
	}
}

func marshalSubscribe(req subscription.SubscribeRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
