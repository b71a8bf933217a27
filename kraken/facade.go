package kraken

import (
	"context"
	"time"

	"github.com/hitakshiA/Havklo-sdk-sub000/auth"
	"github.com/hitakshiA/Havklo-sdk-sub000/book"
	"github.com/hitakshiA/Havklo-sdk-sub000/breaker"
	"github.com/hitakshiA/Havklo-sdk-sub000/event"
	"github.com/hitakshiA/Havklo-sdk-sub000/krakenerr"
	"github.com/hitakshiA/Havklo-sdk-sub000/log"
	"github.com/hitakshiA/Havklo-sdk-sub000/ratelimit"
	"github.com/hitakshiA/Havklo-sdk-sub000/reconnect"
	"github.com/hitakshiA/Havklo-sdk-sub000/session"
	"github.com/hitakshiA/Havklo-sdk-sub000/subscription"
	"github.com/hitakshiA/Havklo-sdk-sub000/tracker"
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
	"github.com/hitakshiA/Havklo-sdk-sub000/wire"
)

const (
	defaultPublicURL      = "wss://ws.kraken.com/v2"
	defaultPrivateURL     = "wss://ws-auth.kraken.com/v2"
	defaultConnectTimeout = 10 * time.Second
)

// Builder assembles a Client from a small set of declarative choices
// (spec §4.14), following the teacher's fluent-options-then-Connect
// construction pattern.
type Builder struct {
	symbols     []string
	depth       types.Depth
	channels    []types.Channel
	reconnect   reconnect.Config
	url         string
	private     bool
	rateLimits  ratelimit.Config
	credentials *auth.Credentials
	hooks       session.Hooks
}

// NewBuilder starts a Builder with the spec's documented defaults: public
// endpoint, depth 10, book channel only, default reconnect policy.
func NewBuilder() *Builder {
	return &Builder{
		depth:      types.DefaultDepth,
		channels:   []types.Channel{types.ChannelBook},
		reconnect:  reconnect.DefaultConfig(),
		url:        defaultPublicURL,
		rateLimits: ratelimit.KrakenDefaults(),
	}
}

// WithSymbols sets the symbol list to subscribe to. Required before Connect.
func (b *Builder) WithSymbols(symbols ...string) *Builder {
	b.symbols = symbols
	return b
}

// WithDepth sets the book subscription depth.
func (b *Builder) WithDepth(depth types.Depth) *Builder {
	b.depth = depth
	return b
}

// WithChannels replaces the default channel set (book) with an explicit list.
func (b *Builder) WithChannels(channels ...types.Channel) *Builder {
	b.channels = channels
	return b
}

// WithReconnectPolicy overrides the default exponential-backoff reconnect policy.
func (b *Builder) WithReconnectPolicy(cfg reconnect.Config) *Builder {
	b.reconnect = cfg
	return b
}

// WithRateLimits overrides the default token-bucket sizing.
func (b *Builder) WithRateLimits(cfg ratelimit.Config) *Builder {
	b.rateLimits = cfg
	return b
}

// WithPrivate switches the endpoint to Kraken's authenticated WebSocket and
// binds the credentials used to fetch a session token.
func (b *Builder) WithPrivate(creds *auth.Credentials) *Builder {
	b.private = true
	b.url = defaultPrivateURL
	b.credentials = creds
	return b
}

// WithURL overrides the endpoint, e.g. to target a sandbox.
func (b *Builder) WithURL(url string) *Builder {
	b.url = url
	return b
}

// WithHooks installs synchronous lifecycle callbacks alongside the event channel.
func (b *Builder) WithHooks(hooks session.Hooks) *Builder {
	b.hooks = hooks
	return b
}

// Connect validates the builder and starts the session's run loop in the
// background, returning a Client handle once the loop has been launched.
// Connect does not block for the handshake to complete; callers watch
// State() or the event channel for "connected".
func (b *Builder) Connect(ctx context.Context) (*Client, error) {
	if len(b.symbols) == 0 {
		return nil, &krakenerr.InvalidState{Expected: "at least one symbol"}
	}
	if b.private && b.credentials == nil {
		return nil, &krakenerr.InvalidState{Expected: "credentials for a private connection"}
	}

	relay := event.NewRelay(event.Unbounded, 1024)
	subs := subscription.NewManager()
	for _, ch := range b.channels {
		subs.Add(subscriptionFor(ch, b.symbols, b.depth))
	}

	limiter := ratelimit.New(b.rateLimits)
	cfg := session.Config{
		URL:            b.url,
		ConnectTimeout: defaultConnectTimeout,
		Reconnect:      b.reconnect,
		Breaker:        breaker.WithDefaults(),
		Depth:          b.depth,
		Hooks:          b.hooks,
		RateLimit:      limiter,
	}

	var tokenProvider *auth.TokenProvider
	if b.private {
		tokenProvider = auth.New(b.credentials)
	}

	sess := session.New(cfg, func() session.Transport { return session.NewWSTransport() }, subs, relay)
	ch, ok := relay.Take()
	if !ok {
		return nil, &krakenerr.InvalidState{Expected: "a fresh event relay"}
	}

	runCtx, cancel := context.WithCancel(ctx)
	client := &Client{
		session:       sess,
		symbols:       append([]string(nil), b.symbols...),
		events:        ch,
		relay:         relay,
		tokenProvider: tokenProvider,
		tracker:       tracker.NewOrderTracker(tracker.DefaultConfig()),
		limiter:       limiter,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	go func() {
		defer close(client.done)
		if err := sess.Run(runCtx); err != nil {
			log.Warnf(log.SessionMgr, "session run loop exited: %v", err)
		}
	}()

	return client, nil
}

func subscriptionFor(channel types.Channel, symbols []string, depth types.Depth) subscription.Subscription {
	switch channel {
	case types.ChannelTicker:
		return subscription.Ticker(symbols)
	case types.ChannelTrade:
		return subscription.Trade(symbols)
	case types.ChannelLevel3:
		return subscription.Level3(symbols, depth)
	default:
		return subscription.Orderbook(symbols, depth)
	}
}

// Client is the facade's live handle: a running session plus the
// bookkeeping (order tracker, event relay) a caller needs to operate it
// without touching the lower-level packages directly.
//
// Grounded on spec §4.14 and the teacher's exchange-wrapper pattern of a
// single handle exposing book reads, an event stream, and order actions.
type Client struct {
	session       *session.Session
	symbols       []string
	events        <-chan event.Event
	relay         *event.Relay
	tokenProvider *auth.TokenProvider
	tracker       *tracker.OrderTracker
	limiter       *ratelimit.Limiter
	cancel        context.CancelFunc
	done          chan struct{}
}

// State returns the underlying session's current lifecycle state.
func (c *Client) State() session.State { return c.session.State() }

// IsConnected reports whether the session is currently connected.
func (c *Client) IsConnected() bool { return c.session.IsConnected() }

// Symbols returns the symbol list this client was built with.
func (c *Client) Symbols() []string { return append([]string(nil), c.symbols...) }

// Orderbook returns a snapshot of the L2 book for symbol, if tracked.
func (c *Client) Orderbook(symbol string) (book.Snapshot, bool) { return c.session.Orderbook(symbol) }

// BestBid returns the best bid level for symbol, if the book is tracked and non-empty.
func (c *Client) BestBid(symbol string) (types.Level, bool) {
	snap, ok := c.session.Orderbook(symbol)
	if !ok || len(snap.Bids) == 0 {
		return types.Level{}, false
	}
	return snap.Bids[0], true
}

// BestAsk returns the best ask level for symbol, if the book is tracked and non-empty.
func (c *Client) BestAsk(symbol string) (types.Level, bool) {
	snap, ok := c.session.Orderbook(symbol)
	if !ok || len(snap.Asks) == 0 {
		return types.Level{}, false
	}
	return snap.Asks[0], true
}

// Spread returns ask-minus-bid for symbol, if both sides are present.
func (c *Client) Spread(symbol string) (types.Decimal, bool) {
	snap, ok := c.session.Orderbook(symbol)
	if !ok || len(snap.Bids) == 0 || len(snap.Asks) == 0 {
		return types.Zero, false
	}
	return snap.Asks[0].Price.Sub(snap.Bids[0].Price), true
}

// MidPrice returns the midpoint of the best bid/ask for symbol.
func (c *Client) MidPrice(symbol string) (types.Decimal, bool) {
	snap, ok := c.session.Orderbook(symbol)
	if !ok || len(snap.Bids) == 0 || len(snap.Asks) == 0 {
		return types.Zero, false
	}
	mid := snap.Bids[0].Price.Add(snap.Asks[0].Price).Div(two)
	return mid, true
}

// Checksum returns the book's last-validated checksum for symbol.
func (c *Client) Checksum(symbol string) (uint32, bool) {
	snap, ok := c.session.Orderbook(symbol)
	if !ok {
		return 0, false
	}
	return snap.Checksum, true
}

// IsSynced reports whether the book for symbol is in the Synced state.
func (c *Client) IsSynced(symbol string) bool {
	snap, ok := c.session.Orderbook(symbol)
	return ok && snap.State == book.Synced
}

var two = mustDecimalTwo()

func mustDecimalTwo() types.Decimal {
	d, err := types.ParseDecimal("2")
	if err != nil {
		panic(err)
	}
	return d
}

// Events returns the client's event channel. It may only be drained by one
// goroutine; the underlying relay enforces single-consumer semantics.
//
// Private execution events read off this channel should be passed to
// Observe so the order tracker stays current.
func (c *Client) Events() <-chan event.Event { return c.events }

// DroppedEventCount reports how many events were dropped under backpressure
// (only possible in bounded-drop-newest mode).
func (c *Client) DroppedEventCount() uint64 { return c.relay.DroppedCount() }

// Tracker exposes the order lifecycle tracker fed by Observe.
func (c *Client) Tracker() *tracker.OrderTracker { return c.tracker }

// NewTradingClient mints a TradingClient bound to a freshly fetched
// WebSocket token. Only valid for private-endpoint clients.
func (c *Client) NewTradingClient(ctx context.Context) (*TradingClient, error) {
	if c.tokenProvider == nil {
		return nil, &krakenerr.InvalidState{Expected: "a private connection with credentials"}
	}
	tok, err := c.tokenProvider.GetWSToken(ctx)
	if err != nil {
		return nil, err
	}
	return NewTradingClient(tok.Token), nil
}

// Submit sends a trading request over the session's active transport,
// gated by the configured order rate-limit bucket.
func (c *Client) Submit(ctx context.Context, req any) error {
	return c.session.Send(ctx, ratelimit.CategoryWsOrders, req)
}

// Shutdown requests a graceful close and waits for the run loop to exit.
func (c *Client) Shutdown() {
	c.session.Shutdown()
	c.cancel()
	<-c.done
}

// Observe updates the order tracker from a private execution event. Callers
// draining Events() should pass every event through Observe; it is a no-op
// for anything but an execution report.
func (c *Client) Observe(ev event.Event) {
	if ev.Kind != event.KindPrivate || ev.Private == nil || ev.Private.Type != "execution" {
		return
	}
	msg, err := wire.Parse(ev.Private.Raw)
	if err != nil || msg.Kind != wire.KindExecution || msg.Execution == nil {
		return
	}
	c.tracker.HandleExecution(msg.Execution)
}
