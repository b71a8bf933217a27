// Package session implements the connection session of spec §4.9: the
// single logical WebSocket session, its lifecycle state machine, and the
// read-loop that dispatches inbound frames to books and the event relay.
//
// Grounded on original_source/crates/kraken-ws/src/connection.rs, with the
// Transport capability of spec §9 kept as an interface rather than an
// inheritance hierarchy so the run loop is testable against a scripted fake.
package session

import "context"

// FrameKind discriminates the minimal set of frame types the run loop
// reacts to (spec §4.9's per-frame dispatch: text, ping, close).
type FrameKind int

const (
	FrameText FrameKind = iota
	FramePing
	FrameClose
)

// Frame is one inbound unit handed to the session by its Transport.
type Frame struct {
	Kind    FrameKind
	Text    string
	Payload []byte
}

// Transport is the capability the session is defined against: connect,
// send, recv, close (spec §9). A production implementation is a
// text-framed WebSocket (see ws_transport.go); tests use a scripted fake
// feeding pre-recorded frames.
type Transport interface {
	// Connect opens the underlying connection to url, honoring ctx's
	// deadline for the connect_timeout of spec §4.9.
	Connect(ctx context.Context, url string) error

	// Send writes one text frame.
	Send(ctx context.Context, text string) error

	// Recv blocks for the next inbound frame, or returns ok=false once the
	// connection has closed (by the peer or by a local error).
	Recv(ctx context.Context) (Frame, bool)

	// Pong replies to a ping with the identical payload.
	Pong(payload []byte) error

	// Close closes the underlying connection.
	Close() error
}
