package session

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSTransport is the production Transport over gorilla/websocket, with
// permessage-deflate negotiated when the peer offers it.
type WSTransport struct {
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn

	frames chan Frame
	done   chan struct{}
}

// NewWSTransport constructs a production WebSocket Transport.
func NewWSTransport() *WSTransport {
	return &WSTransport{
		dialer: &websocket.Dialer{
			HandshakeTimeout:  10 * time.Second,
			EnableCompression: true,
		},
		frames: make(chan Frame, 256),
		done:   make(chan struct{}),
	}
}

// Connect dials url, honoring ctx's deadline, and starts the background
// reader that feeds t.frames.
func (t *WSTransport) Connect(ctx context.Context, url string) error {
	conn, _, err := t.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	conn.SetPingHandler(func(payload string) error {
		select {
		case t.frames <- Frame{Kind: FramePing, Payload: []byte(payload)}:
		case <-t.done:
		}
		return nil
	})
	conn.SetCloseHandler(func(code int, text string) error {
		select {
		case t.frames <- Frame{Kind: FrameClose}:
		case <-t.done:
		}
		return nil
	})

	go t.readLoop(conn)
	return nil
}

func (t *WSTransport) readLoop(conn *websocket.Conn) {
	defer close(t.frames)
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case t.frames <- Frame{Kind: FrameClose}:
			default:
			}
			return
		}
		if kind == websocket.TextMessage {
			select {
			case t.frames <- Frame{Kind: FrameText, Text: string(data)}:
			case <-t.done:
				return
			}
		}
	}
}

// Send writes one text frame.
func (t *WSTransport) Send(ctx context.Context, text string) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return errNotConnected
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	return conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Recv returns the next frame pushed by the background reader.
func (t *WSTransport) Recv(ctx context.Context) (Frame, bool) {
	select {
	case f, ok := <-t.frames:
		return f, ok
	case <-ctx.Done():
		return Frame{}, false
	}
}

// Pong replies to a ping with the identical payload.
func (t *WSTransport) Pong(payload []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return errNotConnected
	}
	return conn.WriteControl(websocket.PongMessage, payload, time.Now().Add(5*time.Second))
}

// Close closes the underlying connection.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	close(t.done)
	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return conn.Close()
}

type notConnectedError struct{}

func (notConnectedError) Error() string { return "websocket: not connected" }

var errNotConnected = notConnectedError{}
