// Package transport implements the duplex session channel carrying user turns
// out and assistant frames in, over a websocket endpoint.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

type State string

const (
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosing    State = "closing"
	StateClosed     State = "closed"
)

var (
	// ErrTransportUnavailable reports that the underlying connection could
	// not be created.
	ErrTransportUnavailable = errors.New("transport unavailable")
	// ErrNotConnected reports a send attempted while the channel is not open.
	ErrNotConnected = errors.New("channel not connected")
	// ErrConnectInFlight reports a connect attempt while another is running.
	ErrConnectInFlight = errors.New("connect attempt already in flight")
)

const defaultConnectTimeout = 10 * time.Second

// Channel is a websocket-backed duplex transport for one logical
// conversation. At most one connection is live at a time; a closed channel
// only reconnects on an explicit Connect call.
type Channel struct {
	endpoint string
	header   http.Header
	dialer   *websocket.Dialer

	mu    sync.Mutex
	conn  *websocket.Conn
	state State

	connecting atomic.Bool

	onFrame  func(Frame)
	onClosed func(error)
}

type ChannelOption func(*Channel)

// WithHeader sets extra headers sent on the connection handshake, typically
// session credentials.
func WithHeader(header http.Header) ChannelOption {
	return func(c *Channel) { c.header = header }
}

// WithDialer overrides the websocket dialer.
func WithDialer(dialer *websocket.Dialer) ChannelOption {
	return func(c *Channel) { c.dialer = dialer }
}

// NewChannel creates a channel for the given websocket endpoint. The channel
// starts Closed; call Connect to open it.
func NewChannel(endpoint string, opts ...ChannelOption) *Channel {
	dialer := &websocket.Dialer{HandshakeTimeout: defaultConnectTimeout}

	c := &Channel{
		endpoint: endpoint,
		dialer:   dialer,
		state:    StateClosed,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// OnInboundFrame registers the single consumer of inbound frames. Frames are
// delivered in arrival order from one goroutine; the handler is never invoked
// concurrently. Must be set before Connect.
func (c *Channel) OnInboundFrame(handler func(Frame)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFrame = handler
}

// OnClosed registers a callback invoked once per connection when the
// transport closes or errors out. Reconnecting is the caller's decision.
func (c *Channel) OnClosed(handler func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClosed = handler
}

// Connect establishes the connection. Exactly one attempt may be in flight at
// a time; concurrent calls fail with ErrConnectInFlight. A dial failure
// leaves the channel Closed and wraps ErrTransportUnavailable.
func (c *Channel) Connect(ctx context.Context) error {
	if !c.connecting.CompareAndSwap(false, true) {
		return ErrConnectInFlight
	}
	defer c.connecting.Store(false)

	c.mu.Lock()
	if c.state == StateOpen || c.state == StateClosing {
		c.mu.Unlock()
		return fmt.Errorf("cannot connect while channel is %s", c.state)
	}
	c.state = StateConnecting
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, c.header)
	if err != nil {
		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()
		return fmt.Errorf("%w: failed to dial %s: %v", ErrTransportUnavailable, c.endpoint, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateOpen
	onFrame := c.onFrame
	onClosed := c.onClosed
	c.mu.Unlock()

	go c.readFrames(conn, onFrame, onClosed)

	return nil
}

// Send transmits one user message. Valid only while Open; otherwise it fails
// with ErrNotConnected and transmits nothing.
func (c *Channel) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateOpen || c.conn == nil {
		return fmt.Errorf("%w: channel state is %s", ErrNotConnected, c.state)
	}

	if err := c.conn.WriteJSON(wireFrame{Message: text}); err != nil {
		return fmt.Errorf("failed to send message frame: %w", err)
	}
	return nil
}

// State reports the current channel state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close shuts the connection down. It is safe to call on a channel that never
// connected.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.state == StateClosed || c.state == StateClosing {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosing
	conn := c.conn
	c.mu.Unlock()

	var closeErr error
	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		if err := conn.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close websocket: %w", err)
		}
	}

	c.mu.Lock()
	c.conn = nil
	c.state = StateClosed
	c.mu.Unlock()

	return closeErr
}

func (c *Channel) readFrames(conn *websocket.Conn, onFrame func(Frame), onClosed func(error)) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			requested := c.markClosed(conn)
			if requested {
				err = nil
			} else if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				err = nil
			}
			if onClosed != nil {
				onClosed(err)
			}
			return
		}

		var wire wireFrame
		if err := json.Unmarshal(payload, &wire); err != nil {
			log.Println("Failed to decode inbound frame", "error", err)
			continue
		}

		frame := decodeFrame(wire)
		if IsInternalSendMarker(frame) {
			continue
		}
		if onFrame != nil {
			onFrame(frame)
		}
	}
}

// markClosed transitions to Closed after a read failure and reports whether
// the close was locally requested (state was already Closing or the live conn
// was swapped out).
func (c *Channel) markClosed(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	requested := c.state == StateClosing || c.state == StateClosed || c.conn != conn
	if c.conn == conn {
		_ = c.conn.Close()
		c.conn = nil
	}
	if c.state != StateClosed {
		c.state = StateClosed
	}
	return requested
}
