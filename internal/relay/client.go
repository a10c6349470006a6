package relay

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Linnore/PyTeach/pkg/protocol"
)

// EventHandler receives the raw payload of one socket event.
type EventHandler func(data json.RawMessage)

// Client is the socket side of a host page or an AS client: dial,
// register, emit events, and subscribe to server-emitted events.
type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	handlers map[string][]EventHandler
	closed   bool

	done chan struct{}
}

// Dial connects to the relay's /ws endpoint and starts the read loop.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c := &Client{
		conn:     conn,
		handlers: make(map[string][]EventHandler),
		done:     make(chan struct{}),
	}

	go c.readLoop()

	return c, nil
}

// On registers a handler for a server-emitted event. Handlers run on
// the read-loop goroutine in arrival order.
func (c *Client) On(event string, h EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], h)
}

// Emit sends one event frame. Fire and forget: no acknowledgment, no
// retry.
func (c *Client) Emit(event string, data any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	c.mu.Unlock()

	frame, err := protocol.NewFrame(event, data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Register joins this connection to its derived room on the relay.
// Re-registering after a one-shot delivery consumed the room is the
// caller's responsibility.
func (c *Client) Register(sourceType, sourceID string) error {
	return c.Emit(protocol.EventRegister, protocol.RegisterRequest{
		SourceType: sourceType,
		SourceID:   sourceID,
	})
}

// Done is closed when the read loop exits.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				log.Printf("relay client: read loop ended: %v", err)
			}
			return
		}

		var frame protocol.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("relay client: malformed frame: %v", err)
			continue
		}

		c.mu.Lock()
		handlers := make([]EventHandler, len(c.handlers[frame.Event]))
		copy(handlers, c.handlers[frame.Event])
		c.mu.Unlock()

		for _, h := range handlers {
			h(frame.Data)
		}
	}
}

// Close shuts the client down; pending handlers finish, further emits
// fail with ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.conn.Close()
}
