// Package ipc subscribes to the event stream of a running API server.
package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultReconnectDelay is the wait between connection attempts.
const DefaultReconnectDelay = 5 * time.Second

// Event is one message received from the server.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Handler handles events. Handlers run on the read loop in arrival order.
type Handler func(Event)

// Client reads events from the server websocket endpoint.
type Client struct {
	url            string
	ReconnectDelay time.Duration

	handlersMu sync.RWMutex
	handlers   map[string][]Handler

	connMu    sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// NewClient creates a client for the server at serverURL. An http or https
// base URL is mapped to the /ws endpoint. When types is non-empty only
// those event types are requested.
func NewClient(serverURL string, types ...string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	if len(types) > 0 {
		q := u.Query()
		q.Set("types", strings.Join(types, ","))
		u.RawQuery = q.Encode()
	}

	return &Client{
		url:            u.String(),
		ReconnectDelay: DefaultReconnectDelay,
		handlers:       make(map[string][]Handler),
	}, nil
}

// URL returns the websocket URL.
func (c *Client) URL() string {
	return c.url
}

// On registers a handler for eventType. An empty type receives every event.
func (c *Client) On(eventType string, handler Handler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[eventType] = append(c.handlers[eventType], handler)
}

// IsConnected reports whether the client currently holds a connection.
func (c *Client) IsConnected() bool {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.connected
}

// Connect dials the server once.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	c.connMu.Lock()
	c.conn = conn
	c.connected = true
	c.connMu.Unlock()

	log.Printf("[IPC] Connected to %s", c.url)
	return nil
}

// Run reads events until ctx ends, reconnecting after failures. The first
// connection attempt must succeed.
func (c *Client) Run(ctx context.Context) error {
	if !c.IsConnected() {
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}

	stop := context.AfterFunc(ctx, c.closeConn)
	defer stop()

	for {
		if err := c.listen(); err != nil && ctx.Err() == nil {
			log.Printf("[IPC] Error reading from server: %v", err)
		}
		c.closeConn()
		if ctx.Err() != nil {
			return nil
		}
		c.reconnect(ctx)
	}
}

func (c *Client) listen() error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return nil
	}

	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			return err
		}
		c.dispatch(event)
	}
}

// reconnect retries until a connection is made or ctx ends.
func (c *Client) reconnect(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.ReconnectDelay):
		}

		log.Println("[IPC] Attempting to reconnect...")
		if err := c.Connect(ctx); err != nil {
			log.Printf("[IPC] Reconnection failed: %v", err)
			continue
		}
		// ctx may have ended while dialing; AfterFunc has already fired.
		if ctx.Err() != nil {
			c.closeConn()
		}
		return
	}
}

func (c *Client) closeConn() {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			log.Printf("[IPC] Error closing connection: %v", err)
		}
		c.conn = nil
	}
	c.connected = false
}

func (c *Client) dispatch(event Event) {
	c.handlersMu.RLock()
	handlers := append(append([]Handler(nil), c.handlers[event.Type]...), c.handlers[""]...)
	c.handlersMu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
