// Copyright (c) 2026 Tigera, Inc. All rights reserved.

// Package stream abstracts out the process of (re)connecting to the backend's
// network-metrics websocket and pulling frames from it, using channels.
// Consumers pull raw frames and state transitions from a single pipeline
// rather than worrying about the socket lifecycle.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	v1 "github.com/tigera/netgraph/pkg/apis/v1"
)

const (
	defaultBackoffFloor   = 1 * time.Second
	defaultBackoffCeiling = 30 * time.Second
)

// Conn is the subset of the websocket connection the client needs. It exists
// to make scripting connections in tests easy.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// DialFunc establishes a streaming connection to the given URL.
type DialFunc func(ctx context.Context, url string) (Conn, error)

func defaultDial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type EventType int

const (
	// EventStateChange reports a connection state transition. Err carries the
	// triggering failure when transitioning into degraded.
	EventStateChange EventType = iota
	// EventMessage carries a raw inbound frame.
	EventMessage
)

type Event struct {
	Type    EventType
	State   v1.ConnectionState
	Err     error
	Message []byte
}

type Config struct {
	// URL of the streaming endpoint, e.g. ws://host/api/networking/ws.
	URL string

	// Dial overrides the websocket dialer. Used by tests.
	Dial DialFunc

	BackoffFloor   time.Duration
	BackoffCeiling time.Duration
}

// Client owns the lifecycle of a single streaming connection: connect,
// receive, detect closure, reconnect with exponential backoff. At most one
// connection attempt is outstanding at any time, and a retry is always
// scheduled via a timer, never synchronously, so an instantly-failing
// endpoint cannot hot-loop the client.
type Client struct {
	url    string
	dial   DialFunc
	bo     *backoff
	events chan Event

	mu      sync.Mutex
	state   v1.ConnectionState
	conn    Conn
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

func NewClient(cfg Config) *Client {
	if cfg.Dial == nil {
		cfg.Dial = defaultDial
	}
	if cfg.BackoffFloor <= 0 {
		cfg.BackoffFloor = defaultBackoffFloor
	}
	if cfg.BackoffCeiling <= 0 {
		cfg.BackoffCeiling = defaultBackoffCeiling
	}
	return &Client{
		url:    cfg.URL,
		dial:   cfg.Dial,
		bo:     newBackoff(cfg.BackoffFloor, cfg.BackoffCeiling),
		events: make(chan Event, 16),
		state:  v1.StateDisconnected,
	}
}

// Events returns the pipeline of state transitions and inbound frames.
// Frames are delivered in arrival order. The channel is never closed;
// consumers stop reading when they shut down.
func (c *Client) Events() <-chan Event {
	return c.events
}

// State returns the current connection state.
func (c *Client) State() v1.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins connecting. It is a no-op if the client is already running.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.bo.Reset()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	go c.run(ctx)
}

// Stop tears the connection down: it cancels any pending reconnect timer and
// closes any open socket without triggering a further attempt. It is
// idempotent and safe to call from any state; once it returns, no further
// state transitions occur.
func (c *Client) Stop() {
	c.mu.Lock()
	if !c.started {
		c.state = v1.StateDisconnected
		c.mu.Unlock()
		return
	}
	c.started = false
	c.cancel()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		// Unblocks the read loop.
		if err := conn.Close(); err != nil {
			log.WithError(err).Debug("Ignoring error closing streaming connection on stop")
		}
	}
	c.wg.Wait()

	c.mu.Lock()
	c.state = v1.StateDisconnected
	gaugeLive.Set(0)
	c.mu.Unlock()
}

func (c *Client) run(ctx context.Context) {
	defer c.wg.Done()
	for {
		c.setState(ctx, v1.StateConnecting, nil)
		counterConnectAttempts.Inc()
		conn, err := c.dial(ctx, c.url)
		if err == nil {
			c.mu.Lock()
			if ctx.Err() != nil {
				c.mu.Unlock()
				conn.Close()
				return
			}
			c.conn = conn
			c.mu.Unlock()

			// Successful open resets the backoff to its floor.
			c.bo.Reset()
			gaugeLive.Set(1)
			c.setState(ctx, v1.StateLive, nil)

			err = c.readLoop(ctx, conn)

			gaugeLive.Set(0)
			c.mu.Lock()
			c.conn = nil
			c.mu.Unlock()
			conn.Close()
		}

		if ctx.Err() != nil {
			return
		}

		delay := c.bo.Next()
		c.setState(ctx, v1.StateDegraded, err)
		log.WithError(err).WithField("delay", delay).Warn("Streaming channel down; will reconnect")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn Conn) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		counterMessages.Inc()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c.events <- Event{Type: EventMessage, Message: msg}:
		}
	}
}

func (c *Client) setState(ctx context.Context, s v1.ConnectionState, err error) {
	c.mu.Lock()
	if ctx.Err() != nil {
		// Stopped while we were transitioning; no further callbacks fire.
		c.mu.Unlock()
		return
	}
	c.state = s
	c.mu.Unlock()

	select {
	case <-ctx.Done():
	case c.events <- Event{Type: EventStateChange, State: s, Err: err}:
	}
}
