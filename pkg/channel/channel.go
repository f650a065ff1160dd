package channel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inkwell-app/inkwell-go/pkg/connection"
	"github.com/inkwell-app/inkwell-go/pkg/credential"
	"github.com/inkwell-app/inkwell-go/pkg/log"
	"github.com/inkwell-app/inkwell-go/pkg/notify"
	"github.com/inkwell-app/inkwell-go/pkg/transport"
	"github.com/inkwell-app/inkwell-go/pkg/wire"
)

// Channel errors.
var (
	ErrClosed       = errors.New("channel closed")
	ErrNotConnected = errors.New("not connected")
)

// Options configures a Channel.
type Options struct {
	// Endpoint is the channel WebSocket URL. Required.
	Endpoint string

	// Dialer establishes connections (default: transport.NewWSDialer).
	Dialer transport.Dialer

	// HeartbeatInterval is the time between keep-alive pings
	// (default: 25s).
	HeartbeatInterval time.Duration

	// RetryPolicy configures the reconnect delay. The zero value is the
	// flat 3-second default.
	RetryPolicy connection.DelayConfig

	// Handshake controls whether workspace_info is sent after open.
	// Nil means enabled.
	Handshake *bool

	// Notifier receives user-facing notifications (default: discard).
	Notifier notify.Notifier

	// Logger receives channel events (default: discard).
	Logger log.Logger
}

// Channel maintains one live connection to the workspace event channel
// with automatic recovery from disconnects. Safe for concurrent use by
// any number of consumers.
type Channel struct {
	endpoint   string
	dialer     transport.Dialer
	hbInterval time.Duration
	handshake  bool
	notifier   notify.Notifier
	logger     log.Logger

	tracker *connection.Tracker
	delay   *connection.Delay

	mu sync.Mutex

	// Last known credential. Empty means reconnection must stop.
	cred string

	// Current connection, nil when none is open.
	conn      transport.Connection
	connected bool

	// gen increments on every connect; events carrying a stale
	// generation belong to a superseded connection and are ignored.
	gen uint64

	heartbeat  *transport.Heartbeat
	retryTimer *time.Timer
	closed     bool

	handlers []func(wire.Envelope)
}

// New creates a Channel. It does not connect.
func New(opts Options) (*Channel, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if opts.Dialer == nil {
		opts.Dialer = transport.NewWSDialer(transport.WSDialerConfig{})
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = transport.DefaultHeartbeatInterval
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NoopLogger{}
	}

	c := &Channel{
		endpoint:   opts.Endpoint,
		dialer:     opts.Dialer,
		hbInterval: opts.HeartbeatInterval,
		handshake:  opts.Handshake == nil || *opts.Handshake,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
		tracker:    connection.NewTracker(),
		delay:      connection.NewDelayWithConfig(opts.RetryPolicy),
	}
	c.tracker.OnChange(c.logStateChange)
	return c, nil
}

// Snapshot is a consumer's view of the channel at one instant.
type Snapshot struct {
	// Conn is the live connection handle, nil when none is open.
	// Consumers must not close it.
	Conn transport.Connection

	// Connected is true iff Conn is open and the handshake was issued.
	Connected bool

	// State is the lifecycle state.
	State connection.State
}

// State returns the current status and handle. No side effects.
func (c *Channel) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Conn:      c.conn,
		Connected: c.connected,
		State:     c.tracker.State(),
	}
}

// IsConnected reports whether the channel is currently connected.
func (c *Channel) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Connect establishes a connection using the given credential. Any
// existing connection is closed first, so at most one live handle
// exists at a time. A no-op when the credential is empty or the
// channel is closed. Connect returns once the dial has been issued;
// completion is observed through State and the event log.
func (c *Channel) Connect(cred string) {
	if cred == "" {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.cred = cred
	c.teardownLocked()
	c.gen++
	gen := c.gen
	c.tracker.To(connection.StateConnecting, "dial")
	c.mu.Unlock()

	go c.dial(gen, cred)
}

// Reconnect repeats the connect procedure with the last known
// credential. A no-op when none is known.
func (c *Channel) Reconnect() {
	c.mu.Lock()
	cred := c.cred
	c.mu.Unlock()
	c.Connect(cred)
}

// ResetConnection drops the current handle, resets the retry delay
// calculator, and dials again with the stored credential. This is the
// consumer-facing "reset" trigger.
func (c *Channel) ResetConnection() {
	c.delay.Reset()
	c.Reconnect()
}

// SetCredential reacts to a credential change. A new credential
// replaces the connection; an empty one tears it down and stops
// reconnection until a credential reappears.
func (c *Channel) SetCredential(cred string) {
	if cred == "" {
		c.mu.Lock()
		c.cred = ""
		c.teardownLocked()
		if !c.closed {
			c.tracker.To(connection.StateIdle, "credential cleared")
		}
		c.mu.Unlock()
		return
	}
	c.Connect(cred)
}

// Bind subscribes the channel to a credential store, connecting and
// disconnecting as the credential appears and disappears. The returned
// stop function unsubscribes; it does not close the channel.
func (c *Channel) Bind(store *credential.Store) func() {
	ch, cancel := store.Watch()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for cred := range ch {
			c.SetCredential(cred)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// Send writes an envelope on the current connection. Messages sent
// while disconnected are not queued: Send fails fast with
// ErrNotConnected.
func (c *Channel) Send(env wire.Envelope) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.connected || c.conn == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	conn := c.conn
	c.mu.Unlock()

	data, err := wire.Encode(env)
	if err != nil {
		return err
	}
	if err := conn.Send(data); err != nil {
		return err
	}
	c.logTraffic(conn, log.DirectionOut, env.Type, len(data))
	return nil
}

// OnMessage registers a consumer handler for inbound envelopes. All
// inbound traffic passes through unchanged, including types the
// channel itself never sends. Handlers run on the read-loop goroutine
// and must not block.
func (c *Channel) OnMessage(fn func(wire.Envelope)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, fn)
}

// Close tears the channel down: the connection is closed, heartbeat
// and retry timers are cancelled, and no further dials happen.
// Idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.teardownLocked()
	c.tracker.To(connection.StateClosed, "teardown")
	return nil
}

// teardownLocked closes the current connection and cancels both timers.
// Caller holds c.mu. Cancellation is synchronous with close handling so
// a heartbeat tick cannot fire against a dead handle.
func (c *Channel) teardownLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	if c.heartbeat != nil {
		c.heartbeat.Stop()
		c.heartbeat = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}
