package channel

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell-app/inkwell-go/pkg/connection"
	"github.com/inkwell-app/inkwell-go/pkg/log"
	"github.com/inkwell-app/inkwell-go/pkg/transport"
	"github.com/inkwell-app/inkwell-go/pkg/wire"
)

// dialTimeout bounds one connection attempt. Only one attempt is ever
// in flight; it resolves to open or down before the channel acts again.
const dialTimeout = 30 * time.Second

// dial performs one connection attempt for the given generation.
// Runs on its own goroutine.
func (c *Channel) dial(gen uint64, cred string) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	conn, err := c.dialer.Dial(ctx, c.endpoint, cred)

	c.mu.Lock()
	if c.closed || gen != c.gen {
		// A newer Connect or a teardown superseded this attempt.
		c.mu.Unlock()
		if err == nil {
			_ = conn.Close()
		}
		return
	}

	if err != nil {
		// Establishment failure takes the same path as a dropped
		// connection: schedule a retry, no special casing.
		c.logError(nil, err, "dial")
		c.handleDownLocked("dial: " + err.Error())
		c.mu.Unlock()
		return
	}

	c.conn = conn
	c.connected = true
	c.delay.Reset()
	c.tracker.To(connection.StateOpen, "open")

	hb := transport.NewHeartbeat(c.hbInterval,
		func() error { return c.sendControl(gen, wire.NewPing()) },
		conn.IsOpen,
	)
	c.heartbeat = hb
	hb.Start()
	c.mu.Unlock()

	// Announce ourselves. Fire-and-forget: no response is awaited, and
	// a send failure here surfaces through the read loop's close.
	if c.handshake {
		_ = c.sendControl(gen, wire.NewWorkspaceInfo())
	}

	go c.readLoop(gen, conn)
}

// readLoop receives frames until the connection fails, then drives the
// close path. Runs on its own goroutine, one per connection.
func (c *Channel) readLoop(gen uint64, conn transport.Connection) {
	for {
		data, err := conn.Receive()
		if err != nil {
			c.mu.Lock()
			if c.closed || gen != c.gen {
				// Late failure from a superseded connection.
				c.mu.Unlock()
				return
			}
			// The transport reports errors and closure as a single read
			// failure; warn on the abnormal ones, then let the close
			// path drive recovery either way.
			if !errors.Is(err, transport.ErrConnectionClosed) {
				c.notifier.Warn("connection error")
				c.logError(conn, err, "receive")
			}
			c.handleDownLocked(err.Error())
			c.mu.Unlock()
			return
		}

		env, err := wire.Decode(data)
		if err != nil {
			c.logError(conn, err, "decode")
			continue
		}
		c.logTraffic(conn, log.DirectionIn, env.Type, len(data))
		c.dispatch(env)
	}
}

// handleDownLocked handles the loss of the current connection: clears
// the handle, stops the heartbeat, and schedules a single retry iff a
// credential is still present. Caller holds c.mu with gen verified
// current.
func (c *Channel) handleDownLocked(reason string) {
	if c.heartbeat != nil {
		c.heartbeat.Stop()
		c.heartbeat = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connected = false

	if c.closed || c.cred == "" {
		c.tracker.To(connection.StateIdle, reason)
		return
	}
	c.scheduleRetryLocked(reason)
}

// scheduleRetryLocked arms the reconnect timer. At most one timer is
// ever pending. Caller holds c.mu.
func (c *Channel) scheduleRetryLocked(reason string) {
	if c.retryTimer != nil {
		return
	}
	c.tracker.To(connection.StateReconnectWait, reason)

	delay := c.delay.Next()
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.retryTimer = nil
		if c.closed {
			c.mu.Unlock()
			return
		}
		// Re-check at fire time: the credential may have been cleared
		// while the timer was pending.
		cred := c.cred
		if cred == "" {
			c.tracker.To(connection.StateIdle, "credential cleared")
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.Connect(cred)
	})
}

// sendControl sends a client-managed control envelope on the current
// connection, provided the given generation is still live.
func (c *Channel) sendControl(gen uint64, env wire.Envelope) error {
	c.mu.Lock()
	if c.closed || gen != c.gen || c.conn == nil {
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
	c.logControl(conn, env.Type)
	return nil
}

// dispatch hands an inbound envelope to every registered consumer.
func (c *Channel) dispatch(env wire.Envelope) {
	c.mu.Lock()
	handlers := make([]func(wire.Envelope), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(env)
	}
}

// heartbeatActive reports whether a heartbeat loop is running.
func (c *Channel) heartbeatActive() bool {
	c.mu.Lock()
	hb := c.heartbeat
	c.mu.Unlock()
	return hb != nil && hb.IsRunning()
}
