package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/inkwell-app/inkwell-go/pkg/version"
)

// Dial defaults.
const (
	// DefaultDialTimeout bounds the WebSocket handshake.
	DefaultDialTimeout = 30 * time.Second

	// DefaultWriteTimeout bounds a single frame write.
	DefaultWriteTimeout = 10 * time.Second
)

// WSDialerConfig configures a WSDialer.
type WSDialerConfig struct {
	// DialTimeout bounds the handshake (default: 30s).
	DialTimeout time.Duration

	// WriteTimeout bounds individual sends (default: 10s).
	WriteTimeout time.Duration
}

// WSDialer dials the channel endpoint over WebSocket.
type WSDialer struct {
	config WSDialerConfig
}

// NewWSDialer creates a WebSocket dialer.
func NewWSDialer(config WSDialerConfig) *WSDialer {
	if config.DialTimeout == 0 {
		config.DialTimeout = DefaultDialTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}
	return &WSDialer{config: config}
}

// Dial opens a connection to endpoint, passing the credential as the
// "token" query parameter and as a bearer Authorization header.
func (d *WSDialer) Dial(ctx context.Context, endpoint, credential string) (Connection, error) {
	if credential == "" {
		return nil, fmt.Errorf("credential is required")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("endpoint scheme must be ws or wss, got %q", u.Scheme)
	}
	q := u.Query()
	q.Set("token", credential)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+credential)
	header.Set("User-Agent", version.UserAgent())

	dialer := websocket.Dialer{
		HandshakeTimeout: d.config.DialTimeout,
	}
	ws, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", u.Host, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", u.Host, err)
	}

	return &WSConn{
		ws:           ws,
		id:           uuid.NewString(),
		writeTimeout: d.config.WriteTimeout,
		closeCh:      make(chan struct{}),
	}, nil
}

// WSConn wraps a gorilla WebSocket connection.
type WSConn struct {
	ws           *websocket.Conn
	id           string
	writeTimeout time.Duration
	closeCh      chan struct{}

	closeOnce sync.Once
	// writeMu serializes frame writes; gorilla connections are not
	// concurrent-write safe.
	writeMu sync.Mutex
}

// ID returns the connection's unique identifier.
func (c *WSConn) ID() string {
	return c.id
}

// RemoteAddr returns the remote network address.
func (c *WSConn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// Send writes one text frame.
func (c *WSConn) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}

	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Receive blocks until the next text frame arrives or the connection
// fails. Binary frames are skipped.
func (c *WSConn) Receive() ([]byte, error) {
	for {
		select {
		case <-c.closeCh:
			return nil, ErrConnectionClosed
		default:
		}

		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, ErrConnectionClosed
			}
			return nil, fmt.Errorf("read frame: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

// IsOpen reports whether Close has not been called.
func (c *WSConn) IsOpen() bool {
	select {
	case <-c.closeCh:
		return false
	default:
		return true
	}
}

// Close sends a best-effort close frame and closes the connection.
func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)

		c.writeMu.Lock()
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()

		err = c.ws.Close()
	})
	return err
}
