package transport

import "context"

// Connection is one live bidirectional connection to the channel
// endpoint. Implemented by WSConn.
type Connection interface {
	// ID returns the unique identifier assigned to this connection,
	// used to correlate log events.
	ID() string

	// RemoteAddr returns the remote network address.
	RemoteAddr() string

	// Send writes one text frame. Safe for concurrent use.
	Send(data []byte) error

	// Receive blocks until the next text frame or a transport error.
	Receive() ([]byte, error)

	// IsOpen reports whether the connection has not been closed locally.
	IsOpen() bool

	// Close closes the connection. Safe to call multiple times.
	Close() error
}

// Dialer establishes connections to a channel endpoint.
// Implemented by WSDialer.
type Dialer interface {
	// Dial opens a connection to the endpoint, authenticating with the
	// given credential.
	Dial(ctx context.Context, endpoint, credential string) (Connection, error)
}

// Compile-time interface satisfaction checks.
var (
	_ Connection = (*WSConn)(nil)
	_ Dialer     = (*WSDialer)(nil)
)
