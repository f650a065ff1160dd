package transport

import "errors"

// Transport errors.
var (
	// ErrConnectionClosed indicates the connection was closed, either
	// locally or by the remote end with a normal close frame.
	ErrConnectionClosed = errors.New("connection closed")
)
