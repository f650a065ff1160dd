package log

import "time"

// Event represents a channel event. CBOR encoding uses integer keys
// for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the connection the event belongs to
	// (UUID). Empty for events raised while no connection exists.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow. Meaningful for message and
	// control events.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// RemoteAddr is the peer address, when known.
	RemoteAddr string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"6,keyasint,omitempty"`
	Control     *ControlEvent     `cbor:"7,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"8,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"9,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a connection lifecycle change.
	CategoryState Category = 0
	// CategoryControl indicates control traffic (handshake, heartbeat).
	CategoryControl Category = 1
	// CategoryMessage indicates workspace traffic.
	CategoryMessage Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryControl:
		return "CONTROL"
	case CategoryMessage:
		return "MESSAGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a connection lifecycle transition.
type StateChangeEvent struct {
	// OldState is the previous state.
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (dial error, remote close, logout, ...).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ControlEvent captures client-managed control traffic.
type ControlEvent struct {
	// Type is the control message type (ping, workspace_info).
	Type string `cbor:"1,keyasint"`
}

// MessageEvent captures workspace traffic passing through the channel.
type MessageEvent struct {
	// Type is the envelope type tag.
	Type string `cbor:"1,keyasint"`

	// Size is the frame size in bytes.
	Size int `cbor:"2,keyasint"`
}

// ErrorEvent captures a transport or codec error.
type ErrorEvent struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being done.
	Context string `cbor:"2,keyasint,omitempty"`
}
