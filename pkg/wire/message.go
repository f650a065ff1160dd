package wire

import (
	"encoding/json"
	"fmt"
)

// Message types sent by the channel client.
const (
	// TypeWorkspaceInfo is the handshake sent once after a connection
	// opens, asking the server to describe the current workspace.
	TypeWorkspaceInfo = "workspace_info"

	// TypePing is the heartbeat keep-alive. No acknowledgment is
	// required or checked.
	TypePing = "ping"
)

// Message types the client recognizes on the inbound path. Everything
// else is server-defined and passed through to consumers unchanged.
const (
	// TypePong is the server's optional reply to a ping.
	TypePong = "pong"
)

// Envelope is a single channel frame.
type Envelope struct {
	// Type tags the message. Never empty on a valid frame.
	Type string `json:"type"`

	// Content is the type-specific payload. The client treats inbound
	// content as opaque; consumers decode it themselves.
	Content json.RawMessage `json:"content,omitempty"`
}

// Validate checks that the envelope can go on the wire.
func (e *Envelope) Validate() error {
	if e.Type == "" {
		return fmt.Errorf("envelope has empty type")
	}
	if len(e.Content) > 0 && !json.Valid(e.Content) {
		return fmt.Errorf("envelope content is not valid JSON")
	}
	return nil
}

// IsControl reports whether the envelope is one of the client-managed
// control types rather than workspace traffic.
func (e *Envelope) IsControl() bool {
	return e.Type == TypePing || e.Type == TypePong || e.Type == TypeWorkspaceInfo
}

// NewWorkspaceInfo builds the post-open handshake message.
// The content is an empty object: the request carries no parameters.
func NewWorkspaceInfo() Envelope {
	return Envelope{
		Type:    TypeWorkspaceInfo,
		Content: json.RawMessage(`{}`),
	}
}

// NewPing builds the heartbeat message.
func NewPing() Envelope {
	return Envelope{Type: TypePing}
}

// NewMessage builds an envelope with an arbitrary type and a payload
// that is marshalled to JSON.
func NewMessage(msgType string, content any) (Envelope, error) {
	env := Envelope{Type: msgType}
	if content != nil {
		data, err := json.Marshal(content)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal %s content: %w", msgType, err)
		}
		env.Content = data
	}
	if err := env.Validate(); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
