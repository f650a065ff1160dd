package wire

import (
	"encoding/json"
	"fmt"
)

// Encode serializes an envelope to a JSON text frame.
func Encode(env Envelope) ([]byte, error) {
	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}
	return json.Marshal(env)
}

// Decode parses a JSON text frame into an envelope.
// Unknown top-level fields are tolerated for forward compatibility;
// a frame without a type tag is rejected.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode frame: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("frame has no type tag")
	}
	return env, nil
}

// DecodeContent unmarshals an envelope's content into v.
func DecodeContent(env Envelope, v any) error {
	if len(env.Content) == 0 {
		return fmt.Errorf("%s message has no content", env.Type)
	}
	if err := json.Unmarshal(env.Content, v); err != nil {
		return fmt.Errorf("decode %s content: %w", env.Type, err)
	}
	return nil
}
