// Package wire defines the message envelope exchanged over the Inkwell
// workspace channel.
//
// Every frame on the channel is a JSON object with a string "type" tag
// and an optional "content" payload:
//
//	{ "type": "workspace_info", "content": {} }
//	{ "type": "ping" }
//
// The client itself only ever sends the closed set of types defined in
// this package (the handshake and the heartbeat). Inbound frames carry
// arbitrary server-defined types; they are decoded to an Envelope and
// passed through to consumers opaquely. An unknown type is not an error.
package wire
