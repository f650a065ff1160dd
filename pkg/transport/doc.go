// Package transport provides the WebSocket transport for the workspace
// channel.
//
// The transport layer handles:
//   - Dialing the channel endpoint with a bearer credential
//   - JSON text frames over a single WebSocket connection
//   - Heartbeat pings to keep idle intermediaries from dropping the
//     connection
//
// # Protocol stack
//
//	┌────────────────────────────────┐
//	│      JSON envelopes            │
//	├────────────────────────────────┤
//	│   WebSocket text frames        │
//	├────────────────────────────────┤
//	│         TLS (wss)              │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// # Authentication
//
// The credential is an opaque bearer token. It is passed both as the
// "token" query parameter and as an Authorization header on the upgrade
// request; the server accepts either.
//
// # Heartbeat
//
// A ping envelope is sent every 25 seconds while the connection is
// open. The server is not required to acknowledge; the heartbeat exists
// to generate traffic, not to detect loss. Loss detection is the read
// loop's failure, which the session layer turns into a reconnect.
package transport
