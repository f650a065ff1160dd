// Package log captures channel events for debugging and offline
// inspection.
//
// Events cover connection state changes, control traffic (handshake,
// heartbeat), workspace messages and errors. Applications provide a
// Logger implementation; FileLogger persists events as a CBOR stream
// that Reader can replay, and SlogAdapter mirrors events to log/slog
// for development.
package log
