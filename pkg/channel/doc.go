// Package channel maintains the persistent connection to the Inkwell
// workspace event channel.
//
// A Channel owns at most one live connection, keyed by a bearer
// credential. It dials, sends the workspace_info handshake, runs the
// heartbeat, and recovers from disconnects with a flat-delay retry
// that stops the moment the credential goes away.
//
// # Lifecycle
//
//	IDLE ──connect──▶ CONNECTING ──open──▶ OPEN
//	  ▲                   ▲                 │
//	  │                   │ delay elapsed,  │ close
//	  │ credential        │ credential      ▼
//	  │ cleared           │ present   RECONNECT_WAIT
//	  └───────────────────┴─────────────────┘
//
// Explicit teardown (Close) is the only terminal transition. Any close
// of an open connection — network failure, server-initiated close, or
// replacement by a new Connect — takes the same recovery path.
//
// # Consumers
//
// Any number of consumers share one Channel. They read State(), send
// with Send, subscribe to inbound traffic with OnMessage, and may
// trigger Reconnect or ResetConnection; only the Channel itself mutates
// connection state. Transport failures never propagate to consumers:
// they surface as a notify.Notifier warning and an event-log entry,
// and the retry loop handles recovery.
package channel
