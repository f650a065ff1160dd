// Package connection provides connection lifecycle primitives for the
// workspace channel.
//
// This package handles:
//   - Connection state tracking with change callbacks
//   - Retry delay calculation for reconnection attempts
//
// # Reconnection strategy
//
// The channel retries with a flat delay:
//
//  1. Connection lost
//  2. Wait 3 seconds
//  3. Dial again
//  4. Repeat indefinitely while a credential is present
//
// There is no growth, no jitter and no attempt cap by default; this
// matches the product's shipped behavior. Operators who want growth or
// jitter can opt in through DelayConfig, but defaults stay flat so the
// retry cadence is predictable.
package connection
