package connection

import "sync"

// State represents the channel connection state.
type State uint8

const (
	// StateIdle indicates no connection and no pending retry.
	// This is the initial state, and the state after the credential
	// goes away.
	StateIdle State = iota

	// StateConnecting indicates a dial is in flight.
	StateConnecting

	// StateOpen indicates an established connection with an active
	// heartbeat.
	StateOpen

	// StateReconnectWait indicates the connection is gone and a single
	// retry is scheduled.
	StateReconnectWait

	// StateClosed indicates explicit teardown. Terminal.
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateOpen:
		return "OPEN"
	case StateReconnectWait:
		return "RECONNECT_WAIT"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Tracker records the current lifecycle state and notifies an observer
// on every transition. Safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	state    State
	onChange func(oldState, newState State, reason string)
}

// NewTracker creates a tracker in StateIdle.
func NewTracker() *Tracker {
	return &Tracker{state: StateIdle}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// OnChange sets the transition observer. The callback runs on the
// goroutine performing the transition and must not call back into the
// tracker.
func (t *Tracker) OnChange(fn func(oldState, newState State, reason string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// To transitions to the given state. Transitions to the same state are
// ignored; transitions out of StateClosed are ignored.
func (t *Tracker) To(next State, reason string) {
	t.mu.Lock()
	old := t.state
	if old == next || old == StateClosed {
		t.mu.Unlock()
		return
	}
	t.state = next
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(old, next, reason)
	}
}
