package connection

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "IDLE"},
		{StateConnecting, "CONNECTING"},
		{StateOpen, "OPEN"},
		{StateReconnectWait, "RECONNECT_WAIT"},
		{StateClosed, "CLOSED"},
		{State(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestTrackerTransitions(t *testing.T) {
	t.Run("initial state is idle", func(t *testing.T) {
		tr := NewTracker()
		if tr.State() != StateIdle {
			t.Errorf("state = %v, want IDLE", tr.State())
		}
	})

	t.Run("observer sees each transition", func(t *testing.T) {
		tr := NewTracker()
		type change struct {
			from, to State
			reason   string
		}
		var changes []change
		tr.OnChange(func(from, to State, reason string) {
			changes = append(changes, change{from, to, reason})
		})

		tr.To(StateConnecting, "dial")
		tr.To(StateOpen, "open")
		tr.To(StateReconnectWait, "remote close")

		want := []change{
			{StateIdle, StateConnecting, "dial"},
			{StateConnecting, StateOpen, "open"},
			{StateOpen, StateReconnectWait, "remote close"},
		}
		if len(changes) != len(want) {
			t.Fatalf("got %d changes, want %d", len(changes), len(want))
		}
		for i, w := range want {
			if changes[i] != w {
				t.Errorf("change %d = %+v, want %+v", i, changes[i], w)
			}
		}
	})

	t.Run("same-state transition ignored", func(t *testing.T) {
		tr := NewTracker()
		calls := 0
		tr.OnChange(func(State, State, string) { calls++ })

		tr.To(StateConnecting, "dial")
		tr.To(StateConnecting, "dial again")
		if calls != 1 {
			t.Errorf("observer called %d times, want 1", calls)
		}
	})

	t.Run("closed is terminal", func(t *testing.T) {
		tr := NewTracker()
		tr.To(StateClosed, "teardown")
		tr.To(StateConnecting, "late dial")
		if tr.State() != StateClosed {
			t.Errorf("state = %v, want CLOSED", tr.State())
		}
	})
}
