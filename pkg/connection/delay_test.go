package connection

import (
	"testing"
	"time"
)

func TestDelayFlatDefault(t *testing.T) {
	d := NewDelay()

	// The shipped policy is a constant delay: no growth, no jitter,
	// regardless of how many attempts have been made.
	for i := 0; i < 10; i++ {
		if got := d.Next(); got != DefaultReconnectDelay {
			t.Fatalf("attempt %d: delay = %v, want %v", i, got, DefaultReconnectDelay)
		}
	}
	if d.Attempts() != 10 {
		t.Errorf("attempts = %d, want 10", d.Attempts())
	}
}

func TestDelayCustomGrowth(t *testing.T) {
	d := NewDelayWithConfig(DelayConfig{
		Initial:    time.Second,
		Max:        4 * time.Second,
		Multiplier: 2.0,
	})

	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		4 * time.Second, // capped
	}
	for i, w := range want {
		if got := d.Next(); got != w {
			t.Errorf("attempt %d: delay = %v, want %v", i, got, w)
		}
	}
}

func TestDelayReset(t *testing.T) {
	d := NewDelayWithConfig(DelayConfig{
		Initial:    time.Second,
		Max:        8 * time.Second,
		Multiplier: 2.0,
	})

	d.Next()
	d.Next()
	if d.Current() != 4*time.Second {
		t.Fatalf("current = %v, want 4s", d.Current())
	}

	d.Reset()
	if d.Current() != time.Second {
		t.Errorf("current after reset = %v, want 1s", d.Current())
	}
	if d.Attempts() != 0 {
		t.Errorf("attempts after reset = %d, want 0", d.Attempts())
	}
	if got := d.Next(); got != time.Second {
		t.Errorf("first delay after reset = %v, want 1s", got)
	}
}

func TestDelayPeekDoesNotAdvance(t *testing.T) {
	d := NewDelayWithConfig(DelayConfig{
		Initial:    time.Second,
		Max:        8 * time.Second,
		Multiplier: 2.0,
	})

	if d.Peek() != time.Second {
		t.Errorf("peek = %v, want 1s", d.Peek())
	}
	if d.Attempts() != 0 {
		t.Errorf("peek advanced the attempt counter")
	}
	if got := d.Next(); got != time.Second {
		t.Errorf("next after peek = %v, want 1s", got)
	}
}

func TestDelayJitterBounds(t *testing.T) {
	d := NewDelayWithConfig(DelayConfig{
		Initial: time.Second,
		Jitter:  0.5,
	})

	for i := 0; i < 100; i++ {
		got := d.Next()
		if got < time.Second || got > 1500*time.Millisecond {
			t.Fatalf("delay %v outside [1s, 1.5s]", got)
		}
	}
}

func TestDelayZeroConfigDefaults(t *testing.T) {
	d := NewDelayWithConfig(DelayConfig{})
	if got := d.Next(); got != DefaultReconnectDelay {
		t.Errorf("delay = %v, want %v", got, DefaultReconnectDelay)
	}
}
