package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func writeEvents(t *testing.T, path string, events []Event) {
	t.Helper()
	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		fl.Log(e)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestFileLoggerRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel.cborlog")
	now := time.Now().Truncate(time.Millisecond)

	writeEvents(t, path, []Event{
		{
			Timestamp: now,
			Category:  CategoryState,
			StateChange: &StateChangeEvent{
				OldState: "IDLE",
				NewState: "CONNECTING",
				Reason:   "dial",
			},
		},
		{
			Timestamp:    now.Add(time.Second),
			ConnectionID: "conn-1",
			Direction:    DirectionOut,
			Category:     CategoryControl,
			RemoteAddr:   "10.0.0.1:443",
			Control:      &ControlEvent{Type: "ping"},
		},
		{
			Timestamp:    now.Add(2 * time.Second),
			ConnectionID: "conn-1",
			Direction:    DirectionIn,
			Category:     CategoryMessage,
			Message:      &MessageEvent{Type: "note_updated", Size: 120},
		},
	})

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	events, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("read %d events, want 3", len(events))
	}

	if events[0].StateChange == nil || events[0].StateChange.NewState != "CONNECTING" {
		t.Errorf("event 0 state change = %+v", events[0].StateChange)
	}
	if events[1].Control == nil || events[1].Control.Type != "ping" {
		t.Errorf("event 1 control = %+v", events[1].Control)
	}
	if events[1].ConnectionID != "conn-1" {
		t.Errorf("event 1 conn id = %q", events[1].ConnectionID)
	}
	if events[2].Message == nil || events[2].Message.Size != 120 {
		t.Errorf("event 2 message = %+v", events[2].Message)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel.cborlog")

	writeEvents(t, path, []Event{{Timestamp: time.Now(), Category: CategoryState}})
	writeEvents(t, path, []Event{{Timestamp: time.Now(), Category: CategoryError}})

	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	events, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Errorf("read %d events after two sessions, want 2", len(events))
	}
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel.cborlog")
	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := fl.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	// Logging after Close is silently ignored.
	fl.Log(Event{Timestamp: time.Now()})
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel.cborlog")
	now := time.Now()

	writeEvents(t, path, []Event{
		{Timestamp: now, ConnectionID: "a", Direction: DirectionOut, Category: CategoryControl, Control: &ControlEvent{Type: "ping"}},
		{Timestamp: now, ConnectionID: "b", Direction: DirectionIn, Category: CategoryMessage, Message: &MessageEvent{Type: "x"}},
		{Timestamp: now, ConnectionID: "a", Direction: DirectionIn, Category: CategoryMessage, Message: &MessageEvent{Type: "y"}},
	})

	t.Run("by connection", func(t *testing.T) {
		r, err := NewFilteredReader(path, Filter{ConnectionID: "a"})
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		events, err := r.ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 2 {
			t.Errorf("got %d events for conn a, want 2", len(events))
		}
	})

	t.Run("by category", func(t *testing.T) {
		cat := CategoryMessage
		r, err := NewFilteredReader(path, Filter{Category: &cat})
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		events, err := r.ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 2 {
			t.Errorf("got %d message events, want 2", len(events))
		}
	})

	t.Run("next returns EOF at end", func(t *testing.T) {
		r, err := NewFilteredReader(path, Filter{ConnectionID: "missing"})
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		if _, err := r.Next(); err != io.EOF {
			t.Errorf("Next = %v, want io.EOF", err)
		}
	})
}

func TestMultiLogger(t *testing.T) {
	var a, b capture
	m := NewMultiLogger(&a, &b)
	m.Log(Event{ConnectionID: "c"})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("events = %d/%d, want 1/1", len(a.events), len(b.events))
	}
}

type capture struct {
	events []Event
}

func (c *capture) Log(e Event) { c.events = append(c.events, e) }
