// Package notify carries user-facing transient notifications from the
// channel to whatever surface the application renders them on (a toast,
// a status line, a log). Failures inside the channel are never returned
// to callers; they arrive here instead.
package notify

import "sync"

// Notifier receives user-facing notifications. Implementations must be
// safe for concurrent use and must not block.
type Notifier interface {
	// Info reports a routine status change worth showing.
	Info(message string)

	// Warn reports a non-fatal problem, such as a transport error.
	Warn(message string)
}

// Noop discards all notifications. Usable as a zero value.
type Noop struct{}

// Info discards the message.
func (Noop) Info(string) {}

// Warn discards the message.
func (Noop) Warn(string) {}

// Func adapts a function to the Notifier interface. The level is
// "info" or "warn".
type Func func(level, message string)

// Info calls the function with level "info".
func (f Func) Info(message string) { f("info", message) }

// Warn calls the function with level "warn".
func (f Func) Warn(message string) { f("warn", message) }

// Recorder retains notifications in memory. Intended for tests and for
// surfaces that poll.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Entry is one recorded notification.
type Entry struct {
	Level   string
	Message string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Info records an info notification.
func (r *Recorder) Info(message string) { r.record("info", message) }

// Warn records a warning notification.
func (r *Recorder) Warn(message string) { r.record("warn", message) }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Recorder) record(level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
}

// Compile-time interface satisfaction checks.
var (
	_ Notifier = Noop{}
	_ Notifier = Func(nil)
	_ Notifier = (*Recorder)(nil)
)
