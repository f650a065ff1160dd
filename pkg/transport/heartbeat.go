package transport

import (
	"sync"
	"time"
)

// DefaultHeartbeatInterval is the interval between keep-alive pings.
const DefaultHeartbeatInterval = 25 * time.Second

// Heartbeat periodically sends a keep-alive message while a connection
// is open. No acknowledgment is tracked: the heartbeat exists to keep
// idle intermediaries from closing the connection, not to detect loss.
//
// The openness guard runs at send time because the ticker can outlive
// the connection when a close races a tick.
type Heartbeat struct {
	interval time.Duration

	// Callbacks
	send   func() error
	isOpen func() bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	// Stats
	lastPing time.Time
	sent     int
}

// NewHeartbeat creates a heartbeat that calls send every interval while
// isOpen reports true.
func NewHeartbeat(interval time.Duration, send func() error, isOpen func() bool) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Heartbeat{
		interval: interval,
		send:     send,
		isOpen:   isOpen,
	}
}

// Start begins the ping loop. Starting a running heartbeat is a no-op.
func (h *Heartbeat) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.stopCh = make(chan struct{})
	stopCh := h.stopCh
	h.mu.Unlock()

	go h.loop(stopCh)
}

// Stop stops the ping loop. Safe to call multiple times; the loop sends
// nothing after Stop returns because the send guard re-checks.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return
	}
	h.running = false
	close(h.stopCh)
}

// IsRunning reports whether the ping loop is active.
func (h *Heartbeat) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Stats returns current heartbeat statistics.
func (h *Heartbeat) Stats() HeartbeatStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HeartbeatStats{
		LastPingTime: h.lastPing,
		Sent:         h.sent,
	}
}

// HeartbeatStats contains heartbeat statistics.
type HeartbeatStats struct {
	LastPingTime time.Time
	Sent         int
}

// loop is the ping loop.
func (h *Heartbeat) loop(stopCh chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			h.tick(stopCh)
		}
	}
}

// tick sends one ping if the connection is still open.
func (h *Heartbeat) tick(stopCh chan struct{}) {
	select {
	case <-stopCh:
		return
	default:
	}

	if h.isOpen != nil && !h.isOpen() {
		return
	}
	if err := h.send(); err != nil {
		// Send failure means the connection is on its way down; the
		// read loop will observe the close and drive recovery.
		return
	}

	h.mu.Lock()
	h.lastPing = time.Now()
	h.sent++
	h.mu.Unlock()
}
