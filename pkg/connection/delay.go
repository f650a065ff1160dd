package connection

import (
	"math/rand"
	"sync"
	"time"
)

// Retry delay defaults. The shipped behavior is a flat 3-second delay
// with unbounded attempts.
const (
	// DefaultReconnectDelay is the wait between a close and the next dial.
	DefaultReconnectDelay = 3 * time.Second

	// DefaultMultiplier keeps the delay flat.
	DefaultMultiplier = 1.0

	// DefaultJitter disables jitter.
	DefaultJitter = 0.0
)

// Delay calculates reconnection delays. By default every call to Next
// returns the same flat delay; growth and jitter are opt-in.
type Delay struct {
	mu sync.Mutex

	// Current base delay (before jitter)
	current time.Duration

	// Configuration
	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64

	// Attempt counter
	attempts int

	// Random source for jitter
	rng *rand.Rand
}

// NewDelay creates a delay calculator with the flat default policy.
func NewDelay() *Delay {
	return NewDelayWithConfig(DelayConfig{})
}

// DelayConfig allows customizing the retry policy.
// Zero values select the flat defaults.
type DelayConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// NewDelayWithConfig creates a delay calculator with custom settings.
func NewDelayWithConfig(cfg DelayConfig) *Delay {
	if cfg.Initial <= 0 {
		cfg.Initial = DefaultReconnectDelay
	}
	if cfg.Max <= 0 {
		cfg.Max = cfg.Initial
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = DefaultMultiplier
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = DefaultJitter
	}

	return &Delay{
		current:    cfg.Initial,
		initial:    cfg.Initial,
		max:        cfg.Max,
		multiplier: cfg.Multiplier,
		jitter:     cfg.Jitter,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next delay (with jitter) and advances the calculator.
func (d *Delay) Next() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	delay := d.addJitter(d.current)

	d.attempts++
	next := time.Duration(float64(d.current) * d.multiplier)
	if next > d.max {
		next = d.max
	}
	d.current = next

	return delay
}

// Peek returns the current delay without advancing.
func (d *Delay) Peek() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addJitter(d.current)
}

// Reset returns the calculator to its initial values.
// Call this after a successful connection.
func (d *Delay) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = d.initial
	d.attempts = 0
}

// Attempts returns the number of delays handed out since the last reset.
func (d *Delay) Attempts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attempts
}

// Current returns the current base delay (without jitter).
func (d *Delay) Current() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// addJitter adds random jitter to a delay.
func (d *Delay) addJitter(v time.Duration) time.Duration {
	if d.jitter <= 0 {
		return v
	}
	jitterAmount := time.Duration(float64(v) * d.jitter * d.rng.Float64())
	return v + jitterAmount
}
