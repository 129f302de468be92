package poll

import (
	"sync"
	"time"
)

// minClockDelay is the floor applied to non-positive delays.
const minClockDelay = time.Millisecond

// Clock re-arms a single timer after each callback, using the delay the
// callback returns. At most one timer is live at any time.
type Clock struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	running  bool
	callback func() time.Duration
}

// NewClock constructs a stopped clock.
func NewClock() *Clock {
	return &Clock{}
}

// Start schedules callback after initialDelay, replacing any previous schedule.
func (c *Clock) Start(callback func() time.Duration, initialDelay time.Duration) {
	if callback == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callback = callback
	c.running = true
	c.armLocked(initialDelay)
}

// Stop cancels the pending invocation. Calling Stop more than once is safe.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Running reports whether the clock has a pending invocation or callback.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// armLocked replaces the live timer. Callers hold c.mu.
func (c *Clock) armLocked(delay time.Duration) {
	if delay < minClockDelay {
		delay = minClockDelay
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(delay, func() { c.fire(gen) })
}

// fire runs the callback for generation gen unless it was replaced or stopped.
func (c *Clock) fire(gen uint64) {
	c.mu.Lock()
	if !c.running || gen != c.gen {
		c.mu.Unlock()
		return
	}
	callback := c.callback
	c.timer = nil
	c.mu.Unlock()

	delay := callback()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || gen != c.gen {
		return
	}
	c.armLocked(delay)
}
