package quiz

import (
	"context"
	"sync"
	"time"
)

// CountdownHooks are called from the goroutine driving the countdown.
type CountdownHooks struct {
	OnTick     func(remaining int)
	OnHalfTime func(remaining int)
	OnTimeUp   func()
}

// Countdown drives a session's clock one second at a time. It stops itself
// before OnTimeUp runs, so OnTimeUp fires at most once.
type Countdown struct {
	session  *Session
	hooks    CountdownHooks
	interval time.Duration
	half     int

	mu      sync.Mutex
	stopped bool
}

// NewCountdown binds a countdown to s.
func NewCountdown(s *Session, hooks CountdownHooks) *Countdown {
	return &Countdown{
		session:  s,
		hooks:    hooks,
		interval: time.Second,
		half:     s.cfg.DurationSeconds / 2,
	}
}

// WithInterval changes the tick period; the budget still counts one unit per tick.
func (c *Countdown) WithInterval(d time.Duration) *Countdown {
	c.interval = d
	return c
}

// Run ticks until the budget runs out, the session finishes, Stop is called or ctx is done.
func (c *Countdown) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.Tick() {
				return
			}
		}
	}
}

// Tick advances the clock by one second. It returns false once the countdown has stopped.
func (c *Countdown) Tick() bool {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return false
	}
	if c.session.Finished() {
		c.stopped = true
		c.mu.Unlock()
		return false
	}
	remaining, expired := c.session.Tick()
	if expired {
		c.stopped = true
		c.mu.Unlock()
		if c.hooks.OnTimeUp != nil {
			c.hooks.OnTimeUp()
		}
		return false
	}
	c.mu.Unlock()

	if c.hooks.OnTick != nil {
		c.hooks.OnTick(remaining)
	}
	if remaining == c.half && c.hooks.OnHalfTime != nil {
		c.hooks.OnHalfTime(remaining)
	}
	return true
}

// Stop halts the countdown without firing OnTimeUp.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}
