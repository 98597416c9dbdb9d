package discord

import (
	"sync"
	"time"

	"github.com/chalwk/versus/internal/platform/timeouts"
	"github.com/chalwk/versus/internal/services/arena/domain"
)

// Cooldown throttles repeated use of the same command by the same user.
type Cooldown struct {
	window time.Duration
	clock  func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

// CooldownOption customizes cooldown construction.
type CooldownOption func(*Cooldown)

// WithCooldownClock injects the time source.
func WithCooldownClock(clock func() time.Time) CooldownOption {
	return func(c *Cooldown) { c.clock = clock }
}

// NewCooldown creates a cooldown tracker. A non-positive window falls
// back to the default.
func NewCooldown(window time.Duration, opts ...CooldownOption) *Cooldown {
	if window <= 0 {
		window = timeouts.CommandCooldown
	}
	c := &Cooldown{
		window: window,
		clock:  time.Now,
		last:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Remaining returns how long the user must wait before reusing the
// command; zero means ready.
func (c *Cooldown) Remaining(command string, user domain.UserID) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	used, ok := c.last[command+":"+string(user)]
	if !ok {
		return 0
	}
	remaining := c.window - c.clock().Sub(used)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Touch records a use of the command by the user and drops entries whose
// window has elapsed, so the map stays bounded by recent activity.
func (c *Cooldown) Touch(command string, user domain.UserID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock()
	for key, used := range c.last {
		if now.Sub(used) >= c.window {
			delete(c.last, key)
		}
	}
	c.last[command+":"+string(user)] = now
}
