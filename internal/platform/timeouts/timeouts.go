// Package timeouts defines shared timeout constants used across the bot.
// Centralizing these values prevents drift between components and makes
// the durations discoverable.
package timeouts

import "time"

// ExpiryTick is the interval between scheduler sweeps for overdue sessions.
const ExpiryTick = time.Second

// CommandCooldown is the default per-user throttle between uses of the
// same slash command.
const CommandCooldown = 5 * time.Second

// Shutdown limits how long the bot waits for in-flight work during
// graceful shutdown.
const Shutdown = 5 * time.Second
