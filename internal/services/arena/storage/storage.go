// Package storage defines the persistence boundary for arena guild
// settings. Sessions and invites are in-memory only; only the per-guild
// required-channel configuration survives restarts.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates no settings row exists for a guild.
var ErrNotFound = errors.New("guild settings not found")

// SettingsStore persists per-guild configuration.
type SettingsStore interface {
	// GetRequiredChannel returns the configured channel for a guild, or
	// ErrNotFound when the guild has never been configured.
	GetRequiredChannel(ctx context.Context, guildID string) (string, error)
	// SetRequiredChannel configures the channel commands must be used in.
	SetRequiredChannel(ctx context.Context, guildID, channelID string) error
	// ClearRequiredChannel removes a guild's channel configuration. It is
	// a no-op when nothing is configured.
	ClearRequiredChannel(ctx context.Context, guildID string) error
}
