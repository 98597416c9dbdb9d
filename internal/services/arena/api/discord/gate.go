package discord

import (
	"context"
	"errors"

	apperrors "github.com/chalwk/versus/internal/errors"
	"github.com/chalwk/versus/internal/services/arena/storage"
)

var (
	// ErrChannelNotConfigured indicates no channel has been set up for
	// the guild.
	ErrChannelNotConfigured = apperrors.New(apperrors.CodeChannelNotConfigured, "no channel is configured for this guild")
	// ErrWrongChannel indicates the command arrived outside the
	// configured channel.
	ErrWrongChannel = apperrors.New(apperrors.CodeWrongChannel, "command used outside the configured channel")
)

// Gate checks that commands arrive in the guild's configured channel
// before they reach the core.
type Gate struct {
	settings storage.SettingsStore
}

// NewGate creates a channel gate over the settings store.
func NewGate(settings storage.SettingsStore) *Gate {
	return &Gate{settings: settings}
}

// RequiredChannel returns the configured channel for a guild.
func (g *Gate) RequiredChannel(ctx context.Context, guildID string) (string, error) {
	channelID, err := g.settings.GetRequiredChannel(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrChannelNotConfigured
	}
	if err != nil {
		return "", err
	}
	return channelID, nil
}

// Check validates that the command channel matches the configured one
// and returns the configured channel for use in replies.
func (g *Gate) Check(ctx context.Context, guildID, channelID string) (string, error) {
	required, err := g.RequiredChannel(ctx, guildID)
	if err != nil {
		return "", err
	}
	if channelID != required {
		return required, ErrWrongChannel
	}
	return required, nil
}
