package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	apperrors "github.com/chalwk/versus/internal/errors"
	"github.com/chalwk/versus/internal/log"
	"github.com/chalwk/versus/internal/services/arena/domain"
	"github.com/chalwk/versus/internal/services/arena/storage"
)

// Handler dispatches slash-command interactions to the arena core.
type Handler struct {
	arena    Arena
	notifier *EmbedNotifier
	gate     *Gate
	cooldown *Cooldown
	settings storage.SettingsStore
	logger   zerolog.Logger
}

// NewHandler creates the interaction handler.
func NewHandler(arena Arena, notifier *EmbedNotifier, gate *Gate, cooldown *Cooldown, settings storage.SettingsStore) *Handler {
	return &Handler{
		arena:    arena,
		notifier: notifier,
		gate:     gate,
		cooldown: cooldown,
		settings: settings,
		logger:   log.WithComponent("discord"),
	}
}

// HandleInteraction is registered with the Discord session via AddHandler.
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name

	if i.Member == nil || i.Member.User == nil {
		h.respond(s, i, "Game commands only work inside a server.")
		return
	}
	user := domain.UserID(i.Member.User.ID)
	ctx := context.Background()

	logger := h.logger.With().
		Str(log.FieldCommand, name).
		Str(log.FieldUserID, string(user)).
		Str(log.FieldGuildID, i.GuildID).
		Logger()

	if name == commandChannel {
		h.respond(s, i, h.handleChannel(ctx, i, logger))
		return
	}

	required, err := h.gate.Check(ctx, i.GuildID, i.ChannelID)
	if errors.Is(err, ErrWrongChannel) {
		h.respond(s, i, fmt.Sprintf("Please use <#%s> for game commands.", required))
		return
	}
	if err != nil {
		h.respond(s, i, userMessage(err))
		return
	}

	if remaining := h.cooldown.Remaining(name, user); remaining > 0 {
		h.respond(s, i, fmt.Sprintf("Slow down! Try /%s again in %s.", name, ceilSeconds(remaining)))
		return
	}
	h.cooldown.Touch(name, user)

	var reply string
	switch name {
	case commandInvite:
		reply = h.handleInvite(ctx, i, user, logger)
	case commandAccept:
		reply = h.handleAccept(ctx, user, logger)
	case commandDecline:
		reply = h.handleDecline(ctx, user, logger)
	case commandCancel:
		reply = h.handleCancel(ctx, user, logger)
	case commandPass:
		reply = h.handlePass(ctx, user, logger)
	case commandEnd:
		reply = h.handleEnd(ctx, user, logger)
	default:
		logger.Warn().Msg("unknown command")
		return
	}
	h.respond(s, i, reply)
}

func (h *Handler) handleInvite(ctx context.Context, i *discordgo.InteractionCreate, user domain.UserID, logger zerolog.Logger) string {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "Pick a player to invite."
	}
	target := data.Options[0].UserValue(nil)
	if target == nil {
		return "Pick a player to invite."
	}
	// UserValue without a session only carries the ID; the resolved map
	// has the full user.
	if data.Resolved != nil {
		if resolved, ok := data.Resolved.Users[target.ID]; ok {
			target = resolved
		}
	}
	if target.Bot {
		return "Bots don't play games."
	}

	invite, err := h.arena.InvitePlayer(user, domain.UserID(target.ID), i.ChannelID)
	if err != nil {
		return userMessage(err)
	}
	logger.Info().Str(log.FieldInviteID, invite.ID).Msg("invite created")
	h.notify(logger, "invite", h.notifier.NotifyInvite(ctx, invite))
	return fmt.Sprintf("Invite sent to <@%s>.", target.ID)
}

func (h *Handler) handleAccept(ctx context.Context, user domain.UserID, logger zerolog.Logger) string {
	session, err := h.arena.AcceptInvite(user)
	if err != nil {
		return userMessage(err)
	}
	logger.Info().Str(log.FieldSessionID, session.ID()).Msg("session started")
	h.notify(logger, "accept", h.notifier.NotifyAccept(ctx, session))
	return "Game on!"
}

func (h *Handler) handleDecline(ctx context.Context, user domain.UserID, logger zerolog.Logger) string {
	invite, err := h.arena.DeclineInvite(user)
	if err != nil {
		return userMessage(err)
	}
	logger.Info().Str(log.FieldInviteID, invite.ID).Msg("invite declined")
	h.notify(logger, "decline", h.notifier.NotifyDecline(ctx, invite))
	return "Invite declined."
}

func (h *Handler) handleCancel(ctx context.Context, user domain.UserID, logger zerolog.Logger) string {
	invite, ok := h.arena.CancelInvite(user)
	if !ok {
		return "You have no outstanding invite."
	}
	logger.Info().Str(log.FieldInviteID, invite.ID).Msg("invite canceled")
	h.notify(logger, "cancel", h.notifier.NotifyCancel(ctx, invite))
	return "Invite canceled."
}

func (h *Handler) handlePass(ctx context.Context, user domain.UserID, logger zerolog.Logger) string {
	session, ok := h.arena.SessionOf(user)
	if !ok {
		return "You are not in a game."
	}
	if session.CurrentTurn() != user {
		return "It is not your turn."
	}
	next := session.AdvanceTurn()
	if next == user {
		return "That game is already over."
	}
	h.notify(logger, "turn", h.notifier.NotifyTurn(ctx, session))
	return "Turn passed."
}

func (h *Handler) handleEnd(ctx context.Context, user domain.UserID, logger zerolog.Logger) string {
	session, ok := h.arena.SessionOf(user)
	if !ok {
		return "You are not in a game."
	}
	if h.arena.EndSession(session, domain.EndReasonManual) {
		logger.Info().
			Str(log.FieldSessionID, session.ID()).
			Str(log.FieldReason, "manual").
			Msg("session ended")
		h.notify(logger, "end", h.notifier.NotifyEnd(ctx, session, user))
	}
	return "Game ended."
}

func (h *Handler) handleChannel(ctx context.Context, i *discordgo.InteractionCreate, logger zerolog.Logger) string {
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		return "Only administrators can manage the game channel."
	}

	var (
		operation string
		channel   *discordgo.Channel
	)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "operation":
			operation = opt.StringValue()
		case "channel":
			channel = opt.ChannelValue(nil)
		}
	}

	switch operation {
	case operationAdd:
		if channel == nil {
			return "Pick the channel to lock game commands to."
		}
		if err := h.settings.SetRequiredChannel(ctx, i.GuildID, channel.ID); err != nil {
			logger.Error().Err(err).Msg("set required channel")
			return userMessage(err)
		}
		logger.Info().Str(log.FieldChannelID, channel.ID).Msg("required channel set")
		return fmt.Sprintf("Game commands are now locked to <#%s>.", channel.ID)
	case operationRemove:
		if err := h.settings.ClearRequiredChannel(ctx, i.GuildID); err != nil {
			logger.Error().Err(err).Msg("clear required channel")
			return userMessage(err)
		}
		logger.Info().Msg("required channel cleared")
		return "Channel restriction removed."
	default:
		return "Unknown operation."
	}
}

func (h *Handler) notify(logger zerolog.Logger, event string, err error) {
	if err != nil {
		logger.Warn().Err(err).Str(log.FieldReason, event).Msg("notification failed")
	}
}

func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("interaction response failed")
	}
}

func ceilSeconds(d time.Duration) time.Duration {
	if rounded := d.Truncate(time.Second); rounded == d {
		return d
	}
	return d.Truncate(time.Second) + time.Second
}

// userMessage translates a core error code into a reply. The core never
// produces user-facing text.
func userMessage(err error) string {
	switch apperrors.GetCode(err) {
	case apperrors.CodeSelfInvite:
		return "You can't invite yourself."
	case apperrors.CodeDuplicateInvite:
		return "That player already has a pending invite."
	case apperrors.CodeAlreadyInSession:
		return "One of you is already in a game."
	case apperrors.CodeNoPendingInvite:
		return "You have no pending invite."
	case apperrors.CodeInviterNowBusy:
		return "That invite expired: the inviter has since joined another game."
	case apperrors.CodeChannelNotConfigured:
		return "This server isn't set up yet. An administrator must run /channel first."
	case apperrors.CodeWrongChannel:
		return "Game commands are restricted to another channel."
	default:
		return "Something went wrong. Try again later."
	}
}
