package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/chalwk/versus/internal/services/arena/domain"
)

// embedSender is the slice of the Discord session the notifier needs.
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// EmbedNotifier renders lifecycle notifications as Discord embeds in the
// channel where the invite or session lives.
type EmbedNotifier struct {
	sender embedSender
}

// NewEmbedNotifier creates a notifier over the Discord session.
func NewEmbedNotifier(sender embedSender) *EmbedNotifier {
	return &EmbedNotifier{sender: sender}
}

// NotifyInvite announces a new invite.
func (n *EmbedNotifier) NotifyInvite(ctx context.Context, invite domain.Invite) error {
	_, err := n.sender.ChannelMessageSendEmbed(invite.ChannelID, inviteEmbed(invite), discordgo.WithContext(ctx))
	return err
}

// NotifyAccept announces the start of a session.
func (n *EmbedNotifier) NotifyAccept(ctx context.Context, session *domain.Session) error {
	_, err := n.sender.ChannelMessageSendEmbed(session.ChannelID(), sessionEmbed(session), discordgo.WithContext(ctx))
	return err
}

// NotifyDecline announces a declined invite.
func (n *EmbedNotifier) NotifyDecline(ctx context.Context, invite domain.Invite) error {
	_, err := n.sender.ChannelMessageSendEmbed(invite.ChannelID, declineEmbed(invite), discordgo.WithContext(ctx))
	return err
}

// NotifyCancel announces a withdrawn invite.
func (n *EmbedNotifier) NotifyCancel(ctx context.Context, invite domain.Invite) error {
	_, err := n.sender.ChannelMessageSendEmbed(invite.ChannelID, cancelEmbed(invite), discordgo.WithContext(ctx))
	return err
}

// NotifyTurn announces whose turn it is.
func (n *EmbedNotifier) NotifyTurn(ctx context.Context, session *domain.Session) error {
	_, err := n.sender.ChannelMessageSendEmbed(session.ChannelID(), turnEmbed(session), discordgo.WithContext(ctx))
	return err
}

// NotifyEnd announces a manually ended session and who ended it.
func (n *EmbedNotifier) NotifyEnd(ctx context.Context, session *domain.Session, endedBy domain.UserID) error {
	_, err := n.sender.ChannelMessageSendEmbed(session.ChannelID(), endEmbed(session, endedBy), discordgo.WithContext(ctx))
	return err
}

// NotifyTimeout announces a session that ran out of time.
func (n *EmbedNotifier) NotifyTimeout(ctx context.Context, session *domain.Session) error {
	_, err := n.sender.ChannelMessageSend(session.ChannelID(), timeoutMessage(session), discordgo.WithContext(ctx))
	return err
}
