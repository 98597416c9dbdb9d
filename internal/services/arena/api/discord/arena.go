// Package discord adapts Discord slash-command interactions to the arena
// core and renders lifecycle notifications as embeds. It is the only
// package that produces user-facing text; the core returns coded errors.
package discord

import (
	"github.com/chalwk/versus/internal/services/arena/domain"
)

// Arena is the core surface the command layer drives. The registry
// satisfies it.
type Arena interface {
	IsActive(player domain.UserID) bool
	SessionOf(player domain.UserID) (*domain.Session, bool)
	InvitePlayer(inviter, invitee domain.UserID, channelID string) (domain.Invite, error)
	CancelInvite(inviter domain.UserID) (domain.Invite, bool)
	AcceptInvite(invitee domain.UserID) (*domain.Session, error)
	DeclineInvite(invitee domain.UserID) (domain.Invite, error)
	EndSession(session *domain.Session, reason domain.EndReason) bool
}
