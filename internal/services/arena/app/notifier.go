package app

import (
	"context"

	"github.com/chalwk/versus/internal/services/arena/domain"
)

// Notifier renders lifecycle notifications to the chat platform. Calls
// are best-effort: a delivery failure is logged by the caller and never
// rolls back a state transition.
type Notifier interface {
	NotifyInvite(ctx context.Context, invite domain.Invite) error
	NotifyAccept(ctx context.Context, session *domain.Session) error
	NotifyDecline(ctx context.Context, invite domain.Invite) error
	NotifyCancel(ctx context.Context, invite domain.Invite) error
	NotifyTurn(ctx context.Context, session *domain.Session) error
	NotifyEnd(ctx context.Context, session *domain.Session, endedBy domain.UserID) error
	NotifyTimeout(ctx context.Context, session *domain.Session) error
}
