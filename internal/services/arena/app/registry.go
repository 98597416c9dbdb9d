// Package app wires the arena core: the session registry, the expiry
// scheduler, and the service bootstrap.
package app

import (
	"sync"
	"time"

	apperrors "github.com/chalwk/versus/internal/errors"
	"github.com/chalwk/versus/internal/platform/id"
	"github.com/chalwk/versus/internal/services/arena/domain"
)

var (
	// ErrAlreadyInSession indicates one of the parties is mid-session.
	ErrAlreadyInSession = apperrors.New(apperrors.CodeAlreadyInSession, "player is already in a session")
	// ErrDuplicateInvite indicates the invitee already has a pending invite.
	ErrDuplicateInvite = apperrors.New(apperrors.CodeDuplicateInvite, "player already has a pending invite")
	// ErrNoPendingInvite indicates there is nothing to accept or decline.
	ErrNoPendingInvite = apperrors.New(apperrors.CodeNoPendingInvite, "no pending invite")
	// ErrInviterNowBusy indicates the inviter entered another session
	// between invite and accept.
	ErrInviterNowBusy = apperrors.New(apperrors.CodeInviterNowBusy, "inviter is now in another session")
)

// Registry is the process-wide authority over invites and active
// sessions. It owns the invite ledger and the identity-to-session map and
// enforces one active session per player. All mutating operations are
// serialized by a single registry mutex; per-session state carries its
// own lock so an expiry sweep and a manual end agree on a single winner.
type Registry struct {
	mu       sync.Mutex
	sessions map[domain.UserID]*domain.Session
	invites  map[domain.UserID]domain.Invite // keyed by invitee

	clock func() time.Time
	newID func() (string, error)
	coin  func() bool
	limit time.Duration
}

// RegistryOption customizes registry construction.
type RegistryOption func(*Registry)

// WithClock injects the time source.
func WithClock(clock func() time.Time) RegistryOption {
	return func(r *Registry) { r.clock = clock }
}

// WithIDGenerator injects the identifier generator.
func WithIDGenerator(newID func() (string, error)) RegistryOption {
	return func(r *Registry) { r.newID = newID }
}

// WithCoin injects the starting-turn coin flip.
func WithCoin(coin func() bool) RegistryOption {
	return func(r *Registry) { r.coin = coin }
}

// WithTimeLimit overrides the session time limit.
func WithTimeLimit(limit time.Duration) RegistryOption {
	return func(r *Registry) { r.limit = limit }
}

// NewRegistry creates an empty registry with default dependencies.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[domain.UserID]*domain.Session),
		invites:  make(map[domain.UserID]domain.Invite),
		clock:    time.Now,
		newID:    id.NewID,
		limit:    domain.DefaultTimeLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsActive reports whether the player is in an active session.
func (r *Registry) IsActive(player domain.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[player]
	return ok
}

// SessionOf returns the player's active session, if any.
func (r *Registry) SessionOf(player domain.UserID) (*domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[player]
	return s, ok
}

// ActiveSessions returns the number of active sessions.
func (r *Registry) ActiveSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions) / 2
}

// InvitePlayer records an invite from inviter to invitee. It fails when
// the parties are the same player, when either party is mid-session, or
// when the invitee already has a pending invite. Input validation runs
// first so a self-invite is reported as such no matter what else the
// registry holds for that player.
func (r *Registry) InvitePlayer(inviter, invitee domain.UserID, channelID string) (domain.Invite, error) {
	input, err := domain.NormalizeCreateInviteInput(domain.CreateInviteInput{
		Inviter:   inviter,
		Invitee:   invitee,
		ChannelID: channelID,
	})
	if err != nil {
		return domain.Invite{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[input.Inviter]; ok {
		return domain.Invite{}, ErrAlreadyInSession
	}
	if _, ok := r.sessions[input.Invitee]; ok {
		return domain.Invite{}, ErrAlreadyInSession
	}
	if _, ok := r.invites[input.Invitee]; ok {
		return domain.Invite{}, ErrDuplicateInvite
	}

	invite, err := domain.CreateInvite(input, r.clock, r.newID)
	if err != nil {
		return domain.Invite{}, err
	}

	r.invites[input.Invitee] = invite
	return invite, nil
}

// PendingInviteFor returns the invitee's pending invite without removing
// it.
func (r *Registry) PendingInviteFor(invitee domain.UserID) (domain.Invite, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invite, ok := r.invites[invitee]
	return invite, ok
}

// CancelInvite withdraws the most recent pending invite sent by inviter
// and returns it. It reports false when the inviter has none outstanding.
func (r *Registry) CancelInvite(inviter domain.UserID) (domain.Invite, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		found  bool
		latest domain.Invite
	)
	for _, invite := range r.invites {
		if invite.Inviter != inviter {
			continue
		}
		if !found || invite.CreatedAt.After(latest.CreatedAt) {
			latest = invite
			found = true
		}
	}
	if !found {
		return domain.Invite{}, false
	}
	delete(r.invites, latest.Invitee)
	return latest, true
}

// AcceptInvite consumes the invitee's pending invite and creates the
// session. The inviter's availability is re-validated here: an invite is
// a proposal, not a reservation.
func (r *Registry) AcceptInvite(invitee domain.UserID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	invite, ok := r.invites[invitee]
	if !ok {
		return nil, ErrNoPendingInvite
	}
	delete(r.invites, invitee)

	if _, busy := r.sessions[invite.Inviter]; busy {
		return nil, ErrInviterNowBusy
	}
	if _, busy := r.sessions[invitee]; busy {
		return nil, ErrAlreadyInSession
	}

	session, err := domain.CreateSession(domain.CreateSessionInput{
		PlayerA:   invite.Inviter,
		PlayerB:   invite.Invitee,
		ChannelID: invite.ChannelID,
		Limit:     r.limit,
	}, r.clock, r.newID, r.coin)
	if err != nil {
		return nil, err
	}

	r.sessions[session.PlayerA()] = session
	r.sessions[session.PlayerB()] = session
	// Invites targeting the new participants can never be accepted now;
	// drop them. Invites they sent stay pending and fail with
	// ErrInviterNowBusy when accepted, so the invitee learns why.
	delete(r.invites, session.PlayerA())
	delete(r.invites, session.PlayerB())
	return session, nil
}

// DeclineInvite consumes and returns the invitee's pending invite so the
// caller can notify the inviter.
func (r *Registry) DeclineInvite(invitee domain.UserID) (domain.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	invite, ok := r.invites[invitee]
	if !ok {
		return domain.Invite{}, ErrNoPendingInvite
	}
	delete(r.invites, invitee)
	return invite, nil
}

// EndSession ends the session and deregisters both players. It returns
// true only for the caller whose End performed the transition; the loser
// of a manual-end versus timeout race observes a no-op.
func (r *Registry) EndSession(session *domain.Session, reason domain.EndReason) bool {
	if session == nil {
		return false
	}
	won := session.End(reason)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[session.PlayerA()] == session {
		delete(r.sessions, session.PlayerA())
	}
	if r.sessions[session.PlayerB()] == session {
		delete(r.sessions, session.PlayerB())
	}
	return won
}

// ExpireDue ends every session whose deadline has passed as of now and
// deregisters its players. It returns only the sessions this sweep
// transitioned, so the expiry notification fires at most once per
// session.
func (r *Registry) ExpireDue(now time.Time) []*domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ended []*domain.Session
	seen := make(map[*domain.Session]bool)
	for _, session := range r.sessions {
		if seen[session] {
			continue
		}
		seen[session] = true
		if !session.ExpiredAt(now) {
			continue
		}
		if session.End(domain.EndReasonTimeout) {
			ended = append(ended, session)
		}
	}

	for _, session := range ended {
		delete(r.sessions, session.PlayerA())
		delete(r.sessions, session.PlayerB())
	}
	return ended
}
