package domain

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/chalwk/versus/internal/errors"
	"github.com/chalwk/versus/internal/platform/id"
)

// DefaultTimeLimit is how long a session may run before it
// auto-terminates.
const DefaultTimeLimit = 300 * time.Second

// ErrEmptyPlayer indicates a missing session participant.
var ErrEmptyPlayer = apperrors.New(apperrors.CodeSessionEmptyPlayer, "both players are required")

// Status describes the lifecycle state of a session.
type Status int

const (
	// StatusUnspecified represents an invalid session status value.
	StatusUnspecified Status = iota
	// StatusActive indicates the session is in play.
	StatusActive
	// StatusEnded indicates the session has ended. Terminal.
	StatusEnded
)

// EndReason describes why a session ended.
type EndReason int

const (
	// EndReasonUnspecified means the session has not ended.
	EndReasonUnspecified EndReason = iota
	// EndReasonManual means a player or the command layer ended the session.
	EndReasonManual
	// EndReasonTimeout means the session exceeded its time limit.
	EndReasonTimeout
)

// Session is an active two-party interaction with an alternating turn
// holder and a time limit. Turn and lifecycle mutations are serialized by
// an internal mutex; concurrent End calls agree on a single winner.
type Session struct {
	id        string
	playerA   UserID
	playerB   UserID
	channelID string
	startedAt time.Time
	limit     time.Duration
	clock     func() time.Time

	mu        sync.Mutex
	turn      UserID
	status    Status
	endReason EndReason
}

// CreateSessionInput describes the metadata needed to create a session.
type CreateSessionInput struct {
	PlayerA   UserID
	PlayerB   UserID
	ChannelID string
	Limit     time.Duration
}

// CreateSession creates an active session between two players. The
// starting turn is decided by coin: true picks PlayerA, false PlayerB.
func CreateSession(input CreateSessionInput, now func() time.Time, idGenerator func() (string, error), coin func() bool) (*Session, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if coin == nil {
		coin = defaultCoin
	}

	if input.PlayerA == "" || input.PlayerB == "" {
		return nil, ErrEmptyPlayer
	}
	if input.PlayerA == input.PlayerB {
		return nil, ErrSelfInvite
	}
	if input.Limit <= 0 {
		input.Limit = DefaultTimeLimit
	}

	sessionID, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	turn := input.PlayerB
	if coin() {
		turn = input.PlayerA
	}

	return &Session{
		id:        sessionID,
		playerA:   input.PlayerA,
		playerB:   input.PlayerB,
		channelID: input.ChannelID,
		startedAt: now().UTC(),
		limit:     input.Limit,
		clock:     now,
		turn:      turn,
		status:    StatusActive,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// PlayerA returns the inviting player.
func (s *Session) PlayerA() UserID { return s.playerA }

// PlayerB returns the invited player.
func (s *Session) PlayerB() UserID { return s.playerB }

// ChannelID returns the channel the session was created in.
func (s *Session) ChannelID() string { return s.channelID }

// StartedAt returns the session start time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// TimeLimit returns the configured session time limit.
func (s *Session) TimeLimit() time.Duration { return s.limit }

// Deadline returns the instant the session expires.
func (s *Session) Deadline() time.Time { return s.startedAt.Add(s.limit) }

// Status returns the current lifecycle status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// IsActive reports whether the session is still in play.
func (s *Session) IsActive() bool {
	return s.Status() == StatusActive
}

// EndReasonValue returns why the session ended, or EndReasonUnspecified
// while it is active.
func (s *Session) EndReasonValue() EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endReason
}

// CurrentTurn returns the player currently permitted to act.
func (s *Session) CurrentTurn() UserID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// AdvanceTurn flips the turn holder between the two players and returns
// the holder after the call. It is a no-op on an ended session.
func (s *Session) AdvanceTurn() UserID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return s.turn
	}
	if s.turn == s.playerA {
		s.turn = s.playerB
	} else {
		s.turn = s.playerA
	}
	return s.turn
}

// IsParticipant reports whether player is one of the two participants.
func (s *Session) IsParticipant(player UserID) bool {
	return player == s.playerA || player == s.playerB
}

// Opponent returns the other participant.
func (s *Session) Opponent(player UserID) (UserID, bool) {
	switch player {
	case s.playerA:
		return s.playerB, true
	case s.playerB:
		return s.playerA, true
	default:
		return "", false
	}
}

// End transitions the session to StatusEnded. It returns true only for
// the call that performed the transition; later calls are no-ops. The
// return value decides which caller emits the termination notification.
func (s *Session) End(reason EndReason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return false
	}
	s.status = StatusEnded
	s.endReason = reason
	return true
}

// Elapsed returns how long the session has been running.
func (s *Session) Elapsed() time.Duration {
	return s.clock().UTC().Sub(s.startedAt)
}

// Remaining returns the time left before expiry, floored at zero.
func (s *Session) Remaining() time.Duration {
	remaining := s.limit - s.Elapsed()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether the elapsed time has reached the limit.
func (s *Session) IsExpired() bool {
	return s.Elapsed() >= s.limit
}

// ExpiredAt reports whether the session deadline has been reached as of
// the given instant. Used by the expiry sweep so one observation of the
// clock covers the whole scan.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.UTC().Before(s.Deadline())
}
