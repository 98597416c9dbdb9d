package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/chalwk/versus/internal/errors"
	"github.com/chalwk/versus/internal/platform/id"
)

var (
	// ErrEmptyInviter indicates a missing inviting player.
	ErrEmptyInviter = apperrors.New(apperrors.CodeInviteEmptyInviter, "inviter is required")
	// ErrEmptyInvitee indicates a missing invited player.
	ErrEmptyInvitee = apperrors.New(apperrors.CodeInviteEmptyInvitee, "invitee is required")
	// ErrSelfInvite indicates a player invited themselves.
	ErrSelfInvite = apperrors.New(apperrors.CodeSelfInvite, "cannot invite yourself")
)

// UserID identifies one player. It is supplied by the chat platform and
// treated as opaque.
type UserID string

// Invite is an unconsummated proposal from one player to another to start
// a session. Invites are replaced, never edited.
type Invite struct {
	ID        string
	Inviter   UserID
	Invitee   UserID
	ChannelID string
	CreatedAt time.Time
}

// CreateInviteInput describes the metadata needed to create an invite.
type CreateInviteInput struct {
	Inviter   UserID
	Invitee   UserID
	ChannelID string
}

// CreateInvite creates a new invite with a generated ID and timestamp.
func CreateInvite(input CreateInviteInput, now func() time.Time, idGenerator func() (string, error)) (Invite, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateInviteInput(input)
	if err != nil {
		return Invite{}, err
	}

	inviteID, err := idGenerator()
	if err != nil {
		return Invite{}, fmt.Errorf("generate invite id: %w", err)
	}

	return Invite{
		ID:        inviteID,
		Inviter:   normalized.Inviter,
		Invitee:   normalized.Invitee,
		ChannelID: normalized.ChannelID,
		CreatedAt: now().UTC(),
	}, nil
}

// NormalizeCreateInviteInput trims and validates invite input metadata.
func NormalizeCreateInviteInput(input CreateInviteInput) (CreateInviteInput, error) {
	input.Inviter = UserID(strings.TrimSpace(string(input.Inviter)))
	if input.Inviter == "" {
		return CreateInviteInput{}, ErrEmptyInviter
	}
	input.Invitee = UserID(strings.TrimSpace(string(input.Invitee)))
	if input.Invitee == "" {
		return CreateInviteInput{}, ErrEmptyInvitee
	}
	if input.Inviter == input.Invitee {
		return CreateInviteInput{}, ErrSelfInvite
	}
	input.ChannelID = strings.TrimSpace(input.ChannelID)
	return input, nil
}
