// Package errors provides structured error handling for the arena core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Invite errors
	CodeSelfInvite         Code = "SELF_INVITE"
	CodeDuplicateInvite    Code = "DUPLICATE_INVITE"
	CodeAlreadyInSession   Code = "ALREADY_IN_SESSION"
	CodeNoPendingInvite    Code = "NO_PENDING_INVITE"
	CodeInviterNowBusy     Code = "INVITER_NOW_BUSY"
	CodeInviteEmptyInviter Code = "INVITE_EMPTY_INVITER"
	CodeInviteEmptyInvitee Code = "INVITE_EMPTY_INVITEE"

	// Session errors
	CodeSessionEmptyPlayer Code = "SESSION_EMPTY_PLAYER"
	CodeSessionNotFound    Code = "SESSION_NOT_FOUND"

	// Settings errors
	CodeChannelNotConfigured Code = "CHANNEL_NOT_CONFIGURED"
	CodeWrongChannel         Code = "WRONG_CHANNEL"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
