package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"

	// Identity fields
	FieldSessionID = "session_id"
	FieldInviteID  = "invite_id"
	FieldUserID    = "user_id"
	FieldGuildID   = "guild_id"
	FieldChannelID = "channel_id"

	// Lifecycle fields
	FieldCommand = "command"
	FieldReason  = "reason"
	FieldCode    = "code"
)
