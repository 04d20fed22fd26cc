package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgInvalidSessionID  = "Invalid session id"

	// Actor operation error messages
	ErrMsgRegisterActorFailed = "Failed to register adventurer"
	ErrMsgGetActorFailed      = "Failed to retrieve adventurer"
	ErrMsgRegenFailed         = "Failed to apply regeneration"
	ErrMsgGetTracksFailed     = "Failed to retrieve progression tracks"

	// Action operation error messages
	ErrMsgAttemptFailed    = "Failed to attempt action"
	ErrMsgUnlockFailed     = "Failed to unlock action"
	ErrMsgGetHistoryFailed = "Failed to retrieve attempt history"

	// Battle operation error messages
	ErrMsgStartBattleFailed = "Failed to start battle"
	ErrMsgExchangeFailed    = "Failed to resolve exchange"
	ErrMsgFleeFailed        = "Failed to flee"
	ErrMsgGetBattleFailed   = "Failed to retrieve battle"
)

// Success messages for API responses
const (
	MsgActionUnlockedSuccess = "Action unlocked successfully"
	MsgSkillEquippedSuccess  = "Skill equipped successfully"
	MsgSkillClearedSuccess   = "Skill slot cleared"
)
