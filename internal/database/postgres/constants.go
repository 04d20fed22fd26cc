package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Actor Operations
const (
	ErrMsgInvalidActorID            = "invalid actor id"
	ErrMsgFailedToInsertActor       = "failed to insert actor"
	ErrMsgFailedToGetActor          = "failed to get actor"
	ErrMsgFailedToGetActorByName    = "failed to get actor by name"
	ErrMsgFailedToGetActorForUpdate = "failed to get actor for update"
	ErrMsgFailedToUpdateActorPool   = "failed to update actor pool"
	ErrMsgFailedToUpdateLoadout     = "failed to update actor loadout"
	ErrMsgFailedToMarkActorDead     = "failed to mark actor dead"
	ErrMsgFailedToMarshalLoadout    = "failed to marshal loadout"
	ErrMsgFailedToUnmarshalLoadout  = "failed to unmarshal loadout"
)

// Error Messages - Item Operations
const (
	ErrMsgFailedToGetItemByKey = "failed to get item by key"
	ErrMsgFailedToGetItemByID  = "failed to get item by id"
	ErrMsgFailedToGetAllItems  = "failed to get all items"
	ErrMsgFailedToUpsertItem   = "failed to upsert item"
)

// Error Messages - Inventory Operations
const (
	ErrMsgFailedToGetStacks   = "failed to get stacks for update"
	ErrMsgFailedToInsertStack = "failed to insert stack"
	ErrMsgFailedToUpdateStack = "failed to update stack quantity"
	ErrMsgFailedToDeleteStack = "failed to delete stack"
)

// Error Messages - Progression Operations
const (
	ErrMsgFailedToGetTrack          = "failed to get track"
	ErrMsgFailedToGetTracks         = "failed to get tracks"
	ErrMsgFailedToCreateTrack       = "failed to create track"
	ErrMsgFailedToGetTrackForUpdate = "failed to get track for update"
	ErrMsgFailedToUpdateTrack       = "failed to update track"
)

// Error Messages - Action Operations
const (
	ErrMsgFailedToCheckUnlock   = "failed to check action unlock"
	ErrMsgFailedToUnlockAction  = "failed to unlock action"
	ErrMsgFailedToGetAttempts   = "failed to get attempts"
	ErrMsgFailedToInsertAttempt = "failed to insert attempt"
)

// Error Messages - Battle Operations
const (
	ErrMsgFailedToCreateSession  = "failed to create battle session"
	ErrMsgFailedToGetSession     = "failed to get battle session"
	ErrMsgFailedToUpdateSession  = "failed to update battle session"
	ErrMsgFailedToExpireSessions = "failed to expire stale sessions"
	ErrMsgFailedToMarshalLog     = "failed to marshal battle log"
	ErrMsgFailedToUnmarshalLog   = "failed to unmarshal battle log"
)
