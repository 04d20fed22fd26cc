package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Actor errors
	ErrMsgActorNotFound = "actor not found"
	ErrMsgActorDead     = "actor is dead"
	ErrMsgNameTaken     = "actor name already taken"
	ErrMsgInvalidName   = "invalid actor name"

	// Item errors
	ErrMsgItemNotFound    = "item not found"
	ErrMsgInvalidStackCap = "invalid stack cap"

	// Inventory errors
	ErrMsgInsufficientMaterials = "insufficient materials"
	ErrMsgInvalidQuantity       = "quantity must be positive"

	// Progression errors
	ErrMsgInvalidXPDelta = "xp delta must be non-negative"
	ErrMsgTrackNotFound  = "progression track not found"

	// Action errors
	ErrMsgActionNotFound = "action not found"
	ErrMsgActionInactive = "action is inactive"
	ErrMsgActionLocked   = "action is locked"

	// Battle errors
	ErrMsgBattleNotFound  = "battle not found"
	ErrMsgBattleOver      = "battle already resolved"
	ErrMsgStaleBattle     = "stale battle state"
	ErrMsgMonsterNotFound = "monster not found"

	// Loadout errors
	ErrMsgInvalidSlot = "invalid skill slot"

	// Rate limit errors
	ErrMsgRateLimited = "too many actions"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Actor errors
	ErrActorNotFound = errors.New(ErrMsgActorNotFound)
	ErrActorDead     = errors.New(ErrMsgActorDead)
	ErrNameTaken     = errors.New(ErrMsgNameTaken)
	ErrInvalidName   = errors.New(ErrMsgInvalidName)

	// Item errors
	ErrItemNotFound    = errors.New(ErrMsgItemNotFound)
	ErrInvalidStackCap = errors.New(ErrMsgInvalidStackCap)

	// Inventory errors
	ErrInsufficientMaterials = errors.New(ErrMsgInsufficientMaterials)
	ErrInvalidQuantity       = errors.New(ErrMsgInvalidQuantity)

	// Progression errors
	ErrInvalidXPDelta = errors.New(ErrMsgInvalidXPDelta)
	ErrTrackNotFound  = errors.New(ErrMsgTrackNotFound)

	// Action errors
	ErrActionNotFound = errors.New(ErrMsgActionNotFound)
	ErrActionInactive = errors.New(ErrMsgActionInactive)
	ErrActionLocked   = errors.New(ErrMsgActionLocked)

	// Battle errors
	ErrBattleNotFound  = errors.New(ErrMsgBattleNotFound)
	ErrBattleOver      = errors.New(ErrMsgBattleOver)
	ErrStaleBattle     = errors.New(ErrMsgStaleBattle)
	ErrMonsterNotFound = errors.New(ErrMsgMonsterNotFound)

	// Loadout errors
	ErrInvalidSlot = errors.New(ErrMsgInvalidSlot)

	// Rate limit errors
	ErrRateLimited = errors.New(ErrMsgRateLimited)
)

// Retryable reports whether the caller may safely retry the whole operation
// from scratch. Only optimistic-concurrency conflicts qualify; the success
// roll must be re-evaluated against fresh state, never replayed.
func Retryable(err error) bool {
	return errors.Is(err, ErrStaleBattle)
}
