package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// bufferPool reduces allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode to the buffer first; headers are already sent so an encode
	// failure can only be logged
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to its HTTP shape and sends it.
// Retryable conflicts are flagged so clients know a replay is safe.
func respondServiceError(w http.ResponseWriter, err error) {
	status, userMsg := mapServiceErrorToUserMessage(err)
	respondJSON(w, status, ErrorResponse{Error: userMsg, Retryable: domain.Retryable(err)})
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnknownError         = "Unknown error"
	ErrMsgTooManyRequestsError = "Too many requests. Please try again later."

	// Actor messages
	ErrMsgActorNotFoundError = "Adventurer not found"
	ErrMsgActorDeadError     = "That adventurer has fallen. Death is permanent."
	ErrMsgNameTakenError     = "That name is already taken"
	ErrMsgInvalidNameError   = "Invalid adventurer name"
	ErrMsgInvalidSlotError   = "Invalid skill slot"

	// Item and inventory messages
	ErrMsgItemNotFoundError     = "Item not found"
	ErrMsgInsufficientMatsError = "Not enough materials"
	ErrMsgInvalidQuantityError  = "Quantity must be positive"

	// Action messages
	ErrMsgActionNotFoundError = "Action not found"
	ErrMsgActionInactiveError = "That action has been retired"
	ErrMsgActionLockedError   = "Action is locked. Unlock it first."

	// Battle messages
	ErrMsgBattleNotFoundError  = "Battle not found"
	ErrMsgBattleOverError      = "That battle is already over"
	ErrMsgStaleBattleError     = "Battle state changed. Try again."
	ErrMsgMonsterNotFoundError = "Monster not found"

	// Progression messages
	ErrMsgTrackNotFoundError = "Progression track not found"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Internal details never reach the client.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrActorNotFound):
		return http.StatusNotFound, ErrMsgActorNotFoundError
	case errors.Is(err, domain.ErrActorDead):
		return http.StatusConflict, ErrMsgActorDeadError
	case errors.Is(err, domain.ErrNameTaken):
		return http.StatusConflict, ErrMsgNameTakenError
	case errors.Is(err, domain.ErrInvalidName):
		return http.StatusBadRequest, ErrMsgInvalidNameError
	case errors.Is(err, domain.ErrInvalidSlot):
		return http.StatusBadRequest, ErrMsgInvalidSlotError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrInsufficientMaterials):
		return http.StatusBadRequest, ErrMsgInsufficientMatsError
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, ErrMsgInvalidQuantityError
	case errors.Is(err, domain.ErrActionNotFound):
		return http.StatusNotFound, ErrMsgActionNotFoundError
	case errors.Is(err, domain.ErrActionInactive):
		return http.StatusGone, ErrMsgActionInactiveError
	case errors.Is(err, domain.ErrActionLocked):
		return http.StatusForbidden, ErrMsgActionLockedError
	case errors.Is(err, domain.ErrBattleNotFound):
		return http.StatusNotFound, ErrMsgBattleNotFoundError
	case errors.Is(err, domain.ErrBattleOver):
		return http.StatusConflict, ErrMsgBattleOverError
	case errors.Is(err, domain.ErrStaleBattle):
		return http.StatusConflict, ErrMsgStaleBattleError
	case errors.Is(err, domain.ErrMonsterNotFound):
		return http.StatusNotFound, ErrMsgMonsterNotFoundError
	case errors.Is(err, domain.ErrTrackNotFound):
		return http.StatusNotFound, ErrMsgTrackNotFoundError
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, ErrMsgTooManyRequestsError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
