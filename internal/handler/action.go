package handler

import (
	"net/http"

	"github.com/ravenholt/Emberfell_Go/internal/action"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
)

// DefaultHistoryLimit caps attempt history pages when no limit is given
const DefaultHistoryLimit = 20

// AttemptActionRequest represents the request to run one craft or gather attempt
type AttemptActionRequest struct {
	ActorID   string `json:"actor_id" validate:"required,uuid4"`
	ActionKey string `json:"action_key" validate:"required,contentkey"`
}

// UnlockActionRequest represents the request to unlock an action for an adventurer
type UnlockActionRequest struct {
	ActorID   string `json:"actor_id" validate:"required,uuid4"`
	ActionKey string `json:"action_key" validate:"required,contentkey"`
}

// ActionHandler handles craft and gather HTTP requests
type ActionHandler struct {
	actionSvc action.Service
}

// NewActionHandler creates a new action handler
func NewActionHandler(actionSvc action.Service) *ActionHandler {
	return &ActionHandler{actionSvc: actionSvc}
}

// Attempt runs one craft or gather attempt
func (h *ActionHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req AttemptActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Attempt action"); err != nil {
		return
	}

	outcome, err := h.actionSvc.Attempt(r.Context(), req.ActorID, req.ActionKey)
	if err != nil {
		log.Error(ErrMsgAttemptFailed, "error", err, "actor_id", req.ActorID, "action", req.ActionKey)
		respondServiceError(w, err)
		return
	}

	log.Info("Action attempted",
		"actor_id", req.ActorID,
		"action", req.ActionKey,
		"success", outcome.Success,
		"xp", outcome.XPGained)

	respondJSON(w, http.StatusOK, outcome)
}

// Unlock grants the adventurer permanent access to an action
func (h *ActionHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req UnlockActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Unlock action"); err != nil {
		return
	}

	if err := h.actionSvc.Unlock(r.Context(), req.ActorID, req.ActionKey); err != nil {
		log.Error(ErrMsgUnlockFailed, "error", err, "actor_id", req.ActorID, "action", req.ActionKey)
		respondServiceError(w, err)
		return
	}

	log.Info("Action unlocked", "actor_id", req.ActorID, "action", req.ActionKey)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgActionUnlockedSuccess})
}

// History returns the adventurer's most recent attempts, newest first
func (h *ActionHandler) History(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	actorID, ok := GetQueryParam(r, w, "actor_id")
	if !ok {
		return
	}
	limit, ok := GetLimitParam(r, w, DefaultHistoryLimit)
	if !ok {
		return
	}

	attempts, err := h.actionSvc.History(r.Context(), actorID, limit)
	if err != nil {
		log.Error(ErrMsgGetHistoryFailed, "error", err, "actor_id", actorID)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: attempts})
}
