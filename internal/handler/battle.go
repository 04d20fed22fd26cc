package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ravenholt/Emberfell_Go/internal/battle"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
)

// StartBattleRequest represents the request to open a battle session
type StartBattleRequest struct {
	ActorID    string `json:"actor_id" validate:"required,uuid4"`
	MonsterKey string `json:"monster_key" validate:"required,contentkey"`
}

// BattleSessionRequest identifies an existing battle session
type BattleSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

// BattleHandler handles battle HTTP requests
type BattleHandler struct {
	battleSvc battle.Service
}

// NewBattleHandler creates a new battle handler
func NewBattleHandler(battleSvc battle.Service) *BattleHandler {
	return &BattleHandler{battleSvc: battleSvc}
}

// Start opens a new battle session against a monster
func (h *BattleHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req StartBattleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Start battle"); err != nil {
		return
	}

	session, err := h.battleSvc.Start(r.Context(), req.ActorID, req.MonsterKey)
	if err != nil {
		log.Error(ErrMsgStartBattleFailed, "error", err, "actor_id", req.ActorID, "monster", req.MonsterKey)
		respondServiceError(w, err)
		return
	}

	log.Info("Battle started", "session_id", session.ID, "actor_id", req.ActorID, "monster", req.MonsterKey)
	respondJSON(w, http.StatusCreated, session)
}

// Exchange resolves one attack exchange
func (h *BattleHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req BattleSessionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Battle exchange"); err != nil {
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidSessionID)
		return
	}

	session, err := h.battleSvc.Exchange(r.Context(), sessionID)
	if err != nil {
		log.Error(ErrMsgExchangeFailed, "error", err, "session_id", sessionID)
		respondServiceError(w, err)
		return
	}

	log.Info("Exchange resolved",
		"session_id", session.ID,
		"turn", session.TurnNumber,
		"status", session.Status)

	respondJSON(w, http.StatusOK, session)
}

// Flee ends the session without further damage
func (h *BattleHandler) Flee(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req BattleSessionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Flee"); err != nil {
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidSessionID)
		return
	}

	session, err := h.battleSvc.Flee(r.Context(), sessionID)
	if err != nil {
		log.Error(ErrMsgFleeFailed, "error", err, "session_id", sessionID)
		respondServiceError(w, err)
		return
	}

	log.Info("Fled battle", "session_id", session.ID, "turn", session.TurnNumber)
	respondJSON(w, http.StatusOK, session)
}

// Get returns a battle session with its full event log
func (h *BattleHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	raw, ok := GetQueryParam(r, w, "session_id")
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidSessionID)
		return
	}

	session, err := h.battleSvc.Get(r.Context(), sessionID)
	if err != nil {
		log.Error(ErrMsgGetBattleFailed, "error", err, "session_id", sessionID)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}
