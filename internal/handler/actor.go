package handler

import (
	"net/http"

	"github.com/ravenholt/Emberfell_Go/internal/actor"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
)

// RegisterActorRequest represents the request to create a new adventurer
type RegisterActorRequest struct {
	Name string `json:"name" validate:"required,min=3,max=24,excludesall=<>"`
}

// RegenRequest represents the request to apply pending regeneration ticks
type RegenRequest struct {
	ActorID string `json:"actor_id" validate:"required,uuid4"`
}

// EquipSkillRequest represents the request to place a skill into a loadout slot
type EquipSkillRequest struct {
	ActorID  string `json:"actor_id" validate:"required,uuid4"`
	Slot     *int   `json:"slot" validate:"required,gte=0"`
	SkillKey string `json:"skill_key" validate:"required,contentkey"`
}

// ClearSkillRequest represents the request to empty a loadout slot
type ClearSkillRequest struct {
	ActorID string `json:"actor_id" validate:"required,uuid4"`
	Slot    *int   `json:"slot" validate:"required,gte=0"`
}

// ActorHandler handles actor-related HTTP requests
type ActorHandler struct {
	actorSvc actor.Service
}

// NewActorHandler creates a new actor handler
func NewActorHandler(actorSvc actor.Service) *ActorHandler {
	return &ActorHandler{actorSvc: actorSvc}
}

// Register handles adventurer creation
func (h *ActorHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RegisterActorRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register actor"); err != nil {
		return
	}

	created, err := h.actorSvc.Register(r.Context(), req.Name)
	if err != nil {
		log.Error(ErrMsgRegisterActorFailed, "error", err, "name", req.Name)
		respondServiceError(w, err)
		return
	}

	log.Info("Actor registered", "actor_id", created.ID, "name", created.Name)
	respondJSON(w, http.StatusCreated, created)
}

// Get returns an adventurer by id
func (h *ActorHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	actorID, ok := GetQueryParam(r, w, "actor_id")
	if !ok {
		return
	}

	found, err := h.actorSvc.Get(r.Context(), actorID)
	if err != nil {
		log.Error(ErrMsgGetActorFailed, "error", err, "actor_id", actorID)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, found)
}

// Regen applies pending whole-minute regeneration ticks
func (h *ActorHandler) Regen(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RegenRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Regen"); err != nil {
		return
	}

	pool, err := h.actorSvc.Regen(r.Context(), req.ActorID)
	if err != nil {
		log.Error(ErrMsgRegenFailed, "error", err, "actor_id", req.ActorID)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pool)
}

// EquipSkill places a skill into one of the numbered loadout slots
func (h *ActorHandler) EquipSkill(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req EquipSkillRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Equip skill"); err != nil {
		return
	}

	loadout, err := h.actorSvc.EquipSkill(r.Context(), req.ActorID, *req.Slot, req.SkillKey)
	if err != nil {
		log.Error("Failed to equip skill", "error", err, "actor_id", req.ActorID, "slot", *req.Slot)
		respondServiceError(w, err)
		return
	}

	log.Info("Skill equipped", "actor_id", req.ActorID, "slot", *req.Slot, "skill", req.SkillKey)
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgSkillEquippedSuccess, Data: loadout})
}

// ClearSkill empties one loadout slot
func (h *ActorHandler) ClearSkill(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ClearSkillRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Clear skill"); err != nil {
		return
	}

	loadout, err := h.actorSvc.ClearSkill(r.Context(), req.ActorID, *req.Slot)
	if err != nil {
		log.Error("Failed to clear skill slot", "error", err, "actor_id", req.ActorID, "slot", *req.Slot)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Message: MsgSkillClearedSuccess, Data: loadout})
}

// Tracks returns the adventurer's progression tracks with level progress
func (h *ActorHandler) Tracks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	actorID, ok := GetQueryParam(r, w, "actor_id")
	if !ok {
		return
	}

	tracks, err := h.actorSvc.Tracks(r.Context(), actorID)
	if err != nil {
		log.Error(ErrMsgGetTracksFailed, "error", err, "actor_id", actorID)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: tracks})
}
