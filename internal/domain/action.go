package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionFamily splits actions into the two outcome formulas.
type ActionFamily string

const (
	FamilyCraft  ActionFamily = "craft"
	FamilyGather ActionFamily = "gather"
)

// ActionInput is a required material for a craft action.
type ActionInput struct {
	ItemKey  string `json:"item_key"`
	Quantity int    `json:"quantity"`
}

// ActionOutput is a fixed-quantity craft result, granted only on success.
type ActionOutput struct {
	ItemKey  string `json:"item_key"`
	Quantity int    `json:"quantity"`
}

// YieldEntry is one row of a gather node's yield table. Each entry is rolled
// independently against Chance; quantity is uniform in [MinQuantity, MaxQuantity].
type YieldEntry struct {
	ItemKey     string  `json:"item_key"`
	Chance      float64 `json:"chance"`
	MinQuantity int     `json:"min_quantity"`
	MaxQuantity int     `json:"max_quantity"`
}

// ActionDefinition is authored content, consumed read-only. Tier is the
// recipe difficulty for craft actions and the danger tier for gather nodes.
type ActionDefinition struct {
	Key      string         `json:"key"`
	Name     string         `json:"name"`
	Family   ActionFamily   `json:"family"`
	Tier     int            `json:"tier"`
	TrackKey string         `json:"track_key"`
	Inputs   []ActionInput  `json:"inputs,omitempty"`
	Outputs  []ActionOutput `json:"outputs,omitempty"`
	Yield    []YieldEntry   `json:"yield,omitempty"`
	Active   bool           `json:"active"`
}

// ActionAttempt is the immutable audit record, one per craft/gather call.
type ActionAttempt struct {
	ID        uuid.UUID `json:"id"`
	ActorID   string    `json:"actor_id"`
	ActionKey string    `json:"action_key"`
	Success   bool      `json:"success"`
	XPGained  int       `json:"xp_gained"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionOutcome is the structured result returned to callers.
type ActionOutcome struct {
	Success   bool           `json:"success"`
	Chance    float64        `json:"chance"`
	XPGained  int            `json:"xp_gained"`
	Outputs   map[string]int `json:"outputs"`
	LeveledUp bool           `json:"leveled_up"`
	NewLevel  int            `json:"new_level"`
}
