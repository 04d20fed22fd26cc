package domain

import (
	"time"

	"github.com/google/uuid"
)

// BattleStatus is the battle session state machine state.
type BattleStatus string

const (
	BattleActive BattleStatus = "ACTIVE"
	BattleWon    BattleStatus = "WON"
	BattleLost   BattleStatus = "LOST"
	BattleFled   BattleStatus = "FLED"
)

// Terminal reports whether no further transitions are allowed.
func (s BattleStatus) Terminal() bool {
	return s == BattleWon || s == BattleLost || s == BattleFled
}

// BattleEventKind classifies a narrative event within an exchange.
type BattleEventKind string

const (
	EventPlayerAttack  BattleEventKind = "player_attack"
	EventMonsterAttack BattleEventKind = "monster_attack"
	EventFlee          BattleEventKind = "flee"
)

// BattleEvent is one narrative entry in the battle log, ordered by Turn then
// by position within the exchange.
type BattleEvent struct {
	Turn      int             `json:"turn"`
	Kind      BattleEventKind `json:"kind"`
	Damage    int             `json:"damage,omitempty"`
	Narrative string          `json:"narrative"`
}

// BattleSession is one actor-vs-monster fight. TurnNumber strictly increases
// per resolved exchange; Status transitions only ACTIVE -> {WON, LOST, FLED}.
// Version is the optimistic-lock counter; a write with a stale version is a
// concurrent exchange and must be rejected, never merged.
type BattleSession struct {
	ID         uuid.UUID     `json:"id"`
	ActorID    string        `json:"actor_id"`
	MonsterKey string        `json:"monster_key"`
	PlayerHP   int           `json:"player_hp"`
	PlayerSP   int           `json:"player_sp"`
	MonsterHP  int           `json:"monster_hp"`
	TurnNumber int           `json:"turn_number"`
	Status     BattleStatus  `json:"status"`
	Version    int           `json:"version"`
	Log        []BattleEvent `json:"log"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// MonsterTemplate is an authored monster stat block, consumed read-only.
type MonsterTemplate struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	MaxHP      int    `json:"max_hp"`
	Strength   int    `json:"strength"`
	Vitality   int    `json:"vitality"`
	DangerTier int    `json:"danger_tier"`
	Active     bool   `json:"active"`
}
