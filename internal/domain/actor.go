package domain

import "time"

// ResourcePool tracks an actor's HP/SP and the regeneration watermark.
// LastRegenAt only ever advances forward, in whole-minute increments.
type ResourcePool struct {
	HP               int       `json:"hp"`
	MaxHP            int       `json:"max_hp"`
	SP               int       `json:"sp"`
	MaxSP            int       `json:"max_sp"`
	HPRegenPerMinute int       `json:"hp_regen_per_minute"`
	SPRegenPerMinute int       `json:"sp_regen_per_minute"`
	LastRegenAt      time.Time `json:"last_regen_at"`
}

// Actor is a playable character. Death is permanent: once DiedAt is set the
// actor can no longer craft, gather, or fight.
type Actor struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Strength  int          `json:"strength"`
	Vitality  int          `json:"vitality"`
	Pool      ResourcePool `json:"pool"`
	Loadout   SkillSlots   `json:"loadout"`
	DiedAt    *time.Time   `json:"died_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Alive reports whether the actor can still act.
func (a *Actor) Alive() bool {
	return a.DiedAt == nil
}
