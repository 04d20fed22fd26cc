package regen

import (
	"time"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

// Tick is the regeneration quantum. Partial ticks are never consumed.
const Tick = time.Minute

// Result is the outcome of applying regeneration to a pool.
type Result struct {
	HP          int       `json:"hp"`
	SP          int       `json:"sp"`
	LastRegenAt time.Time `json:"last_regen_at"`
	DidUpdate   bool      `json:"did_update"`
}

// Apply computes HP/SP regenerated between the pool's watermark and now,
// quantized to whole-minute ticks. The watermark advances by the consumed
// ticks only, never to now, so a sub-minute remainder is preserved for the
// next call: no tick is ever double-counted or lost, regardless of how often
// callers poll. Pure function; the caller persists the returned watermark.
func Apply(now time.Time, pool domain.ResourcePool) Result {
	ticks := now.Sub(pool.LastRegenAt) / Tick
	if ticks <= 0 {
		return Result{
			HP:          pool.HP,
			SP:          pool.SP,
			LastRegenAt: pool.LastRegenAt,
			DidUpdate:   false,
		}
	}

	hp := pool.HP + int(ticks)*pool.HPRegenPerMinute
	if hp > pool.MaxHP {
		hp = pool.MaxHP
	}
	sp := pool.SP + int(ticks)*pool.SPRegenPerMinute
	if sp > pool.MaxSP {
		sp = pool.MaxSP
	}

	return Result{
		HP:          hp,
		SP:          sp,
		LastRegenAt: pool.LastRegenAt.Add(ticks * Tick),
		DidUpdate:   true,
	}
}
