package progression

import (
	"fmt"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

// Progress describes position within the current level.
type Progress struct {
	XPInLevel int64   `json:"xp_in_level"`
	XPToNext  int64   `json:"xp_to_next"`
	Pct       float64 `json:"pct"`
}

// Result is the outcome of applying an XP delta.
type Result struct {
	NewLevel  int      `json:"new_level"`
	NewXP     int64    `json:"new_xp"`
	LeveledUp bool     `json:"leveled_up"`
	Progress  Progress `json:"progress"`
}

// ProgressFor computes progress within the level that totalXP lands in.
// At the level cap XPToNext is 0 and Pct is 1.
func ProgressFor(curve Curve, totalXP int64) Progress {
	level := curve.LevelFromXP(totalXP)
	floor := curve.XPForLevel(level)

	if level >= curve.MaxLevel() {
		return Progress{XPInLevel: totalXP - floor, XPToNext: 0, Pct: 1}
	}

	ceil := curve.XPForLevel(level + 1)
	span := ceil - floor
	inLevel := totalXP - floor

	pct := 0.0
	if span > 0 {
		pct = float64(inLevel) / float64(span)
	}
	return Progress{XPInLevel: inLevel, XPToNext: ceil - totalXP, Pct: pct}
}

// ApplyXP adds delta XP to a track position. XP is capped at the curve's
// max-level total; excess is silently truncated so a capped track never
// levels past the cap and never errors. Negative deltas are a programmer
// error and are rejected without side effects.
func ApplyXP(curve Curve, currentLevel int, currentXP int64, delta int64) (Result, error) {
	if delta < 0 {
		return Result{}, fmt.Errorf("%w: %d", domain.ErrInvalidXPDelta, delta)
	}

	newXP := currentXP + delta
	if maxXP := curve.XPForLevel(curve.MaxLevel()); newXP > maxXP {
		newXP = maxXP
	}

	newLevel := curve.LevelFromXP(newXP)
	return Result{
		NewLevel:  newLevel,
		NewXP:     newXP,
		LeveledUp: newLevel > currentLevel,
		Progress:  ProgressFor(curve, newXP),
	}, nil
}
