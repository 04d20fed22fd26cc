package progression

import (
	"math"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

// Curve maps accumulated XP to levels. Implementations are pure and safe for
// concurrent use; one strategy is selected per progression track.
type Curve interface {
	Kind() domain.CurveKind

	// MaxLevel is the level cap. XP beyond XPForLevel(MaxLevel()) is truncated.
	MaxLevel() int

	// XPForLevel returns the total XP required to reach level from scratch.
	// Levels at or below 1 cost 0; levels above the cap cost the cap's total.
	XPForLevel(level int) int64

	// LevelFromXP derives the level for an XP total by greedily consuming
	// thresholds starting at level 1.
	LevelFromXP(totalXP int64) int
}

// ForKind returns the curve strategy for a track's curve kind. Unknown kinds
// fall back to the bounded linear curve.
func ForKind(kind domain.CurveKind) Curve {
	if kind == domain.CurveExponential {
		return NewExponentialCurve(ExpMaxLevel, ExpBaseXP, ExpCurveBase)
	}
	return NewBoundedLinearCurve(LinearMaxLevel)
}

// boundedLinearCurve: advancing from level n to n+1 costs LinearXPPerLevel*n.
type boundedLinearCurve struct {
	maxLevel int
}

// NewBoundedLinearCurve creates the job-track curve with the given level cap.
func NewBoundedLinearCurve(maxLevel int) Curve {
	return &boundedLinearCurve{maxLevel: maxLevel}
}

func (c *boundedLinearCurve) Kind() domain.CurveKind { return domain.CurveBoundedLinear }

func (c *boundedLinearCurve) MaxLevel() int { return c.maxLevel }

func (c *boundedLinearCurve) XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > c.maxLevel {
		level = c.maxLevel
	}
	// sum of LinearXPPerLevel*n for n in [1, level-1]
	n := int64(level - 1)
	return LinearXPPerLevel * n * (n + 1) / 2
}

func (c *boundedLinearCurve) LevelFromXP(totalXP int64) int {
	level := 1
	cumulative := int64(0)
	for level < c.maxLevel {
		threshold := int64(LinearXPPerLevel * level)
		if cumulative+threshold > totalXP {
			break
		}
		cumulative += threshold
		level++
	}
	return level
}

// exponentialCurve: the threshold past level n (n >= 2) is
// floor(curveBase^(n-2) * baseXP). Cumulative thresholds are precomputed at
// construction so lookups are table scans.
type exponentialCurve struct {
	maxLevel   int
	cumulative []int64 // cumulative[L] = total XP required to reach level L
}

// NewExponentialCurve creates the skill-track curve.
func NewExponentialCurve(maxLevel int, baseXP int64, curveBase float64) Curve {
	cumulative := make([]int64, maxLevel+1)
	for n := 2; n <= maxLevel; n++ {
		threshold := int64(math.Floor(math.Pow(curveBase, float64(n-2)) * float64(baseXP)))
		cumulative[n] = cumulative[n-1] + threshold
	}
	return &exponentialCurve{maxLevel: maxLevel, cumulative: cumulative}
}

func (c *exponentialCurve) Kind() domain.CurveKind { return domain.CurveExponential }

func (c *exponentialCurve) MaxLevel() int { return c.maxLevel }

func (c *exponentialCurve) XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > c.maxLevel {
		level = c.maxLevel
	}
	return c.cumulative[level]
}

func (c *exponentialCurve) LevelFromXP(totalXP int64) int {
	level := 1
	for level < c.maxLevel && c.cumulative[level+1] <= totalXP {
		level++
	}
	return level
}
