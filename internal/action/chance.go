package action

import "github.com/ravenholt/Emberfell_Go/internal/domain"

// SuccessChance computes the attempt's success probability from the actor's
// track level and the action's tier.
func SuccessChance(family domain.ActionFamily, level, tier int) float64 {
	gap := float64(level - tier)
	switch family {
	case domain.FamilyGather:
		return clamp(GatherMinChance, GatherMaxChance, GatherBaseChance+gap*GatherChancePerLvl)
	default:
		return clamp(CraftMinChance, CraftMaxChance, CraftBaseChance+gap*CraftChancePerLvl)
	}
}

// XPReward computes the XP awarded for an attempt. Failures still teach,
// just less.
func XPReward(family domain.ActionFamily, tier int, success bool) int {
	switch family {
	case domain.FamilyGather:
		if success {
			return GatherSuccessXPBase + GatherSuccessXPPerTier*tier
		}
		return GatherFailureXPBase + GatherFailureXPPerTier*tier
	default:
		if success {
			return CraftSuccessXPBase + CraftSuccessXPPerTier*tier
		}
		return CraftFailureXPBase + CraftFailureXPPerTier*tier
	}
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
