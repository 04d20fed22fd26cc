package action

// Craft outcome tuning. Chance scales with the level-vs-difficulty gap and is
// clamped so no recipe is ever a sure thing or a lost cause.
const (
	CraftBaseChance   = 0.55
	CraftChancePerLvl = 0.07
	CraftMinChance    = 0.20
	CraftMaxChance    = 0.95

	CraftSuccessXPBase    = 15
	CraftSuccessXPPerTier = 5
	CraftFailureXPBase    = 5
	CraftFailureXPPerTier = 2
)

// Gather outcome tuning.
const (
	GatherBaseChance   = 0.65
	GatherChancePerLvl = 0.06
	GatherMinChance    = 0.30
	GatherMaxChance    = 0.98

	GatherSuccessXPBase    = 8
	GatherSuccessXPPerTier = 3
	GatherFailureXPBase    = 3
	GatherFailureXPPerTier = 1
)
