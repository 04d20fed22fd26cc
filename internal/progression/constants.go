package progression

// Bounded linear curve (job tracks)
const (
	// LinearMaxLevel caps job levels
	LinearMaxLevel = 10

	// LinearXPPerLevel scales the per-level threshold: advancing from level n
	// to n+1 costs LinearXPPerLevel * n
	LinearXPPerLevel = 100
)

// Exponential curve (skill tracks)
const (
	// ExpMaxLevel caps skill levels
	ExpMaxLevel = 99

	// ExpBaseXP is the threshold for reaching level 2
	ExpBaseXP = 100

	// ExpCurveBase is the geometric growth factor between thresholds
	ExpCurveBase = 1.10
)
