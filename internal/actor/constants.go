package actor

import "github.com/ravenholt/Emberfell_Go/internal/domain"

// Starting stats for freshly registered actors.
const (
	StartingStrength = 5
	StartingVitality = 5
	StartingMaxHP    = 50
	StartingMaxSP    = 20
	StartingHPRegen  = 5
	StartingSPRegen  = 2
)

// Name constraints
const (
	MinNameLength = 3
	MaxNameLength = 24
)

// Default progression tracks every actor starts with. Job tracks run on the
// bounded linear curve, skill tracks on the exponential one.
var defaultTracks = []struct {
	Key  string
	Kind domain.CurveKind
}{
	{Key: "smithing", Kind: domain.CurveBoundedLinear},
	{Key: "mining", Kind: domain.CurveExponential},
	{Key: "woodcutting", Kind: domain.CurveExponential},
}
