package domain

// CurveKind selects the leveling strategy for a progression track.
type CurveKind string

const (
	// CurveBoundedLinear is the job curve: 100*n XP per level, capped at 10.
	CurveBoundedLinear CurveKind = "bounded_linear"
	// CurveExponential is the skill curve: geometric thresholds, capped at 99.
	CurveExponential CurveKind = "exponential"
)

// ProgressionTrack is one (actor, skill-or-job) leveling state. Level is
// always derived from TotalXP via the curve; it is stored only as a
// recompute cache and rewritten on every XP award.
type ProgressionTrack struct {
	ActorID   string    `json:"actor_id"`
	TrackKey  string    `json:"track_key"`
	CurveKind CurveKind `json:"curve_kind"`
	Level     int       `json:"level"`
	TotalXP   int64     `json:"total_xp"`
}
