package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Game metric names
const (
	MetricNameActionAttempts  = "action_attempts_total"
	MetricNameXPAwarded       = "xp_awarded_total"
	MetricNameLevelUps        = "level_ups_total"
	MetricNameBattlesStarted  = "battles_started_total"
	MetricNameBattleExchanges = "battle_exchanges_total"
	MetricNameActorDeaths     = "actor_deaths_total"
	MetricNameRateLimited     = "rate_limited_total"
	MetricNameSessionsExpired = "battle_sessions_expired_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Game metric help text
const (
	HelpTextActionAttempts  = "Total number of craft/gather attempts"
	HelpTextXPAwarded       = "Total XP awarded across all tracks"
	HelpTextLevelUps        = "Total number of level-ups"
	HelpTextBattlesStarted  = "Total number of battle sessions started"
	HelpTextBattleExchanges = "Total number of resolved battle exchanges"
	HelpTextActorDeaths     = "Total number of permanent actor deaths"
	HelpTextRateLimited     = "Total number of calls rejected by the rate limiter"
	HelpTextSessionsExpired = "Total number of abandoned battle sessions expired by the sweeper"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelFamily  = "family"
	LabelResult  = "result"
	LabelTrack   = "track"
	LabelMonster = "monster"
	LabelOutcome = "outcome"
	LabelScope   = "scope"
)

// Label values for action results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
