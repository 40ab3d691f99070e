// Package model contains domain models passed between layers.
package model

// ResultCode classifies the outcome of a single swing.
type ResultCode string

const (
	ResultMiss   ResultCode = "miss"
	ResultFoul   ResultCode = "foul"
	ResultInPlay ResultCode = "in_play"
)

// BattedBallType is the hit-type subcode attached to an in-play result.
type BattedBallType string

const (
	BattedBallGround  BattedBallType = "ground"
	BattedBallLine    BattedBallType = "line"
	BattedBallFly     BattedBallType = "fly"
	BattedBallPopup   BattedBallType = "popup"
	BattedBallUnknown BattedBallType = "unknown"
)

// SwingRecord is one validated row from a vendor batted-ball export.
// Nil measurement fields mean the vendor recorded no contact or no reading
// for that swing; they are never zero-filled.
type SwingRecord struct {
	SwingNumber  int            // 1-based, parse order; sorted ascending before aggregation
	Result       ResultCode     // miss, foul or in_play
	BattedBall   BattedBallType // subcode for in-play swings
	ExitVelocity *float64       // mph
	LaunchAngle  *float64       // degrees
	Distance     *float64       // feet
}

// SessionStats is the immutable session-level reduction of a batch of
// SwingRecords. It is computed once per uploaded batch and replaced wholesale
// on re-import, never mutated in place. All percentage fields are pre-scaled
// to 0-100 for external rendering.
type SessionStats struct {
	TotalSwings   int `json:"total_swings"`
	Misses        int `json:"misses"`
	Fouls         int `json:"fouls"`
	BallsInPlay   int `json:"balls_in_play"`
	GroundBalls   int `json:"ground_balls"`
	FlyBalls      int `json:"fly_balls"`
	QualityHits   int `json:"quality_hits"`
	BarrelHits    int `json:"barrel_hits"`
	Velo90Plus    int `json:"velo_90_plus"`
	Velo95Plus    int `json:"velo_95_plus"`
	Velo100Plus   int `json:"velo_100_plus"`
	OptimalLaunch int `json:"optimal_launch"`

	ContactRate   float64 `json:"contact_rate"`    // balls in play / total * 100, 1 decimal
	QualityHitPct float64 `json:"quality_hit_pct"` // over total swings, 1 decimal
	BarrelPct     float64 `json:"barrel_pct"`      // over total swings, 1 decimal

	AvgExitVelocity *float64 `json:"avg_exit_velocity,omitempty"`
	MaxExitVelocity *float64 `json:"max_exit_velocity,omitempty"`
	MinExitVelocity *float64 `json:"min_exit_velocity,omitempty"`
	AvgLaunchAngle  *float64 `json:"avg_launch_angle,omitempty"`
	AvgDistance     *float64 `json:"avg_distance,omitempty"`
	MaxDistance     *float64 `json:"max_distance,omitempty"`
	MinDistance     *float64 `json:"min_distance,omitempty"`

	TotalPoints    int     `json:"total_points"`
	PointsPerSwing float64 `json:"points_per_swing"`

	// BallScore is the composite 0-100 session quality index.
	BallScore int `json:"ball_score"`
}

// Float64 returns a pointer to v. Convenience for building records with
// nullable measurement fields.
func Float64(v float64) *float64 { return &v }

// String returns a pointer to s.
func String(s string) *string { return &s }
