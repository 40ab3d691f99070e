package model

// Confidence is the ordinal confidence tier attached to a ball-flight
// prediction. It reflects how many of the kinematic inputs were measured
// rather than defaulted.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// BallFlightPrediction estimates batted-ball outcomes from body-motion
// inputs alone. It is recomputed on demand, never stored as ground truth,
// and must always be labeled as a prediction by consumers.
type BallFlightPrediction struct {
	ExitVelocity     float64    `json:"exit_velocity"` // mph
	LaunchAngle      float64    `json:"launch_angle"`  // degrees
	KineticPotential int        `json:"kinetic_potential"`
	Confidence       Confidence `json:"confidence"`
}

// MotorProfile is one of five archetype labels for a hitter's dominant
// movement pattern. UNKNOWN is the explicit fallback, not an error state.
type MotorProfile string

const (
	ProfileSpinner      MotorProfile = "SPINNER"
	ProfileWhipper      MotorProfile = "WHIPPER"
	ProfileSlingshotter MotorProfile = "SLINGSHOTTER"
	ProfileTitan        MotorProfile = "TITAN"
	ProfileUnknown      MotorProfile = "UNKNOWN"
)

// ParseMotorProfile maps a free-form label to a MotorProfile, falling back
// to ProfileUnknown for anything unrecognized.
func ParseMotorProfile(s string) MotorProfile {
	switch MotorProfile(s) {
	case ProfileSpinner, ProfileWhipper, ProfileSlingshotter, ProfileTitan:
		return MotorProfile(s)
	default:
		return ProfileUnknown
	}
}

// CeilingProjection pairs a swing's current development score with its
// archetype-bounded ceiling. Ceiling never drops below Current and is
// capped at 99 unless Current itself sits above the cap.
type CeilingProjection struct {
	Current int    `json:"current"`
	Ceiling int    `json:"ceiling"`
	Grade   string `json:"grade"`
}
