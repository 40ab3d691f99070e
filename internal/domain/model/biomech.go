package model

// ProcessingStatus tracks where an uploaded biomechanical capture sits in the
// external video/sensor pipeline. Only complete samples are ever aggregated.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusComplete   ProcessingStatus = "complete"
	StatusFailed     ProcessingStatus = "failed"
)

// BiomechanicalSample is one per-upload set of body-sensor measurements.
// Any metric field may be nil when the sensor or video coverage missed it;
// aggregation skips nil fields rather than treating them as zero.
type BiomechanicalSample struct {
	Status ProcessingStatus `json:"status"`

	PelvisVelocity     *float64 `json:"pelvis_velocity,omitempty"`     // deg/s
	TorsoVelocity      *float64 `json:"torso_velocity,omitempty"`      // deg/s
	XFactor            *float64 `json:"x_factor,omitempty"`            // separation angle, deg
	BatKE              *float64 `json:"bat_ke,omitempty"`              // joules
	TransferEfficiency *float64 `json:"transfer_efficiency,omitempty"` // percent 0-100
	GroundFlowScore    *float64 `json:"ground_flow_score,omitempty"`   // 0-100
	CoreFlowScore      *float64 `json:"core_flow_score,omitempty"`     // 0-100
	UpperFlowScore     *float64 `json:"upper_flow_score,omitempty"`    // 0-100

	ConsistencyGrade *string `json:"consistency_grade,omitempty"`
	MotorProfile     *string `json:"motor_profile,omitempty"`
	LeakDetected     *string `json:"leak_detected,omitempty"`
	PriorityDrill    *string `json:"priority_drill,omitempty"`
	WeakestLink      *string `json:"weakest_link,omitempty"`
}

// KinematicAverages carries the nil-skipping session means of the raw
// kinematic fields, feeding the ball flight predictor when no ball-tracking
// data exists.
type KinematicAverages struct {
	PelvisVelocity     *float64 `json:"pelvis_velocity,omitempty"`
	TorsoVelocity      *float64 `json:"torso_velocity,omitempty"`
	XFactor            *float64 `json:"x_factor,omitempty"`
	BatKE              *float64 `json:"bat_ke,omitempty"`
	TransferEfficiency *float64 `json:"transfer_efficiency,omitempty"`
}

// CategoryScores holds the three body-derived 4B category scores. A nil
// category means no sample carried the backing field; "no data" is never
// conflated with a score of zero.
type CategoryScores struct {
	Brain *float64 `json:"brain,omitempty"` // timing / consistency
	Body  *float64 `json:"body,omitempty"`  // lower-half force production
	Bat   *float64 `json:"bat,omitempty"`   // mechanics / delivery
}
