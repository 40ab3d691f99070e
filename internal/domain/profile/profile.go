// Package profile classifies a swing into a motor-pattern archetype and
// projects a current/ceiling development score pair with coaching
// recommendations. Everything here is deterministic: identical metrics
// always produce identical output.
package profile

import (
	"math"

	"github.com/swinglabs/fourb/internal/domain/grading"
	"github.com/swinglabs/fourb/internal/domain/model"
)

// MetricBundle carries one swing's measured metrics. Unlike session-level
// inputs these are required values from the bat sensor, not nullable.
type MetricBundle struct {
	BatSpeedMPH            float64 `json:"bat_speed_mph"`
	AttackAngleDeg         float64 `json:"attack_angle_deg"`
	HandSpeedMPH           float64 `json:"hand_speed_mph"`
	TimeToContactMS        float64 `json:"time_to_contact_ms"`
	TempoScore             float64 `json:"tempo_score"`        // 0-100
	EfficiencyRating       float64 `json:"efficiency_rating"`  // 0-10
	PeakAccelerationG      float64 `json:"peak_acceleration_g"`
	MotorProfilePrediction string  `json:"motor_profile_prediction,omitempty"`
}

// current-score blend. Each term is clamped into [0,1] before weighting;
// the weights sum to 1 so the scaled result is bounded without a second
// normalization pass.
const (
	currentBatSpeedWeight  = 0.35
	currentTempoWeight     = 0.25
	currentEffWeight       = 0.25
	currentQuicknessWeight = 0.15

	batSpeedFloor = 40.0 // mph
	batSpeedCeil  = 90.0
	contactFast   = 100.0 // ms, fastest credited time to contact
	contactSlow   = 220.0 // ms, slower than this earns no quickness credit
)

// archetypeBonus is the fixed per-archetype ceiling upside. UNKNOWN gets
// the smallest bonus: without a confirmed movement pattern the projection
// stays conservative.
var archetypeBonus = map[model.MotorProfile]int{
	model.ProfileSpinner:      12,
	model.ProfileWhipper:      15,
	model.ProfileSlingshotter: 14,
	model.ProfileTitan:        10,
	model.ProfileUnknown:      6,
}

const (
	ceilingEffBonusWeight = 0.8 // small efficiency-proportional bonus
	ceilingCap            = 99  // applied after summing, never before
)

// Classifier thresholds, evaluated in fixed order when no declared profile
// is present.
const (
	whipperMinAccelG      = 22.0
	whipperMaxContactMS   = 140.0
	titanMinBatSpeedMPH   = 78.0
	spinnerMinTempoScore  = 75.0
	slingshotterHandRatio = 0.42 // hand speed relative to bat speed
)

// Recommendation rules: fixed evaluation order, at most maxRecommendations
// survive, and recommendationFallback is emitted when nothing triggers.
const (
	maxRecommendations = 3

	recTiming   = "Work tempo ladders to smooth your load-to-launch timing."
	recLaunch   = "Drive through the ball on an upward path; tee work at belt height."
	recConnect  = "Connection ball drills to keep the barrel on plane longer."
	recTrigger  = "Shorten your trigger: compact load, direct hands to contact."
	recForearm  = "Add forearm and grip strength work to raise hand speed."
	recFallback = "Swing foundation looks strong. Keep stacking quality reps."
)

const (
	ruleTempoMin      = 60.0
	ruleAttackMin     = 5.0
	ruleEfficiencyMin = 6.0
	ruleContactMaxMS  = 180.0
	ruleHandSpeedMin  = 25.0
)

// Classify assigns a motor-pattern archetype. A valid declared prediction
// wins; otherwise fixed-order metric rules decide, with UNKNOWN as the
// explicit fallback rather than an error.
func Classify(b MetricBundle) model.MotorProfile {
	if declared := model.ParseMotorProfile(b.MotorProfilePrediction); declared != model.ProfileUnknown {
		return declared
	}
	switch {
	case b.PeakAccelerationG >= whipperMinAccelG && b.TimeToContactMS <= whipperMaxContactMS:
		return model.ProfileWhipper
	case b.BatSpeedMPH >= titanMinBatSpeedMPH:
		return model.ProfileTitan
	case b.TempoScore >= spinnerMinTempoScore:
		return model.ProfileSpinner
	case b.BatSpeedMPH > 0 && b.HandSpeedMPH/b.BatSpeedMPH >= slingshotterHandRatio:
		return model.ProfileSlingshotter
	default:
		return model.ProfileUnknown
	}
}

// Project computes the current/ceiling development pair and the ranked
// coaching recommendations for one swing's metrics.
func Project(b MetricBundle) (model.CeilingProjection, []string) {
	current := currentScore(b)

	bonus, ok := archetypeBonus[Classify(b)]
	if !ok {
		bonus = archetypeBonus[model.ProfileUnknown]
	}
	ceiling := current + bonus + int(math.Round(ceilingEffBonusWeight*clamp(b.EfficiencyRating, 0, 10)))
	// Cap after summing so a maxed-out current cannot push the ceiling
	// below it.
	if ceiling > ceilingCap {
		ceiling = ceilingCap
	}
	if ceiling < current {
		ceiling = current
	}

	proj := model.CeilingProjection{
		Current: current,
		Ceiling: ceiling,
		Grade:   grading.Grade(float64(current)),
	}
	return proj, Recommendations(b)
}

// Recommendations evaluates the five threshold rules in fixed order and
// truncates to maxRecommendations; when none trigger it returns exactly the
// single positive-reinforcement message.
func Recommendations(b MetricBundle) []string {
	var recs []string
	if b.TempoScore < ruleTempoMin {
		recs = append(recs, recTiming)
	}
	if b.AttackAngleDeg < ruleAttackMin {
		recs = append(recs, recLaunch)
	}
	if b.EfficiencyRating < ruleEfficiencyMin {
		recs = append(recs, recConnect)
	}
	if b.TimeToContactMS > ruleContactMaxMS {
		recs = append(recs, recTrigger)
	}
	if b.HandSpeedMPH < ruleHandSpeedMin {
		recs = append(recs, recForearm)
	}
	if len(recs) == 0 {
		return []string{recFallback}
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// currentScore blends the normalized swing metrics into a 0-100 integer.
func currentScore(b MetricBundle) int {
	batSpeed := norm(b.BatSpeedMPH, batSpeedFloor, batSpeedCeil)
	tempo := clamp(b.TempoScore/100, 0, 1)
	eff := clamp(b.EfficiencyRating/10, 0, 1)
	// Faster time to contact scores higher; inverted normalization.
	quickness := norm(contactSlow-b.TimeToContactMS, 0, contactSlow-contactFast)

	score := currentBatSpeedWeight*batSpeed +
		currentTempoWeight*tempo +
		currentEffWeight*eff +
		currentQuicknessWeight*quickness
	return int(math.Round(clamp(score, 0, 1) * 100))
}

func norm(v, floor, ceil float64) float64 {
	return clamp((v-floor)/(ceil-floor), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
