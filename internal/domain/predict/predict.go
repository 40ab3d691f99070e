// Package predict estimates ball-flight outcomes from body-motion inputs
// for sessions that have sensor data but no ball-tracking hardware. Output
// is always a prediction, clearly degraded to low confidence when inputs
// are missing, never an error.
package predict

import (
	"math"

	"github.com/swinglabs/fourb/internal/domain/model"
)

// populationDefaults substitute for missing kinematic inputs so partial
// data degrades toward a typical hitter instead of collapsing toward zero.
// Values are population averages from the coaching dataset, not zeros.
var populationDefaults = struct {
	batKE, pelvisVelocity, torsoVelocity, transferEfficiency, xFactor float64
}{
	batKE:              220, // joules
	pelvisVelocity:     650, // deg/s
	torsoVelocity:      950, // deg/s
	transferEfficiency: 62,  // percent
	xFactor:            45,  // degrees
}

// exit velocity model: EV = base + keWeight*batKE + transferWeight*transfer,
// clamped to a realistic mph band.
const (
	evBase           = 35.0
	evKEWeight       = 0.14
	evTransferWeight = 0.20
	evMin            = 40.0
	evMax            = 105.0
)

// launch angle model: LA = base + xFactorWeight*xFactor +
// ratioWeight*(torso/pelvis - ratioPivot), clamped to a plausible band.
const (
	laBase          = -5.0
	laXFactorWeight = 0.35
	laRatioWeight   = 8.0
	laRatioPivot    = 1.3
	laMin           = -10.0
	laMax           = 40.0
)

// kinetic potential blend: category scores and the raw kinematic inputs
// each carry a bounded share. Missing category scores default to midscale.
const (
	kpBrainWeight     = 0.25
	kpBodyWeight      = 0.25
	kpKinematicWeight = 0.50
	kpDefaultCategory = 50.0
)

// kinematic normalization bands for the potential blend.
const (
	keFloor, keCeil         = 100.0, 350.0
	pelvisFloor, pelvisCeil = 400.0, 900.0
	torsoFloor, torsoCeil   = 600.0, 1300.0
)

// confidence tiers by count of measured (non-nil) kinematic inputs out of
// five: all present is high, a majority is medium, anything less is low.
const (
	confidenceHighMin   = 5
	confidenceMediumMin = 3
)

// Inputs bundles the optional body-derived fields feeding a prediction.
// Any field may be nil; MotorProfile may be UNKNOWN.
type Inputs struct {
	BatKE              *float64
	PelvisVelocity     *float64
	TorsoVelocity      *float64
	TransferEfficiency *float64
	XFactor            *float64
	BrainScore         *float64
	BodyScore          *float64
	MotorProfile       model.MotorProfile
}

// BallFlight produces a prediction from whatever inputs are present. It is
// total: all-nil input yields the population-baseline prediction at low
// confidence.
func BallFlight(in Inputs) model.BallFlightPrediction {
	measured := 0
	batKE := defaulted(in.BatKE, populationDefaults.batKE, &measured)
	pelvis := defaulted(in.PelvisVelocity, populationDefaults.pelvisVelocity, &measured)
	torso := defaulted(in.TorsoVelocity, populationDefaults.torsoVelocity, &measured)
	transfer := defaulted(in.TransferEfficiency, populationDefaults.transferEfficiency, &measured)
	xFactor := defaulted(in.XFactor, populationDefaults.xFactor, &measured)

	ev := evBase + evKEWeight*batKE + evTransferWeight*transfer
	ev = clamp(ev, evMin, evMax)

	la := laBase + laXFactorWeight*xFactor + laRatioWeight*(torso/pelvis-laRatioPivot)
	la = clamp(la, laMin, laMax)

	return model.BallFlightPrediction{
		ExitVelocity:     round1(ev),
		LaunchAngle:      round1(la),
		KineticPotential: kineticPotential(in, batKE, pelvis, torso, transfer),
		Confidence:       confidence(measured),
	}
}

// kineticPotential scores how much ball-flight performance the body's
// mechanics can support, independent of whether a bat sensor confirms it.
func kineticPotential(in Inputs, batKE, pelvis, torso, transfer float64) int {
	brain := kpDefaultCategory
	if in.BrainScore != nil {
		brain = *in.BrainScore
	}
	body := kpDefaultCategory
	if in.BodyScore != nil {
		body = *in.BodyScore
	}

	kinematic := (norm(batKE, keFloor, keCeil) +
		norm(pelvis, pelvisFloor, pelvisCeil) +
		norm(torso, torsoFloor, torsoCeil) +
		transfer/100) / 4 * 100

	score := kpBrainWeight*brain + kpBodyWeight*body + kpKinematicWeight*kinematic
	return int(math.Round(clamp(score, 0, 100)))
}

func confidence(measured int) model.Confidence {
	switch {
	case measured >= confidenceHighMin:
		return model.ConfidenceHigh
	case measured >= confidenceMediumMin:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// defaulted returns *v and bumps the measured counter, or the population
// default when v is nil.
func defaulted(v *float64, fallback float64, measured *int) float64 {
	if v == nil {
		return fallback
	}
	*measured++
	return *v
}

func norm(v, floor, ceil float64) float64 {
	return clamp((v-floor)/(ceil-floor), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
