// Package biomech reduces per-upload biomechanical samples into the three
// body-derived 4B category scores plus categorical motor-profile signals.
package biomech

import (
	"errors"

	"github.com/swinglabs/fourb/internal/domain/model"
)

// ErrNoCompletedSamples means no sample in the batch had finished
// processing, so there is nothing to aggregate.
var ErrNoCompletedSamples = errors.New("no completed biomechanical samples")

// AggregateCategories reduces a batch of samples into CategoryScores and
// the pick-first-non-nil categorical fields. Only samples whose processing
// status is complete are considered; pending, processing and failed uploads
// are excluded entirely rather than zero-filled.
//
// Each category averages one backing field across samples, skipping nil
// readings. A category where every sample lacks the field stays nil: "no
// data" must never render as a score of 0.
func AggregateCategories(samples []model.BiomechanicalSample) (model.CategoryScores, model.Categoricals, error) {
	complete := make([]model.BiomechanicalSample, 0, len(samples))
	for _, s := range samples {
		if s.Status == model.StatusComplete {
			complete = append(complete, s)
		}
	}
	if len(complete) == 0 {
		return model.CategoryScores{}, model.Categoricals{}, ErrNoCompletedSamples
	}

	scores := model.CategoryScores{
		Brain: meanNonNil(complete, func(s model.BiomechanicalSample) *float64 { return s.CoreFlowScore }),
		Body:  meanNonNil(complete, func(s model.BiomechanicalSample) *float64 { return s.GroundFlowScore }),
		Bat:   meanNonNil(complete, func(s model.BiomechanicalSample) *float64 { return s.UpperFlowScore }),
	}

	// Categorical fields are first-match-wins in upload order. This is a
	// deliberate simplicity choice over majority-vote; the scan is explicit
	// so no map iteration can reorder it.
	cats := model.Categoricals{
		ConsistencyGrade: firstNonNil(complete, func(s model.BiomechanicalSample) *string { return s.ConsistencyGrade }),
		MotorProfile:     firstNonNil(complete, func(s model.BiomechanicalSample) *string { return s.MotorProfile }),
		LeakDetected:     firstNonNil(complete, func(s model.BiomechanicalSample) *string { return s.LeakDetected }),
		PriorityDrill:    firstNonNil(complete, func(s model.BiomechanicalSample) *string { return s.PriorityDrill }),
		WeakestLink:      firstNonNil(complete, func(s model.BiomechanicalSample) *string { return s.WeakestLink }),
	}

	return scores, cats, nil
}

// AggregateKinematics reduces the raw kinematic fields of the completed
// samples into nil-skipping means for the ball flight predictor. A field no
// sample carries stays nil so the predictor substitutes its population
// default instead of a fake zero.
func AggregateKinematics(samples []model.BiomechanicalSample) model.KinematicAverages {
	complete := make([]model.BiomechanicalSample, 0, len(samples))
	for _, s := range samples {
		if s.Status == model.StatusComplete {
			complete = append(complete, s)
		}
	}
	return model.KinematicAverages{
		PelvisVelocity:     meanNonNil(complete, func(s model.BiomechanicalSample) *float64 { return s.PelvisVelocity }),
		TorsoVelocity:      meanNonNil(complete, func(s model.BiomechanicalSample) *float64 { return s.TorsoVelocity }),
		XFactor:            meanNonNil(complete, func(s model.BiomechanicalSample) *float64 { return s.XFactor }),
		BatKE:              meanNonNil(complete, func(s model.BiomechanicalSample) *float64 { return s.BatKE }),
		TransferEfficiency: meanNonNil(complete, func(s model.BiomechanicalSample) *float64 { return s.TransferEfficiency }),
	}
}

// meanNonNil averages the non-nil readings of one field, returning nil when
// no sample carries the field.
func meanNonNil(samples []model.BiomechanicalSample, field func(model.BiomechanicalSample) *float64) *float64 {
	var sum float64
	var n int
	for _, s := range samples {
		if v := field(s); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return model.Float64(sum / float64(n))
}

// firstNonNil returns the first non-nil value of a categorical field in
// upload order.
func firstNonNil(samples []model.BiomechanicalSample, field func(model.BiomechanicalSample) *string) *string {
	for _, s := range samples {
		if v := field(s); v != nil {
			return v
		}
	}
	return nil
}
