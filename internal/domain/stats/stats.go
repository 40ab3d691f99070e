// Package stats reduces an ordered sequence of swing records into one
// immutable SessionStats, including the composite 0-100 Ball Score. All
// weight tables are versioned named constants so every score is reproducible
// and explainable to a coach on request.
package stats

import (
	"errors"
	"math"

	"github.com/swinglabs/fourb/internal/domain/model"
)

// ErrNoSwingData means aggregation was asked to score an empty batch. It is
// checked before any division so a zero denominator can never reach the
// ball score.
var ErrNoSwingData = errors.New("no valid swing data — check column headers")

// Velocity bucket thresholds in mph. Buckets are inclusive and independent:
// a 101 mph swing counts in all three.
const (
	velo90  = 90.0
	velo95  = 95.0
	velo100 = 100.0
)

// LaunchWindow bounds a coaching-relevant launch angle band in degrees,
// inclusive on both ends.
type LaunchWindow struct {
	Min float64
	Max float64
}

// Contains reports whether angle falls inside the window.
func (w LaunchWindow) Contains(angle float64) bool {
	return angle >= w.Min && angle <= w.Max
}

// DefaultOptimalWindow is the optimal launch band used when no override is
// configured.
var DefaultOptimalWindow = LaunchWindow{Min: 10, Max: 30}

// Batted-ball shape thresholds in degrees, independent of the optimal
// window bucket.
const (
	groundBallMaxAngle = 10.0
	flyBallMinAngle    = 25.0
)

// Quality-hit and barrel classification. Barrel is a strict subset of
// quality by construction: a higher velocity floor inside a narrower band.
var (
	qualityWindow = LaunchWindow{Min: 8, Max: 32}
	barrelWindow  = LaunchWindow{Min: 10, Max: 30}
)

const (
	qualityMinVelocity = 85.0
	barrelMinVelocity  = 95.0
)

// pointWeightsV1 is the per-swing point table. The velocity bonuses are
// mutually exclusive (highest reached wins); the window and barrel bonuses
// stack on top. Versioned: changing any weight means a new table, not an
// edit, so historical points stay comparable.
var pointWeightsV1 = struct {
	miss, foul, inPlay      int
	velo90, velo95, velo100 int
	optimalWindow, barrel   int
}{
	miss:          0,
	foul:          1,
	inPlay:        2,
	velo90:        2,
	velo95:        3,
	velo100:       4,
	optimalWindow: 2,
	barrel:        3,
}

// ballScoreWeightsV1 defines the composite Ball Score blend. Each component
// is already on a 0-100 scale; the weights sum to 1 so the result is
// bounded without renormalization. The velocity component maps average exit
// velocity onto 0-100 across the veloFloor..veloCeil band.
var ballScoreWeightsV1 = struct {
	contactRate, qualityHitPct, barrelPct, velocity float64
	veloFloor, veloCeil                             float64
}{
	contactRate:   0.30,
	qualityHitPct: 0.25,
	barrelPct:     0.15,
	velocity:      0.30,
	veloFloor:     60,
	veloCeil:      105,
}

// Aggregator computes SessionStats from sorted swing records. The zero
// value is not usable; construct with New.
type Aggregator struct {
	optimal LaunchWindow
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithOptimalWindow overrides the optimal launch angle band.
func WithOptimalWindow(w LaunchWindow) Option {
	return func(a *Aggregator) {
		if w.Max > w.Min {
			a.optimal = w
		}
	}
}

// New creates an Aggregator with default configuration.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{optimal: DefaultOptimalWindow}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate reduces records into one SessionStats. The input must already be
// sorted by swing number; aggregation itself is a single pass with no
// ordering dependence beyond the documented point accumulation. Identical
// input always yields an identical SessionStats.
func (a *Aggregator) Aggregate(records []model.SwingRecord) (model.SessionStats, error) {
	if len(records) == 0 {
		return model.SessionStats{}, ErrNoSwingData
	}

	s := model.SessionStats{TotalSwings: len(records)}

	var (
		veloSum, distSum, angleSum float64
		veloN, distN, angleN       int
		totalPoints                int
	)

	for _, rec := range records {
		switch rec.Result {
		case model.ResultMiss:
			s.Misses++
			totalPoints += pointWeightsV1.miss
			continue
		case model.ResultFoul:
			s.Fouls++
			totalPoints += pointWeightsV1.foul
			continue
		}

		s.BallsInPlay++
		points := pointWeightsV1.inPlay

		if rec.ExitVelocity != nil {
			v := *rec.ExitVelocity
			veloSum += v
			veloN++
			s.MaxExitVelocity = maxPtr(s.MaxExitVelocity, v)
			s.MinExitVelocity = minPtr(s.MinExitVelocity, v)
			switch {
			case v >= velo100:
				points += pointWeightsV1.velo100
			case v >= velo95:
				points += pointWeightsV1.velo95
			case v >= velo90:
				points += pointWeightsV1.velo90
			}
			if v >= velo90 {
				s.Velo90Plus++
			}
			if v >= velo95 {
				s.Velo95Plus++
			}
			if v >= velo100 {
				s.Velo100Plus++
			}
		}

		if rec.LaunchAngle != nil {
			la := *rec.LaunchAngle
			angleSum += la
			angleN++
			if a.optimal.Contains(la) {
				s.OptimalLaunch++
				points += pointWeightsV1.optimalWindow
			}
			if la < groundBallMaxAngle {
				s.GroundBalls++
			} else if la > flyBallMinAngle {
				s.FlyBalls++
			}
		}

		if rec.Distance != nil {
			d := *rec.Distance
			distSum += d
			distN++
			s.MaxDistance = maxPtr(s.MaxDistance, d)
			s.MinDistance = minPtr(s.MinDistance, d)
		}

		if isQualityHit(rec) {
			s.QualityHits++
		}
		if isBarrel(rec) {
			s.BarrelHits++
			points += pointWeightsV1.barrel
		}

		totalPoints += points
	}

	total := float64(s.TotalSwings)
	s.ContactRate = round1(float64(s.BallsInPlay) / total * 100)
	// Quality and barrel percentages share the contact-rate denominator so
	// the three rates stay comparable on one scale.
	s.QualityHitPct = round1(float64(s.QualityHits) / total * 100)
	s.BarrelPct = round1(float64(s.BarrelHits) / total * 100)

	if veloN > 0 {
		s.AvgExitVelocity = model.Float64(round1(veloSum / float64(veloN)))
	}
	if angleN > 0 {
		s.AvgLaunchAngle = model.Float64(round1(angleSum / float64(angleN)))
	}
	if distN > 0 {
		s.AvgDistance = model.Float64(round1(distSum / float64(distN)))
	}

	s.TotalPoints = totalPoints
	s.PointsPerSwing = round1(float64(totalPoints) / total)
	s.BallScore = ballScore(s)
	return s, nil
}

// isQualityHit reports whether a swing clears the joint velocity+angle
// quality threshold.
func isQualityHit(rec model.SwingRecord) bool {
	if rec.Result != model.ResultInPlay || rec.ExitVelocity == nil || rec.LaunchAngle == nil {
		return false
	}
	return *rec.ExitVelocity >= qualityMinVelocity && qualityWindow.Contains(*rec.LaunchAngle)
}

// isBarrel reports whether a swing clears the stricter barrel threshold.
// Every barrel is a quality hit.
func isBarrel(rec model.SwingRecord) bool {
	if !isQualityHit(rec) {
		return false
	}
	return *rec.ExitVelocity >= barrelMinVelocity && barrelWindow.Contains(*rec.LaunchAngle)
}

// ballScore synthesizes the composite 0-100 Ball Score from the already
// computed session rates using ballScoreWeightsV1.
func ballScore(s model.SessionStats) int {
	w := ballScoreWeightsV1

	veloComponent := 0.0
	if s.AvgExitVelocity != nil {
		veloComponent = (*s.AvgExitVelocity - w.veloFloor) / (w.veloCeil - w.veloFloor) * 100
		veloComponent = clamp(veloComponent, 0, 100)
	}

	score := w.contactRate*s.ContactRate +
		w.qualityHitPct*s.QualityHitPct +
		w.barrelPct*s.BarrelPct +
		w.velocity*veloComponent

	return int(math.Round(clamp(score, 0, 100)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func maxPtr(cur *float64, v float64) *float64 {
	if cur == nil || v > *cur {
		return model.Float64(v)
	}
	return cur
}

func minPtr(cur *float64, v float64) *float64 {
	if cur == nil || v < *cur {
		return model.Float64(v)
	}
	return cur
}
