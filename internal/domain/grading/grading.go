// Package grading maps numeric scores to letter grades, color tiers and
// confidence labels. Every caller shares the same ladder tables so a given
// score never displays two different grades anywhere in the product.
package grading

import "github.com/swinglabs/fourb/internal/domain/model"

// Tier is a display color band for a 0-100 score.
type Tier struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// gradeStep is one rung of a lower-bound-inclusive threshold ladder.
type gradeStep struct {
	min   float64
	grade string
}

// gradeLadder is the single source of truth for letter grades. Scanned top
// down; the first rung whose lower bound the score meets wins, so boundaries
// are inclusive on the lower bound (70 grades as B, not C+).
var gradeLadder = []gradeStep{
	{90, "A"},
	{80, "B+"},
	{70, "B"},
	{60, "C+"},
	{50, "C"},
	{40, "D"},
	{0, "F"},
}

type tierStep struct {
	min  float64
	tier Tier
}

var tierLadder = []tierStep{
	{90, Tier{Name: "Elite", Color: "purple"}},
	{70, Tier{Name: "Strong", Color: "green"}},
	{50, Tier{Name: "Solid", Color: "yellow"}},
	{30, Tier{Name: "Developing", Color: "orange"}},
	{0, Tier{Name: "Foundational", Color: "red"}},
}

// Grade returns the letter grade for a 0-100 score. Total over the domain;
// negative inputs grade as F rather than falling through.
func Grade(score float64) string {
	for _, step := range gradeLadder {
		if score >= step.min {
			return step.grade
		}
	}
	return gradeLadder[len(gradeLadder)-1].grade
}

// ColorTier returns the display tier for a 0-100 score.
func ColorTier(score float64) Tier {
	for _, step := range tierLadder {
		if score >= step.min {
			return step.tier
		}
	}
	return tierLadder[len(tierLadder)-1].tier
}

// ConfidenceLabel maps a prediction confidence ordinal to its display
// string. Total: every defined ordinal has a label and anything out of
// range reads as low rather than panicking.
func ConfidenceLabel(c model.Confidence) string {
	switch c {
	case model.ConfidenceHigh:
		return "high"
	case model.ConfidenceMedium:
		return "medium"
	case model.ConfidenceLow:
		return "low"
	default:
		return "low"
	}
}
