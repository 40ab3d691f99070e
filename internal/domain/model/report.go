package model

import "encoding/json"

// Section is a tagged {Present | Absent} variant used for report assembly.
// Consumers check Present instead of shape-sniffing the payload, so an
// absent section always renders as "no data".
type Section[T any] struct {
	Present bool
	Data    T
}

// SomeSection wraps data in a present section.
func SomeSection[T any](data T) Section[T] {
	return Section[T]{Present: true, Data: data}
}

// NoSection returns an absent section.
func NoSection[T any]() Section[T] {
	return Section[T]{}
}

// MarshalJSON renders an absent section as null and a present one as its
// payload, keeping the wire shape stable for the report layer.
func (s Section[T]) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	return json.Marshal(s.Data)
}

// UnmarshalJSON treats null as absent and any payload as present.
func (s *Section[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Section[T]{}
		return nil
	}
	var data T
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	*s = Section[T]{Present: true, Data: data}
	return nil
}

// Categoricals carries the first-non-nil categorical signals picked from a
// session's biomechanical samples, in upload order.
type Categoricals struct {
	ConsistencyGrade *string `json:"consistency_grade,omitempty"`
	MotorProfile     *string `json:"motor_profile,omitempty"`
	LeakDetected     *string `json:"leak_detected,omitempty"`
	PriorityDrill    *string `json:"priority_drill,omitempty"`
	WeakestLink      *string `json:"weakest_link,omitempty"`
}

// SessionReport is the assembled per-session output handed to the report
// and display layer. The Ball section holds measured batted-ball stats when
// a vendor export was imported; PredictedBall is filled instead when only
// body-sensor data exists and is always labeled as a prediction.
type SessionReport struct {
	SessionID string `json:"session_id"`

	Ball          Section[SessionStats]         `json:"ball"`
	Categories    Section[CategoryScores]       `json:"categories"`
	Categoricals  Section[Categoricals]         `json:"categoricals"`
	PredictedBall Section[BallFlightPrediction] `json:"predicted_ball"`

	// SkippedRows counts vendor rows dropped during parsing, surfaced as a
	// warning rather than a failure.
	SkippedRows int `json:"skipped_rows"`
}
