// Package repository defines the session report store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/swinglabs/fourb/internal/domain/model"
)

// SessionRecord is everything the store holds for one session. Stats and
// body metrics arrive from independent upload paths and are replaced
// wholesale by their owners; a re-import recomputes from scratch rather
// than patching in place.
type SessionRecord struct {
	SessionID string

	Stats       *model.SessionStats
	SkippedRows int
	ImportID    string

	Categories   *model.CategoryScores
	Categoricals *model.Categoricals
	Kinematics   *model.KinematicAverages

	UpdatedAt time.Time
}

// Store provides read/write access to computed session state.
type Store interface {
	// UpsertBallStats replaces the batted-ball stats for a session.
	UpsertBallStats(ctx context.Context, sessionID string, stats model.SessionStats, skippedRows int, importID string) error

	// UpsertBodyMetrics replaces the body-derived category scores,
	// categorical signals and kinematic averages for a session.
	UpsertBodyMetrics(ctx context.Context, sessionID string, scores model.CategoryScores, cats model.Categoricals, kin model.KinematicAverages) error

	// Get returns the record for a session.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, sessionID string) (SessionRecord, error)

	// Sessions returns all known session IDs in lexical order.
	Sessions(ctx context.Context) []string

	// Count returns the number of sessions tracked.
	Count(ctx context.Context) int
}
