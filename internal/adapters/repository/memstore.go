// Package repository defines the session report store interface and errors.
package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/swinglabs/fourb/internal/domain/model"
	"github.com/swinglabs/fourb/pkg/metrics"
)

const defaultShardCount = 8

// MemStore is a sharded in-memory Store. Sharding keeps write contention
// low when many workers land imports for different sessions at once.
type MemStore struct {
	shards     []*shard
	shardCount int
	now        func() time.Time
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]SessionRecord
}

// NewMemStore creates an in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		shardCount: defaultShardCount,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]SessionRecord)}
	}
	return s
}

// UpsertBallStats replaces the batted-ball stats for a session.
func (s *MemStore) UpsertBallStats(_ context.Context, sessionID string, stats model.SessionStats, skippedRows int, importID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSessionID
	}
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	rec := sh.sessions[sessionID]
	rec.SessionID = sessionID
	rec.Stats = &stats
	rec.SkippedRows = skippedRows
	rec.ImportID = importID
	rec.UpdatedAt = s.now()
	sh.sessions[sessionID] = rec
	sh.mu.Unlock()

	metrics.UpdateStoredReports(s.Count(context.Background()))
	return nil
}

// UpsertBodyMetrics replaces the body-derived scores for a session.
func (s *MemStore) UpsertBodyMetrics(_ context.Context, sessionID string, scores model.CategoryScores, cats model.Categoricals, kin model.KinematicAverages) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSessionID
	}
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	rec := sh.sessions[sessionID]
	rec.SessionID = sessionID
	rec.Categories = &scores
	rec.Categoricals = &cats
	rec.Kinematics = &kin
	rec.UpdatedAt = s.now()
	sh.sessions[sessionID] = rec
	sh.mu.Unlock()

	metrics.UpdateStoredReports(s.Count(context.Background()))
	return nil
}

// Get returns the record for a session.
func (s *MemStore) Get(_ context.Context, sessionID string) (SessionRecord, error) {
	sh := s.shardFor(sessionID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.sessions[sessionID]
	if !ok {
		return SessionRecord{}, ErrNotFound
	}
	return rec, nil
}

// Sessions returns all known session IDs in lexical order.
func (s *MemStore) Sessions(_ context.Context) []string {
	var ids []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id := range sh.sessions {
			ids = append(ids, id)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of sessions tracked.
func (s *MemStore) Count(_ context.Context) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return n
}

func (s *MemStore) shardFor(sessionID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return s.shards[int(h.Sum32())%s.shardCount]
}
