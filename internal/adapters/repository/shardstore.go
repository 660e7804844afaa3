package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/merito/gigscore/internal/domain/model"
	"github.com/merito/gigscore/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount    = 8
	defaultPopulationCap = 10_000
)

// ShardStore implements Store with userID-sharded maps to keep write
// contention low under concurrent rescoring.
type ShardStore struct {
	shardCount int
	shards     []*shard

	popMu         sync.RWMutex
	populations   map[model.Role][]float64
	populationCap int
}

type shard struct {
	mu       sync.RWMutex
	profiles map[string]*record
}

type record struct {
	profile model.UserProfile
	history []float64
}

// NewShardStore creates the store with configuration options.
func NewShardStore(_ context.Context, opts ...Option) *ShardStore {
	s := &ShardStore{
		shardCount:    defaultShardCount,
		populations:   make(map[model.Role][]float64),
		populationCap: defaultPopulationCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{profiles: make(map[string]*record)}
	}
	metrics.UpdateRepositoryShardCount(len(s.shards))
	return s
}

func (s *ShardStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// SaveProfile creates or replaces a profile, keeping existing history.
func (s *ShardStore) SaveProfile(ctx context.Context, p model.UserProfile) error {
	if p.UserID == "" {
		return ErrEmptyUserID
	}
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(p.UserID)
	sh.mu.Lock()
	if existing, ok := sh.profiles[p.UserID]; ok {
		existing.profile = p.Clone()
	} else {
		sh.profiles[p.UserID] = &record{profile: p.Clone(), history: append([]float64(nil), p.HistoryScores...)}
	}
	sh.mu.Unlock()

	metrics.UpdateRepositoryProfiles(s.Count(ctx))
	return nil
}

// Profile returns a copy of the profile with history merged in.
func (s *ShardStore) Profile(_ context.Context, userID string) (model.UserProfile, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.profiles[userID]
	if !ok {
		return model.UserProfile{}, ErrNotFound
	}
	p := rec.profile.Clone()
	p.HistoryScores = append([]float64(nil), rec.history...)
	return p, nil
}

// AppendActivity appends one daily entry to the user's log.
func (s *ShardStore) AppendActivity(_ context.Context, userID string, e model.ActivityLogEntry) error {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	rec.profile.ActivityLog = append(rec.profile.ActivityLog, e)
	return nil
}

// AppendScore records a computed level score chronologically.
func (s *ShardStore) AppendScore(_ context.Context, userID string, score float64) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	rec.history = append(rec.history, score)
	return nil
}

// RecordRawValue adds a normalized raw estimate to the role population,
// evicting the oldest value once the cap is reached.
func (s *ShardStore) RecordRawValue(_ context.Context, role model.Role, value float64) {
	s.popMu.Lock()
	defer s.popMu.Unlock()

	pop := s.populations[role]
	if len(pop) >= s.populationCap {
		pop = pop[1:]
	}
	s.populations[role] = append(pop, value)
}

// RawValues returns a copy of the role's percentile population.
func (s *ShardStore) RawValues(_ context.Context, role model.Role) []float64 {
	s.popMu.RLock()
	defer s.popMu.RUnlock()
	return append([]float64(nil), s.populations[role]...)
}

// PeersByRole returns copies of every profile with the given role.
func (s *ShardStore) PeersByRole(_ context.Context, role model.Role) []model.UserProfile {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var peers []model.UserProfile
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, rec := range sh.profiles {
			if rec.profile.Role == role {
				p := rec.profile.Clone()
				p.HistoryScores = append([]float64(nil), rec.history...)
				peers = append(peers, p)
			}
		}
		sh.mu.RUnlock()
	}
	return peers
}

// Count returns the number of stored profiles.
func (s *ShardStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.profiles)
		sh.mu.RUnlock()
	}
	return total
}
