package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AzielCF/az-content/contentcache/domain"
)

// MemoryStatsStore implements domain.IStatsStore for a single node.
type MemoryStatsStore struct {
	mu      sync.RWMutex
	servers map[string]domain.ServerStats
	now     func() time.Time
}

// NewMemoryStatsStore creates a new MemoryStatsStore instance.
func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{
		servers: make(map[string]domain.ServerStats),
		now:     time.Now,
	}
}

func (s *MemoryStatsStore) Publish(ctx context.Context, snapshot domain.ServerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.PublishedAt.IsZero() {
		snapshot.PublishedAt = s.now()
	}
	s.servers[snapshot.ServerID] = snapshot
	return nil
}

// List returns the snapshots published within domain.StatsStaleAfter, ordered by server ID.
func (s *MemoryStatsStore) List(ctx context.Context) ([]domain.ServerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]domain.ServerStats, 0, len(s.servers))
	for _, snap := range s.servers {
		if now.Sub(snap.PublishedAt) < domain.StatsStaleAfter {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServerID < out[j].ServerID })
	return out, nil
}

func (s *MemoryStatsStore) Remove(ctx context.Context, serverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.servers, serverID)
	return nil
}
