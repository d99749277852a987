package repository

import (
	"context"
	"sync"
	"time"

	"github.com/AzielCF/az-content/contentcache/domain"
)

// MemorySharedStore is an in-process ISharedStore.
// Used as fallback when Valkey is not enabled; it is only shared by the caches of this process.
type MemorySharedStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.SharedEntry
	now     func() time.Time
}

// NewMemorySharedStore creates a new in-memory shared store.
func NewMemorySharedStore() *MemorySharedStore {
	return &MemorySharedStore{
		entries: make(map[string]*domain.SharedEntry),
		now:     time.Now,
	}
}

func memoryKey(ns domain.Namespace, key string) string {
	return string(ns) + ":" + key
}

func (s *MemorySharedStore) Get(ctx context.Context, ns domain.Namespace, key string) (*domain.SharedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[memoryKey(ns, key)]
	if !ok || !s.now().Before(entry.ExpiresAt) {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (s *MemorySharedStore) Save(ctx context.Context, entry *domain.SharedEntry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	now := s.now()
	if cp.StoredAt.IsZero() {
		cp.StoredAt = now
	}
	cp.ExpiresAt = now.Add(ttl)
	s.entries[memoryKey(entry.Namespace, entry.Key)] = &cp
	return nil
}

func (s *MemorySharedStore) Delete(ctx context.Context, ns domain.Namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, memoryKey(ns, key))
	return nil
}

func (s *MemorySharedStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(s.entries, key)
		}
	}
	return nil
}
