package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"

	"github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/infrastructure/valkey"
)

// ValkeySharedStore implements domain.ISharedStore using Valkey string keys with native TTL.
type ValkeySharedStore struct {
	client *valkey.Client
	prefix string
}

// NewValkeySharedStore creates a new ValkeySharedStore instance.
func NewValkeySharedStore(client *valkey.Client) *ValkeySharedStore {
	return &ValkeySharedStore{
		client: client,
		prefix: client.Key("content_cache", "shared") + ":",
	}
}

func (s *ValkeySharedStore) fullKey(ns domain.Namespace, key string) string {
	return s.prefix + string(ns) + ":" + key
}

func (s *ValkeySharedStore) inner() valkeylib.Client {
	return s.client.Inner()
}

// Get retrieves an entry. Expired entries are already gone on the server side.
func (s *ValkeySharedStore) Get(ctx context.Context, ns domain.Namespace, key string) (*domain.SharedEntry, error) {
	cmd := s.inner().B().Get().Key(s.fullKey(ns, key)).Build()

	data, err := s.inner().Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shared entry: %w", err)
	}

	var entry domain.SharedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shared entry: %w", err)
	}
	return &entry, nil
}

// Save stores an entry with the given TTL.
func (s *ValkeySharedStore) Save(ctx context.Context, entry *domain.SharedEntry, ttl time.Duration) error {
	now := time.Now()
	cp := *entry
	if cp.StoredAt.IsZero() {
		cp.StoredAt = now
	}
	cp.ExpiresAt = now.Add(ttl)

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal shared entry: %w", err)
	}

	cmd := s.inner().B().Set().
		Key(s.fullKey(cp.Namespace, cp.Key)).
		Value(string(data)).
		Ex(ttl).
		Build()

	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save shared entry: %w", err)
	}
	return nil
}

// Delete removes an entry.
func (s *ValkeySharedStore) Delete(ctx context.Context, ns domain.Namespace, key string) error {
	cmd := s.inner().B().Del().Key(s.fullKey(ns, key)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to delete shared entry: %w", err)
	}
	return nil
}

// Cleanup is a no-op for Valkey since expiration is handled by TTL.
func (s *ValkeySharedStore) Cleanup(ctx context.Context) error {
	return nil
}
