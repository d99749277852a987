package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/infrastructure/valkey"
)

// ValkeyStatsStore implements domain.IStatsStore using a Valkey hash.
// It gives every node a cluster-wide view of cache health.
type ValkeyStatsStore struct {
	client *valkey.Client
	key    string
}

// NewValkeyStatsStore creates a new ValkeyStatsStore instance.
func NewValkeyStatsStore(client *valkey.Client) *ValkeyStatsStore {
	return &ValkeyStatsStore{
		client: client,
		key:    client.Key("content_cache", "stats"),
	}
}

// Publish stores the snapshot of one server under its ID.
func (s *ValkeyStatsStore) Publish(ctx context.Context, snapshot domain.ServerStats) error {
	if snapshot.PublishedAt.IsZero() {
		snapshot.PublishedAt = time.Now()
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	cmd := s.client.Inner().B().Hset().
		Key(s.key).
		FieldValue().
		FieldValue(snapshot.ServerID, string(data)).
		Build()

	return s.client.Inner().Do(ctx, cmd).Error()
}

// List returns the snapshots of servers that published recently.
func (s *ValkeyStatsStore) List(ctx context.Context) ([]domain.ServerStats, error) {
	cmd := s.client.Inner().B().Hgetall().Key(s.key).Build()
	entries, err := s.client.Inner().Do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]domain.ServerStats, 0, len(entries))
	for field, val := range entries {
		var snap domain.ServerStats
		if err := json.Unmarshal([]byte(val), &snap); err != nil {
			logrus.Warnf("[CONTENT_CACHE] Ignoring unreadable stats snapshot for %s: %v", field, err)
			continue
		}
		if now.Sub(snap.PublishedAt) < domain.StatsStaleAfter {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServerID < out[j].ServerID })
	return out, nil
}

// Remove deletes the snapshot of a server, typically on shutdown.
func (s *ValkeyStatsStore) Remove(ctx context.Context, serverID string) error {
	cmd := s.client.Inner().B().Hdel().Key(s.key).Field(serverID).Build()
	return s.client.Inner().Do(ctx, cmd).Error()
}
