package domain

import (
	"context"
	"strings"
	"time"
)

// Namespace identifies one of the two independent key spaces of the cache.
type Namespace string

const (
	NamespaceOutline Namespace = "outline"
	NamespaceContent Namespace = "content"
)

// EvictionPolicy selects how capacity overflow is resolved after a write.
type EvictionPolicy string

const (
	EvictionLRU    EvictionPolicy = "lru"
	EvictionTTL    EvictionPolicy = "ttl"
	EvictionHybrid EvictionPolicy = "hybrid"
)

// ParseEvictionPolicy normalizes a policy name. Unknown names report ok=false.
func ParseEvictionPolicy(s string) (EvictionPolicy, bool) {
	switch EvictionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case EvictionLRU:
		return EvictionLRU, true
	case EvictionTTL:
		return EvictionTTL, true
	case EvictionHybrid:
		return EvictionHybrid, true
	}
	return EvictionHybrid, false
}

const (
	DefaultMaxSize       = 1000
	DefaultTTL           = 30 * time.Minute
	OutlineTTL           = 30 * time.Minute
	ContentTTL           = 60 * time.Minute
	WarmingTTL           = 5 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

// Config controls a cache instance. Zero values select the defaults above,
// so stats and warming are on unless explicitly disabled.
type Config struct {
	MaxSize        int
	DefaultTTL     time.Duration
	OutlineTTL     time.Duration
	ContentTTL     time.Duration
	WarmingTTL     time.Duration
	SweepInterval  time.Duration
	DisableStats   bool
	DisableWarming bool
	EvictionPolicy EvictionPolicy
}

// DefaultConfig returns the fully populated default config.
func DefaultConfig() Config {
	return Config{
		MaxSize:        DefaultMaxSize,
		DefaultTTL:     DefaultTTL,
		OutlineTTL:     OutlineTTL,
		ContentTTL:     ContentTTL,
		WarmingTTL:     WarmingTTL,
		SweepInterval:  DefaultSweepInterval,
		EvictionPolicy: EvictionHybrid,
	}
}

func (c Config) StatsEnabled() bool   { return !c.DisableStats }
func (c Config) WarmingEnabled() bool { return !c.DisableWarming }

// Entry is a cached value plus its bookkeeping.
type Entry[T any] struct {
	Data            T         `json:"data"`
	Key             string    `json:"key"`
	CreatedAt       time.Time `json:"created_at"`
	LastAccessedAt  time.Time `json:"last_accessed_at"`
	AccessCount     int64     `json:"access_count"`
	ApproxSizeBytes int64     `json:"approx_size_bytes"`
}

// NamespaceStats breaks the global counters down by namespace.
type NamespaceStats struct {
	Items       int     `json:"items"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	MemoryUsage int64   `json:"memory_usage"`
}

// Stats is a point-in-time snapshot computed on demand.
type Stats struct {
	TotalItems         int                          `json:"total_items"`
	OutlineItems       int                          `json:"outline_items"`
	ContentItems       int                          `json:"content_items"`
	TotalHits          int64                        `json:"total_hits"`
	TotalMisses        int64                        `json:"total_misses"`
	HitRate            float64                      `json:"hit_rate"`
	Evictions          int64                        `json:"evictions"`
	AverageAccessCount float64                      `json:"average_access_count"`
	OldestItem         time.Time                    `json:"oldest_item"`
	NewestItem         time.Time                    `json:"newest_item"`
	MemoryUsage        int64                        `json:"memory_usage"`
	Namespaces         map[Namespace]NamespaceStats `json:"namespaces"`
}

// ServerStats is the snapshot one server publishes for cluster-wide views.
type ServerStats struct {
	ServerID    string    `json:"server_id"`
	Stats       Stats     `json:"stats"`
	PublishedAt time.Time `json:"published_at"`
}

// IStatsStore persists the latest stats snapshot of every server.
type IStatsStore interface {
	Publish(ctx context.Context, snapshot ServerStats) error
	List(ctx context.Context) ([]ServerStats, error)
	Remove(ctx context.Context, serverID string) error
}

// StatsStaleAfter is how old a published snapshot can get before List drops it.
const StatsStaleAfter = 2 * time.Minute

// SharedEntry is a generated value persisted in the shared second tier so
// other servers can reuse it.
type SharedEntry struct {
	Namespace Namespace `json:"namespace"`
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ISharedStore is the cross-server tier behind the in-process cache.
// Get returns nil, nil when the key is absent or expired.
type ISharedStore interface {
	Get(ctx context.Context, ns Namespace, key string) (*SharedEntry, error)
	Save(ctx context.Context, entry *SharedEntry, ttl time.Duration) error
	Delete(ctx context.Context, ns Namespace, key string) error
	Cleanup(ctx context.Context) error
}
