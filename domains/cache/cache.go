package cache

import (
	"context"
	"time"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/seo"
)

// IContentCache is the in-process outline/content cache as seen by usecases.
type IContentCache interface {
	Config() cacheDomain.Config

	GetOutline(key string) (cacheDomain.Outline, bool)
	SetOutline(key string, v cacheDomain.Outline) bool
	WarmOutline(key string, v cacheDomain.Outline) bool
	RemoveOutline(key string) bool
	HasOutline(key string) bool
	OutlineKeys() []string
	OutlineEntry(key string) (cacheDomain.Entry[cacheDomain.Outline], bool)

	GetContent(key string) (cacheDomain.Content, bool)
	SetContent(key string, v cacheDomain.Content) bool
	WarmContent(key string, v cacheDomain.Content) bool
	RemoveContent(key string) bool
	HasContent(key string) bool
	ContentKeys() []string
	ContentEntry(key string) (cacheDomain.Entry[cacheDomain.Content], bool)

	Clear()
	PurgeExpired() int
	Stats() cacheDomain.Stats
}

type StatsResponse struct {
	cacheDomain.Stats
	ServerID       string `json:"server_id"`
	MaxSize        int    `json:"max_size"`
	EvictionPolicy string `json:"eviction_policy"`
	HumanMemory    string `json:"human_memory"`
}

type ServerSummary struct {
	ServerID    string    `json:"server_id"`
	TotalItems  int       `json:"total_items"`
	HitRate     float64   `json:"hit_rate"`
	Evictions   int64     `json:"evictions"`
	HumanMemory string    `json:"human_memory"`
	PublishedAt time.Time `json:"published_at"`
}

type ClusterStats struct {
	Servers     []ServerSummary `json:"servers"`
	TotalItems  int             `json:"total_items"`
	TotalHits   int64           `json:"total_hits"`
	TotalMisses int64           `json:"total_misses"`
	HitRate     float64         `json:"hit_rate"`
	Evictions   int64           `json:"evictions"`
	MemoryUsage int64           `json:"memory_usage"`
	HumanMemory string          `json:"human_memory"`
}

// EntryView is a cached value plus its bookkeeping, read without touching
// access counters.
type EntryView[T any] struct {
	Key            string    `json:"key"`
	Data           T         `json:"data"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	AccessCount    int64     `json:"access_count"`
	SizeBytes      int64     `json:"size_bytes"`
	HumanSize      string    `json:"human_size"`
}

// CacheSettings are the tunables an operator can persist.
type CacheSettings struct {
	MaxSize        int    `json:"max_size"`
	EvictionPolicy string `json:"eviction_policy"`
	EnableStats    bool   `json:"enable_stats"`
	EnableWarming  bool   `json:"enable_warming"`
}

type SettingsView struct {
	Active          CacheSettings `json:"active"`
	Saved           CacheSettings `json:"saved"`
	RestartRequired bool          `json:"restart_required"`
}

type ICacheUsecase interface {
	GetStats(ctx context.Context) (StatsResponse, error)
	GetClusterStats(ctx context.Context) (ClusterStats, error)
	Clear(ctx context.Context) error
	PurgeExpired(ctx context.Context) (int, error)

	GetOutline(ctx context.Context, key string) (EntryView[cacheDomain.Outline], error)
	SetOutline(ctx context.Context, key string, outline cacheDomain.Outline) error
	WarmOutline(ctx context.Context, key string, outline cacheDomain.Outline) error
	RemoveOutline(ctx context.Context, key string) error
	HasOutline(ctx context.Context, key string) bool
	ListOutlines(ctx context.Context) []string

	GetContent(ctx context.Context, key string) (EntryView[cacheDomain.Content], error)
	SetContent(ctx context.Context, key string, content cacheDomain.Content) error
	WarmContent(ctx context.Context, key string, content cacheDomain.Content) error
	RemoveContent(ctx context.Context, key string) error
	HasContent(ctx context.Context, key string) bool
	ListContents(ctx context.Context) []string
	ScoreContent(ctx context.Context, key, keyword string) (seo.Report, error)

	GetSettings(ctx context.Context) (SettingsView, error)
	SaveSettings(ctx context.Context, settings CacheSettings) (SettingsView, error)

	// OnSnapshot registers fn to receive every stats snapshot the reporter publishes.
	OnSnapshot(fn func(cacheDomain.ServerStats))
	StartStatsReporter(ctx context.Context)
}
