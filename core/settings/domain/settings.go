package domain

import "context"

// ISettingsRepository persists runtime settings as string key/value pairs.
type ISettingsRepository interface {
	// Get returns "" when the key has never been set.
	Get(ctx context.Context, key string) (string, error)
	// SetMany upserts every pair in one transaction.
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys ...string) error

	// InitSchema creates the necessary tables
	InitSchema(ctx context.Context) error
}

// Keys of the cache settings that can be changed at runtime and survive restarts.
const (
	KeyCacheMaxSize        = "cache_max_size"
	KeyCacheEvictionPolicy = "cache_eviction_policy"
	KeyCacheEnableStats    = "cache_enable_stats"
	KeyCacheEnableWarming  = "cache_enable_warming"
)

// CacheKeys lists every cache setting key.
var CacheKeys = []string{KeyCacheMaxSize, KeyCacheEvictionPolicy, KeyCacheEnableStats, KeyCacheEnableWarming}
