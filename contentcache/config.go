package contentcache

import (
	"github.com/AzielCF/az-content/contentcache/domain"
	coreconfig "github.com/AzielCF/az-content/core/config"
	"github.com/sirupsen/logrus"
)

// ConfigFrom maps the application cache settings to a cache Config.
func ConfigFrom(cfg coreconfig.CacheConfig) domain.Config {
	return domain.Config{
		MaxSize:        cfg.MaxSize,
		DefaultTTL:     cfg.DefaultTTL,
		OutlineTTL:     cfg.OutlineTTL,
		ContentTTL:     cfg.ContentTTL,
		WarmingTTL:     cfg.WarmingTTL,
		SweepInterval:  cfg.SweepInterval,
		DisableStats:   !cfg.EnableStats,
		DisableWarming: !cfg.EnableWarming,
		EvictionPolicy: domain.EvictionPolicy(cfg.EvictionPolicy),
	}
}

// normalizeConfig fills zero durations and sizes with defaults and resolves the policy.
func normalizeConfig(cfg domain.Config) domain.Config {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = domain.DefaultMaxSize
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = domain.DefaultTTL
	}
	if cfg.OutlineTTL <= 0 {
		cfg.OutlineTTL = domain.OutlineTTL
	}
	if cfg.ContentTTL <= 0 {
		cfg.ContentTTL = domain.ContentTTL
	}
	if cfg.WarmingTTL <= 0 {
		cfg.WarmingTTL = domain.WarmingTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = domain.DefaultSweepInterval
	}

	policy, ok := domain.ParseEvictionPolicy(string(cfg.EvictionPolicy))
	if !ok && cfg.EvictionPolicy != "" {
		logrus.Warnf("[CONTENT_CACHE] Unknown eviction policy %q, falling back to %s", cfg.EvictionPolicy, policy)
	}
	cfg.EvictionPolicy = policy
	return cfg
}
