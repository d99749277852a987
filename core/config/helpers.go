package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetAllSettings returns the effective runtime settings for display.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"cache_max_size":        Global.Cache.MaxSize,
		"cache_eviction_policy": Global.Cache.EvictionPolicy,
		"cache_enable_stats":    Global.Cache.EnableStats,
		"cache_enable_warming":  Global.Cache.EnableWarming,
		"cache_outline_ttl":     Global.Cache.OutlineTTL.String(),
		"cache_content_ttl":     Global.Cache.ContentTTL.String(),
		"cache_warming_ttl":     Global.Cache.WarmingTTL.String(),
		"generator_provider":    Global.Generator.Provider,
		"valkey_enabled":        Global.Valkey.Enabled,
		"app_debug":             Global.App.Debug,
		"app_version":           Global.App.Version,
	}
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s", "30m") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
