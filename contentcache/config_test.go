package contentcache

import (
	"testing"

	coreconfig "github.com/AzielCF/az-content/core/config"
	"github.com/stretchr/testify/assert"
)

func TestConfigFrom_MapsToggles(t *testing.T) {
	cfg := ConfigFrom(coreconfig.CacheConfig{EnableStats: true, EnableWarming: false, EvictionPolicy: "lru"})

	assert.True(t, cfg.StatsEnabled())
	assert.False(t, cfg.WarmingEnabled())
	assert.Equal(t, "lru", string(cfg.EvictionPolicy))
}
