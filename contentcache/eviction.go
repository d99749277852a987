package contentcache

import (
	"sort"
	"time"

	"github.com/AzielCF/az-content/contentcache/domain"
	"github.com/sirupsen/logrus"
)

// enforceCapacityLocked brings the combined item count back under MaxSize
// according to the configured policy. The ttl policy only drops expired
// entries and may leave the cache over capacity.
func (c *core) enforceCapacityLocked(now time.Time) {
	overflow := c.totalLocked() - c.cfg.MaxSize
	if overflow <= 0 {
		return
	}

	var removed int
	switch c.cfg.EvictionPolicy {
	case domain.EvictionTTL:
		removed = c.purgeExpiredLocked(now)
	case domain.EvictionLRU:
		removed = c.evictLRULocked(overflow)
	default:
		removed = c.purgeExpiredLocked(now)
		if remaining := c.totalLocked() - c.cfg.MaxSize; remaining > 0 {
			removed += c.evictLRULocked(remaining)
		}
	}

	logrus.WithFields(logrus.Fields{
		"policy":   c.cfg.EvictionPolicy,
		"overflow": overflow,
		"removed":  removed,
	}).Debug("[CONTENT_CACHE] Capacity enforced")
}

// purgeExpiredLocked drops every entry past its namespace TTL.
func (c *core) purgeExpiredLocked(now time.Time) int {
	removed := 0
	for _, s := range c.stores {
		for _, key := range s.expiredKeys(now) {
			c.dropLocked(s, key)
			removed++
		}
	}
	return removed
}

// evictLRULocked drops the n least recently accessed entries across all namespaces.
func (c *core) evictLRULocked(n int) int {
	var all []victim
	for _, s := range c.stores {
		all = append(all, s.candidates()...)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].lastAccessedAt.Equal(all[j].lastAccessedAt) {
			return all[i].lastAccessedAt.Before(all[j].lastAccessedAt)
		}
		return all[i].seq < all[j].seq
	})

	if n > len(all) {
		n = len(all)
	}
	for _, v := range all[:n] {
		c.dropLocked(v.ns, v.key)
	}
	return n
}
