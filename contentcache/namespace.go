package contentcache

import (
	"time"

	"github.com/AzielCF/az-content/contentcache/domain"
)

type item[T any] struct {
	domain.Entry[T]
	seq uint64
}

// namespace is one key space with its own TTL, validator and lookup counters.
// Callers hold the cache lock.
type namespace[T any] struct {
	name      domain.Namespace
	ttl       time.Duration
	validator domain.Validator[T]
	items     map[string]*item[T]
	hits      int64
	misses    int64
}

func newNamespace[T any](name domain.Namespace, ttl time.Duration, v domain.Validator[T]) *namespace[T] {
	return &namespace[T]{
		name:      name,
		ttl:       ttl,
		validator: v,
		items:     make(map[string]*item[T]),
	}
}

// victim is an eviction candidate, independent of the namespace value type.
type victim struct {
	ns             store
	key            string
	lastAccessedAt time.Time
	seq            uint64
}

type aggregate struct {
	items     int
	accessSum int64
	memory    int64
	oldest    time.Time
	newest    time.Time
	hits      int64
	misses    int64
}

// store is the type-erased view of a namespace used by eviction and stats.
type store interface {
	namespace() domain.Namespace
	size() int
	remove(key string) bool
	expiredKeys(now time.Time) []string
	candidates() []victim
	keys() []string
	aggregate() aggregate
	countLookup(hit bool)
	reset()
}

func (n *namespace[T]) namespace() domain.Namespace { return n.name }

func (n *namespace[T]) size() int { return len(n.items) }

func (n *namespace[T]) expired(it *item[T], now time.Time) bool {
	return now.Sub(it.CreatedAt) >= n.ttl
}

func (n *namespace[T]) remove(key string) bool {
	if _, ok := n.items[key]; !ok {
		return false
	}
	delete(n.items, key)
	return true
}

func (n *namespace[T]) expiredKeys(now time.Time) []string {
	var out []string
	for k, it := range n.items {
		if n.expired(it, now) {
			out = append(out, k)
		}
	}
	return out
}

func (n *namespace[T]) candidates() []victim {
	out := make([]victim, 0, len(n.items))
	for k, it := range n.items {
		out = append(out, victim{ns: n, key: k, lastAccessedAt: it.LastAccessedAt, seq: it.seq})
	}
	return out
}

func (n *namespace[T]) keys() []string {
	out := make([]string, 0, len(n.items))
	for k := range n.items {
		out = append(out, k)
	}
	return out
}

func (n *namespace[T]) aggregate() aggregate {
	a := aggregate{items: len(n.items), hits: n.hits, misses: n.misses}
	for _, it := range n.items {
		a.accessSum += it.AccessCount
		a.memory += it.ApproxSizeBytes
		if a.oldest.IsZero() || it.CreatedAt.Before(a.oldest) {
			a.oldest = it.CreatedAt
		}
		if a.newest.IsZero() || it.CreatedAt.After(a.newest) {
			a.newest = it.CreatedAt
		}
	}
	return a
}

func (n *namespace[T]) countLookup(hit bool) {
	if hit {
		n.hits++
	} else {
		n.misses++
	}
}

func (n *namespace[T]) reset() {
	n.items = make(map[string]*item[T])
	n.hits = 0
	n.misses = 0
}
