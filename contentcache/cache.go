package contentcache

import (
	"context"
	"sync"

	"github.com/AzielCF/az-content/contentcache/domain"
	"github.com/sirupsen/logrus"
)

type warmKey struct {
	ns  domain.Namespace
	key string
}

type warmCheck struct {
	timer Timer
	owner any
}

// core is the type-independent half of a cache: lock, counters, timers and sweep.
type core struct {
	mu        sync.Mutex
	cfg       domain.Config
	clock     Clock
	stores    []store
	evictions int64
	seq       uint64
	warming   map[warmKey]warmCheck

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Cache holds outlines of type O and content of type C in two namespaces that
// share one capacity budget.
type Cache[O, C any] struct {
	core
	outlines *namespace[O]
	contents *namespace[C]
}

// ContentCache is the cache specialised to the generator's outline and content types.
type ContentCache = Cache[domain.Outline, domain.Content]

// Option customises a cache at construction.
type Option func(*options)

type options struct {
	clock Clock
	ctx   context.Context
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithContext ties the background sweep to ctx in addition to Close.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// New builds a cache and starts its periodic sweep. Call Close to stop it.
func New[O, C any](cfg domain.Config, outlineValidator domain.Validator[O], contentValidator domain.Validator[C], opts ...Option) *Cache[O, C] {
	o := options{clock: systemClock{}, ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg = normalizeConfig(cfg)

	c := &Cache[O, C]{
		outlines: newNamespace(domain.NamespaceOutline, cfg.OutlineTTL, outlineValidator),
		contents: newNamespace(domain.NamespaceContent, cfg.ContentTTL, contentValidator),
	}
	c.cfg = cfg
	c.clock = o.clock
	c.stores = []store{c.outlines, c.contents}
	c.warming = make(map[warmKey]warmCheck)
	c.startSweep(o.ctx)

	logrus.Infof("[CONTENT_CACHE] Started (max_size=%d, policy=%s, outline_ttl=%s, content_ttl=%s)",
		cfg.MaxSize, cfg.EvictionPolicy, cfg.OutlineTTL, cfg.ContentTTL)
	return c
}

// NewContentCache builds a cache for domain.Outline and domain.Content.
func NewContentCache(cfg domain.Config, opts ...Option) *ContentCache {
	return New(cfg, domain.OutlineValidator, domain.ContentValidator, opts...)
}

// Config returns the normalized configuration in effect.
func (c *core) Config() domain.Config {
	return c.cfg
}

func (c *Cache[O, C]) GetOutline(key string) (O, bool) {
	return get(&c.core, c.outlines, key)
}

func (c *Cache[O, C]) GetContent(key string) (C, bool) {
	return get(&c.core, c.contents, key)
}

// SetOutline stores v under key. It reports false when v fails validation.
func (c *Cache[O, C]) SetOutline(key string, v O) bool {
	return set(&c.core, c.outlines, key, v, false)
}

// SetContent stores v under key. It reports false when v fails validation.
func (c *Cache[O, C]) SetContent(key string, v C) bool {
	return set(&c.core, c.contents, key, v, false)
}

// WarmOutline stores a speculative outline that is dropped after the warming
// window unless something reads it first.
func (c *Cache[O, C]) WarmOutline(key string, v O) bool {
	if !c.cfg.WarmingEnabled() {
		return false
	}
	return set(&c.core, c.outlines, key, v, true)
}

// WarmContent is WarmOutline for the content namespace.
func (c *Cache[O, C]) WarmContent(key string, v C) bool {
	if !c.cfg.WarmingEnabled() {
		return false
	}
	return set(&c.core, c.contents, key, v, true)
}

func (c *Cache[O, C]) RemoveOutline(key string) bool {
	return c.remove(c.outlines, key)
}

func (c *Cache[O, C]) RemoveContent(key string) bool {
	return c.remove(c.contents, key)
}

// HasOutline reports whether an unexpired outline is stored. It does not touch the entry.
func (c *Cache[O, C]) HasOutline(key string) bool {
	return has(&c.core, c.outlines, key)
}

// HasContent reports whether unexpired content is stored. It does not touch the entry.
func (c *Cache[O, C]) HasContent(key string) bool {
	return has(&c.core, c.contents, key)
}

func (c *Cache[O, C]) OutlineKeys() []string {
	return c.keys(c.outlines)
}

func (c *Cache[O, C]) ContentKeys() []string {
	return c.keys(c.contents)
}

// OutlineEntry returns a copy of the stored entry without counting a lookup.
func (c *Cache[O, C]) OutlineEntry(key string) (domain.Entry[O], bool) {
	return peek(&c.core, c.outlines, key)
}

// ContentEntry returns a copy of the stored entry without counting a lookup.
func (c *Cache[O, C]) ContentEntry(key string) (domain.Entry[C], bool) {
	return peek(&c.core, c.contents, key)
}

func get[T any](c *core, ns *namespace[T], key string) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	it, ok := ns.items[key]
	if !ok {
		c.recordLookup(ns, false)
		return zero, false
	}
	if ns.expired(it, now) {
		c.dropLocked(ns, key)
		c.recordLookup(ns, false)
		return zero, false
	}
	if err := ns.validator.Validate(it.Data); err != nil {
		logrus.WithError(err).Warnf("[CONTENT_CACHE] Evicting invalid %s entry %q", ns.name, key)
		c.dropLocked(ns, key)
		c.recordLookup(ns, false)
		return zero, false
	}

	c.seq++
	it.seq = c.seq
	it.AccessCount++
	it.LastAccessedAt = now
	c.recordLookup(ns, true)
	return it.Data, true
}

func set[T any](c *core, ns *namespace[T], key string, v T, warm bool) bool {
	if err := ns.validator.Validate(v); err != nil {
		logrus.WithError(err).Errorf("[CONTENT_CACHE] Refusing to cache invalid %s %q", ns.name, key)
		return false
	}
	size := approxSize(v)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.cancelWarmLocked(ns.name, key)
	c.seq++
	it := &item[T]{
		Entry: domain.Entry[T]{
			Data:            v,
			Key:             key,
			CreatedAt:       now,
			LastAccessedAt:  now,
			ApproxSizeBytes: size,
		},
		seq: c.seq,
	}
	ns.items[key] = it

	c.enforceCapacityLocked(now)

	if warm && ns.items[key] == it {
		scheduleWarmCheck(c, ns, key, it)
	}
	return true
}

func has[T any](c *core, ns *namespace[T], key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := ns.items[key]
	return ok && !ns.expired(it, c.clock.Now())
}

func peek[T any](c *core, ns *namespace[T], key string) (domain.Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := ns.items[key]
	if !ok || ns.expired(it, c.clock.Now()) {
		return domain.Entry[T]{}, false
	}
	return it.Entry, true
}

// scheduleWarmCheck evicts it after the warming window if it is still the
// stored entry for key and has never been read. Callers hold the lock.
func scheduleWarmCheck[T any](c *core, ns *namespace[T], key string, it *item[T]) {
	wk := warmKey{ns: ns.name, key: key}
	t := c.clock.AfterFunc(c.cfg.WarmingTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if w, ok := c.warming[wk]; ok && w.owner == any(it) {
			delete(c.warming, wk)
		}
		cur, ok := ns.items[key]
		if !ok || cur != it || cur.AccessCount > 0 {
			return
		}
		delete(ns.items, key)
		c.evictions++
		logrus.Debugf("[CONTENT_CACHE] Warmed %s entry %q was never read, evicted", ns.name, key)
	})
	c.warming[wk] = warmCheck{timer: t, owner: it}
}

func (c *core) recordLookup(s store, hit bool) {
	if !c.cfg.StatsEnabled() {
		return
	}
	s.countLookup(hit)
}

func (c *core) remove(s store, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelWarmLocked(s.namespace(), key)
	return s.remove(key)
}

func (c *core) keys(s store) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return s.keys()
}

// dropLocked removes key from s as an eviction.
func (c *core) dropLocked(s store, key string) {
	if s.remove(key) {
		c.evictions++
	}
	c.cancelWarmLocked(s.namespace(), key)
}

func (c *core) cancelWarmLocked(ns domain.Namespace, key string) {
	wk := warmKey{ns: ns, key: key}
	if w, ok := c.warming[wk]; ok {
		w.timer.Stop()
		delete(c.warming, wk)
	}
}

func (c *core) totalLocked() int {
	total := 0
	for _, s := range c.stores {
		total += s.size()
	}
	return total
}

// Clear empties both namespaces and resets every counter. The sweep keeps running.
func (c *core) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for wk, w := range c.warming {
		w.timer.Stop()
		delete(c.warming, wk)
	}
	for _, s := range c.stores {
		s.reset()
	}
	c.evictions = 0
	logrus.Info("[CONTENT_CACHE] Cleared")
}

// Stats computes a snapshot of the counters and stored entries.
func (c *core) Stats() domain.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	st := domain.Stats{
		Evictions:  c.evictions,
		Namespaces: make(map[domain.Namespace]domain.NamespaceStats, len(c.stores)),
	}

	var accessSum int64
	for _, s := range c.stores {
		a := s.aggregate()
		st.TotalItems += a.items
		st.TotalHits += a.hits
		st.TotalMisses += a.misses
		st.MemoryUsage += a.memory
		accessSum += a.accessSum
		if a.items > 0 {
			if st.OldestItem.IsZero() || a.oldest.Before(st.OldestItem) {
				st.OldestItem = a.oldest
			}
			if st.NewestItem.IsZero() || a.newest.After(st.NewestItem) {
				st.NewestItem = a.newest
			}
		}
		st.Namespaces[s.namespace()] = domain.NamespaceStats{
			Items:       a.items,
			Hits:        a.hits,
			Misses:      a.misses,
			HitRate:     hitRate(a.hits, a.misses),
			MemoryUsage: a.memory,
		}
	}

	st.OutlineItems = st.Namespaces[domain.NamespaceOutline].Items
	st.ContentItems = st.Namespaces[domain.NamespaceContent].Items
	st.HitRate = hitRate(st.TotalHits, st.TotalMisses)
	if st.TotalItems == 0 {
		st.OldestItem = now
		st.NewestItem = now
	} else {
		st.AverageAccessCount = float64(accessSum) / float64(st.TotalItems)
	}
	return st
}

func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
