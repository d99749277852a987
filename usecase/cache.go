package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	settingsApp "github.com/AzielCF/az-content/core/settings/application"
	domainCache "github.com/AzielCF/az-content/domains/cache"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/AzielCF/az-content/seo"
	"github.com/AzielCF/az-content/validations"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// cacheSettingsStore is the part of the settings service the cache usecase needs.
type cacheSettingsStore interface {
	GetCacheSettings(ctx context.Context) (*settingsApp.CacheSettings, error)
	SaveCacheSettings(ctx context.Context, cs settingsApp.CacheSettings) error
}

type cacheService struct {
	cache    domainCache.IContentCache
	stats    cacheDomain.IStatsStore
	shared   cacheDomain.ISharedStore
	settings cacheSettingsStore
	serverID string
	interval time.Duration

	listenersMu sync.RWMutex
	listeners   []func(cacheDomain.ServerStats)
}

// NewCacheService wires the cache usecase. shared and settings may be nil.
func NewCacheService(
	cache domainCache.IContentCache,
	stats cacheDomain.IStatsStore,
	shared cacheDomain.ISharedStore,
	settings cacheSettingsStore,
	serverID string,
	reportInterval time.Duration,
) domainCache.ICacheUsecase {
	if reportInterval <= 0 {
		reportInterval = 15 * time.Second
	}
	return &cacheService{
		cache:    cache,
		stats:    stats,
		shared:   shared,
		settings: settings,
		serverID: serverID,
		interval: reportInterval,
	}
}

func (s *cacheService) GetStats(ctx context.Context) (domainCache.StatsResponse, error) {
	cfg := s.cache.Config()
	st := s.cache.Stats()
	return domainCache.StatsResponse{
		Stats:          st,
		ServerID:       s.serverID,
		MaxSize:        cfg.MaxSize,
		EvictionPolicy: string(cfg.EvictionPolicy),
		HumanMemory:    humanize.Bytes(uint64(st.MemoryUsage)),
	}, nil
}

func (s *cacheService) GetClusterStats(ctx context.Context) (domainCache.ClusterStats, error) {
	snapshots, err := s.stats.List(ctx)
	if err != nil {
		return domainCache.ClusterStats{}, pkgError.InternalServerError(fmt.Sprintf("failed to list cluster stats: %v", err))
	}

	// The local server always counts, even before its first report.
	found := false
	for _, snap := range snapshots {
		if snap.ServerID == s.serverID {
			found = true
			break
		}
	}
	if !found {
		snapshots = append(snapshots, s.snapshot())
	}

	var cluster domainCache.ClusterStats
	for _, snap := range snapshots {
		st := snap.Stats
		cluster.Servers = append(cluster.Servers, domainCache.ServerSummary{
			ServerID:    snap.ServerID,
			TotalItems:  st.TotalItems,
			HitRate:     st.HitRate,
			Evictions:   st.Evictions,
			HumanMemory: humanize.Bytes(uint64(st.MemoryUsage)),
			PublishedAt: snap.PublishedAt,
		})
		cluster.TotalItems += st.TotalItems
		cluster.TotalHits += st.TotalHits
		cluster.TotalMisses += st.TotalMisses
		cluster.Evictions += st.Evictions
		cluster.MemoryUsage += st.MemoryUsage
	}
	sort.Slice(cluster.Servers, func(i, j int) bool {
		return cluster.Servers[i].ServerID < cluster.Servers[j].ServerID
	})
	if total := cluster.TotalHits + cluster.TotalMisses; total > 0 {
		cluster.HitRate = float64(cluster.TotalHits) / float64(total)
	}
	cluster.HumanMemory = humanize.Bytes(uint64(cluster.MemoryUsage))
	return cluster, nil
}

func (s *cacheService) Clear(ctx context.Context) error {
	s.cache.Clear()
	logrus.Infof("[CACHE] Cache cleared on server %s", s.serverID)
	return nil
}

func (s *cacheService) PurgeExpired(ctx context.Context) (int, error) {
	n := s.cache.PurgeExpired()
	if s.shared != nil {
		if err := s.shared.Cleanup(ctx); err != nil {
			logrus.WithError(err).Warn("[CACHE] Shared tier cleanup failed")
		}
	}
	return n, nil
}

func (s *cacheService) GetOutline(ctx context.Context, key string) (domainCache.EntryView[cacheDomain.Outline], error) {
	if err := validations.ValidateCacheKey(ctx, key); err != nil {
		return domainCache.EntryView[cacheDomain.Outline]{}, err
	}
	entry, ok := s.cache.OutlineEntry(key)
	if !ok {
		return domainCache.EntryView[cacheDomain.Outline]{}, pkgError.NotFoundError(fmt.Sprintf("outline %s not found", key))
	}
	return entryView(entry, s.cache.Config().OutlineTTL), nil
}

func (s *cacheService) SetOutline(ctx context.Context, key string, outline cacheDomain.Outline) error {
	if err := validations.ValidateCacheKey(ctx, key); err != nil {
		return err
	}
	if err := validations.ValidateOutline(ctx, outline); err != nil {
		return err
	}
	if !s.cache.SetOutline(key, outline) {
		return pkgError.ValidationError("outline was rejected by the cache")
	}
	return nil
}

func (s *cacheService) WarmOutline(ctx context.Context, key string, outline cacheDomain.Outline) error {
	if err := validations.ValidateCacheKey(ctx, key); err != nil {
		return err
	}
	if err := validations.ValidateOutline(ctx, outline); err != nil {
		return err
	}
	if !s.cache.Config().WarmingEnabled() {
		return pkgError.ValidationError("cache warming is disabled")
	}
	if !s.cache.WarmOutline(key, outline) {
		return pkgError.ValidationError("outline was rejected by the cache")
	}
	return nil
}

func (s *cacheService) RemoveOutline(ctx context.Context, key string) error {
	if err := validations.ValidateCacheKey(ctx, key); err != nil {
		return err
	}
	removed := s.cache.RemoveOutline(key)
	s.removeShared(ctx, cacheDomain.NamespaceOutline, key)
	if !removed {
		return pkgError.NotFoundError(fmt.Sprintf("outline %s not found", key))
	}
	return nil
}

func (s *cacheService) HasOutline(ctx context.Context, key string) bool {
	return s.cache.HasOutline(key)
}

func (s *cacheService) ListOutlines(ctx context.Context) []string {
	keys := s.cache.OutlineKeys()
	sort.Strings(keys)
	return keys
}

func (s *cacheService) GetContent(ctx context.Context, key string) (domainCache.EntryView[cacheDomain.Content], error) {
	if err := validations.ValidateCacheKey(ctx, key); err != nil {
		return domainCache.EntryView[cacheDomain.Content]{}, err
	}
	entry, ok := s.cache.ContentEntry(key)
	if !ok {
		return domainCache.EntryView[cacheDomain.Content]{}, pkgError.NotFoundError(fmt.Sprintf("content %s not found", key))
	}
	return entryView(entry, s.cache.Config().ContentTTL), nil
}

func (s *cacheService) SetContent(ctx context.Context, key string, content cacheDomain.Content) error {
	if err := validations.ValidateCacheKey(ctx, key); err != nil {
		return err
	}
	if err := validations.ValidateContent(ctx, content); err != nil {
		return err
	}
	if !s.cache.SetContent(key, content) {
		return pkgError.ValidationError("content was rejected by the cache")
	}
	return nil
}

func (s *cacheService) WarmContent(ctx context.Context, key string, content cacheDomain.Content) error {
	if err := validations.ValidateCacheKey(ctx, key); err != nil {
		return err
	}
	if err := validations.ValidateContent(ctx, content); err != nil {
		return err
	}
	if !s.cache.Config().WarmingEnabled() {
		return pkgError.ValidationError("cache warming is disabled")
	}
	if !s.cache.WarmContent(key, content) {
		return pkgError.ValidationError("content was rejected by the cache")
	}
	return nil
}

func (s *cacheService) RemoveContent(ctx context.Context, key string) error {
	if err := validations.ValidateCacheKey(ctx, key); err != nil {
		return err
	}
	removed := s.cache.RemoveContent(key)
	s.removeShared(ctx, cacheDomain.NamespaceContent, key)
	if !removed {
		return pkgError.NotFoundError(fmt.Sprintf("content %s not found", key))
	}
	return nil
}

func (s *cacheService) HasContent(ctx context.Context, key string) bool {
	return s.cache.HasContent(key)
}

func (s *cacheService) ListContents(ctx context.Context) []string {
	keys := s.cache.ContentKeys()
	sort.Strings(keys)
	return keys
}

func (s *cacheService) ScoreContent(ctx context.Context, key, keyword string) (seo.Report, error) {
	view, err := s.GetContent(ctx, key)
	if err != nil {
		return seo.Report{}, err
	}
	report, err := seo.Score(view.Data, keyword)
	if err != nil {
		return seo.Report{}, pkgError.InternalServerError(err.Error())
	}
	return report, nil
}

func (s *cacheService) GetSettings(ctx context.Context) (domainCache.SettingsView, error) {
	cfg := s.cache.Config()
	active := domainCache.CacheSettings{
		MaxSize:        cfg.MaxSize,
		EvictionPolicy: string(cfg.EvictionPolicy),
		EnableStats:    cfg.StatsEnabled(),
		EnableWarming:  cfg.WarmingEnabled(),
	}
	view := domainCache.SettingsView{Active: active, Saved: active}
	if s.settings == nil {
		return view, nil
	}

	saved, err := s.settings.GetCacheSettings(ctx)
	if err != nil {
		return view, pkgError.InternalServerError(fmt.Sprintf("failed to read cache settings: %v", err))
	}
	if saved.MaxSize != nil {
		view.Saved.MaxSize = *saved.MaxSize
	}
	if saved.EvictionPolicy != nil {
		view.Saved.EvictionPolicy = *saved.EvictionPolicy
	}
	if saved.EnableStats != nil {
		view.Saved.EnableStats = *saved.EnableStats
	}
	if saved.EnableWarming != nil {
		view.Saved.EnableWarming = *saved.EnableWarming
	}
	view.RestartRequired = view.Saved != view.Active
	return view, nil
}

func (s *cacheService) SaveSettings(ctx context.Context, settings domainCache.CacheSettings) (domainCache.SettingsView, error) {
	if err := validations.ValidateCacheSettings(ctx, settings); err != nil {
		return domainCache.SettingsView{}, err
	}
	if s.settings == nil {
		return domainCache.SettingsView{}, pkgError.InternalServerError("settings storage is not configured")
	}

	err := s.settings.SaveCacheSettings(ctx, settingsApp.CacheSettings{
		MaxSize:        &settings.MaxSize,
		EvictionPolicy: &settings.EvictionPolicy,
		EnableStats:    &settings.EnableStats,
		EnableWarming:  &settings.EnableWarming,
	})
	if err != nil {
		return domainCache.SettingsView{}, pkgError.InternalServerError(fmt.Sprintf("failed to save cache settings: %v", err))
	}
	logrus.Infof("[CACHE] Settings saved: max_size=%d policy=%s stats=%v warming=%v",
		settings.MaxSize, settings.EvictionPolicy, settings.EnableStats, settings.EnableWarming)
	return s.GetSettings(ctx)
}

func (s *cacheService) OnSnapshot(fn func(cacheDomain.ServerStats)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// StartStatsReporter publishes a snapshot every interval until ctx is done,
// then withdraws this server from the stats store.
func (s *cacheService) StartStatsReporter(ctx context.Context) {
	logrus.Infof("[CACHE] Starting stats reporter for %s (interval: %s)", s.serverID, s.interval)
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		s.report(ctx)
		for {
			select {
			case <-ctx.Done():
				cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := s.stats.Remove(cleanupCtx, s.serverID); err != nil {
					logrus.WithError(err).Warn("[CACHE] Failed to withdraw stats snapshot")
				}
				cancel()
				return
			case <-ticker.C:
				s.report(ctx)
			}
		}
	}()
}

func (s *cacheService) snapshot() cacheDomain.ServerStats {
	return cacheDomain.ServerStats{
		ServerID:    s.serverID,
		Stats:       s.cache.Stats(),
		PublishedAt: time.Now(),
	}
}

func (s *cacheService) report(ctx context.Context) {
	snap := s.snapshot()
	if err := s.stats.Publish(ctx, snap); err != nil {
		logrus.WithError(err).Warn("[CACHE] Failed to publish stats snapshot")
	}
	if s.shared != nil {
		if err := s.shared.Cleanup(ctx); err != nil {
			logrus.WithError(err).Debug("[CACHE] Shared tier cleanup failed")
		}
	}

	s.listenersMu.RLock()
	listeners := append([]func(cacheDomain.ServerStats){}, s.listeners...)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *cacheService) removeShared(ctx context.Context, ns cacheDomain.Namespace, key string) {
	if s.shared == nil {
		return
	}
	if err := s.shared.Delete(ctx, ns, key); err != nil {
		logrus.WithError(err).Warnf("[CACHE] Failed to delete %s %s from shared tier", ns, key)
	}
}

func entryView[T any](e cacheDomain.Entry[T], ttl time.Duration) domainCache.EntryView[T] {
	return domainCache.EntryView[T]{
		Key:            e.Key,
		Data:           e.Data,
		CreatedAt:      e.CreatedAt,
		ExpiresAt:      e.CreatedAt.Add(ttl),
		LastAccessedAt: e.LastAccessedAt,
		AccessCount:    e.AccessCount,
		SizeBytes:      e.ApproxSizeBytes,
		HumanSize:      humanize.Bytes(uint64(e.ApproxSizeBytes)),
	}
}
