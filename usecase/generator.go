package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/core/config"
	domainCache "github.com/AzielCF/az-content/domains/cache"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	"github.com/AzielCF/az-content/generator"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/AzielCF/az-content/pkg/genworker"
	"github.com/AzielCF/az-content/seo"
	"github.com/AzielCF/az-content/validations"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// jobDispatcher is the part of the generation worker pool used for prefetches.
type jobDispatcher interface {
	TryDispatch(job genworker.Job) bool
	IsPending(key string) bool
}

type generatorService struct {
	provider domainGenerator.IProvider
	cache    domainCache.IContentCache
	shared   cacheDomain.ISharedStore
	pool     jobDispatcher
	language string
	timeout  time.Duration

	group singleflight.Group
}

type generatedOutline struct {
	outline cacheDomain.Outline
	usage   domainGenerator.Usage
	cached  bool
}

type generatedContent struct {
	content cacheDomain.Content
	usage   domainGenerator.Usage
	cached  bool
}

// NewGeneratorService builds the cache-aside generator. shared and pool may be nil.
func NewGeneratorService(
	provider domainGenerator.IProvider,
	cache domainCache.IContentCache,
	shared cacheDomain.ISharedStore,
	pool jobDispatcher,
	cfg config.GeneratorConfig,
) domainGenerator.IGeneratorUsecase {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &generatorService{
		provider: provider,
		cache:    cache,
		shared:   shared,
		pool:     pool,
		language: cfg.Language,
		timeout:  timeout,
	}
}

func (s *generatorService) GenerateOutline(ctx context.Context, req domainGenerator.OutlineRequest) (domainGenerator.OutlineResult, error) {
	if req.Language == "" {
		req.Language = s.language
	}
	if err := validations.ValidateOutlineRequest(ctx, req); err != nil {
		return domainGenerator.OutlineResult{}, err
	}

	key := generator.OutlineKey(req)
	result := domainGenerator.OutlineResult{RequestID: uuid.NewString(), Key: key}

	if outline, ok := s.cache.GetOutline(key); ok {
		result.Cached = true
		result.Outline = outline
		return result, nil
	}
	if outline, ok := s.loadSharedOutline(ctx, key); ok {
		result.Cached = true
		result.Outline = outline
		return result, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.produceOutline(ctx, key, req, false)
	})
	if err != nil {
		return domainGenerator.OutlineResult{}, providerError(err)
	}

	gen := v.(generatedOutline)
	result.Outline = gen.outline
	result.Cached = shared || gen.cached
	if !result.Cached {
		usage := gen.usage
		result.Usage = &usage
	}
	return result, nil
}

func (s *generatorService) GenerateContent(ctx context.Context, req domainGenerator.ContentRequest) (domainGenerator.ContentResult, error) {
	if req.Language == "" {
		req.Language = s.language
	}
	if err := validations.ValidateContentRequest(ctx, req); err != nil {
		return domainGenerator.ContentResult{}, err
	}

	key := generator.ContentKey(req)
	result := domainGenerator.ContentResult{RequestID: uuid.NewString(), Key: key}
	keyword := req.Keyword
	if keyword == "" {
		keyword = req.Outline.Keyword
	}

	content, cached := s.cache.GetContent(key)
	if !cached {
		content, cached = s.loadSharedContent(ctx, key)
	}
	if !cached {
		v, err, shared := s.group.Do(key, func() (any, error) {
			return s.produceContent(ctx, key, req)
		})
		if err != nil {
			return domainGenerator.ContentResult{}, providerError(err)
		}
		gen := v.(generatedContent)
		content = gen.content
		cached = shared || gen.cached
		if !cached {
			usage := gen.usage
			result.Usage = &usage
		}
	}

	result.Cached = cached
	result.Content = content
	if report, err := seo.Score(content, keyword); err == nil {
		result.SEO = &report
	} else {
		logrus.WithError(err).Warnf("[GENERATOR] Failed to score content %s", key)
	}
	return result, nil
}

// PrefetchOutline queues a background generation. The result is inserted as
// a warmed entry, so it disappears if nobody reads it in time.
func (s *generatorService) PrefetchOutline(ctx context.Context, req domainGenerator.OutlineRequest) (domainGenerator.PrefetchResult, error) {
	if req.Language == "" {
		req.Language = s.language
	}
	if err := validations.ValidateOutlineRequest(ctx, req); err != nil {
		return domainGenerator.PrefetchResult{}, err
	}

	key := generator.OutlineKey(req)
	if s.cache.HasOutline(key) {
		return domainGenerator.PrefetchResult{Key: key, Status: domainGenerator.PrefetchCached}, nil
	}
	if s.pool == nil {
		return domainGenerator.PrefetchResult{}, pkgError.InternalServerError("background generation is not available")
	}
	if s.pool.IsPending(key) {
		return domainGenerator.PrefetchResult{Key: key, Status: domainGenerator.PrefetchPending}, nil
	}

	jobID := uuid.NewString()
	accepted := s.pool.TryDispatch(genworker.Job{
		ID:  jobID,
		Key: key,
		Handler: func(jobCtx context.Context) error {
			if s.cache.HasOutline(key) {
				return nil
			}
			_, err, _ := s.group.Do(key, func() (any, error) {
				return s.produceOutline(jobCtx, key, req, true)
			})
			return err
		},
	})
	if !accepted {
		return domainGenerator.PrefetchResult{}, pkgError.QueueFullError("generation queue is full, try again later")
	}

	logrus.Debugf("[GENERATOR] Prefetch %s queued for %s", jobID, key)
	return domainGenerator.PrefetchResult{JobID: jobID, Key: key, Status: domainGenerator.PrefetchQueued}, nil
}

// produceOutline calls the provider detached from the caller's cancellation,
// since other callers may be waiting on the same singleflight result.
func (s *generatorService) produceOutline(ctx context.Context, key string, req domainGenerator.OutlineRequest, warm bool) (generatedOutline, error) {
	// A flight that finished between our cache miss and Do already stored it.
	if entry, ok := s.cache.OutlineEntry(key); ok {
		return generatedOutline{outline: entry.Data, cached: true}, nil
	}

	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	outline, usage, err := s.provider.GenerateOutline(genCtx, req)
	if err != nil {
		return generatedOutline{}, err
	}
	if err := outline.Validate(); err != nil {
		return generatedOutline{}, fmt.Errorf("provider returned an invalid outline: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"key":      key,
		"provider": usage.Provider,
		"duration": time.Since(start).String(),
		"warm":     warm,
	}).Info("[GENERATOR] Outline generated")

	stored := false
	if warm {
		stored = s.cache.WarmOutline(key, outline)
	}
	if !stored && !s.cache.SetOutline(key, outline) {
		logrus.Warnf("[GENERATOR] Outline %s was not cached", key)
	}
	s.saveShared(genCtx, cacheDomain.NamespaceOutline, key, outline, s.cache.Config().OutlineTTL)
	return generatedOutline{outline: outline, usage: usage}, nil
}

func (s *generatorService) produceContent(ctx context.Context, key string, req domainGenerator.ContentRequest) (generatedContent, error) {
	if entry, ok := s.cache.ContentEntry(key); ok {
		return generatedContent{content: entry.Data, cached: true}, nil
	}

	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	content, usage, err := s.provider.GenerateContent(genCtx, req)
	if err != nil {
		return generatedContent{}, err
	}
	if err := content.Validate(); err != nil {
		return generatedContent{}, fmt.Errorf("provider returned invalid content: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"key":      key,
		"provider": usage.Provider,
		"duration": time.Since(start).String(),
	}).Info("[GENERATOR] Content generated")

	if !s.cache.SetContent(key, content) {
		logrus.Warnf("[GENERATOR] Content %s was not cached", key)
	}
	s.saveShared(genCtx, cacheDomain.NamespaceContent, key, content, s.cache.Config().ContentTTL)
	return generatedContent{content: content, usage: usage}, nil
}

func (s *generatorService) loadSharedOutline(ctx context.Context, key string) (cacheDomain.Outline, bool) {
	var outline cacheDomain.Outline
	if !s.loadShared(ctx, cacheDomain.NamespaceOutline, key, &outline) {
		return cacheDomain.Outline{}, false
	}
	if !s.cache.SetOutline(key, outline) {
		return cacheDomain.Outline{}, false
	}
	return outline, true
}

func (s *generatorService) loadSharedContent(ctx context.Context, key string) (cacheDomain.Content, bool) {
	var content cacheDomain.Content
	if !s.loadShared(ctx, cacheDomain.NamespaceContent, key, &content) {
		return cacheDomain.Content{}, false
	}
	if !s.cache.SetContent(key, content) {
		return cacheDomain.Content{}, false
	}
	return content, true
}

func (s *generatorService) loadShared(ctx context.Context, ns cacheDomain.Namespace, key string, dst any) bool {
	if s.shared == nil {
		return false
	}
	entry, err := s.shared.Get(ctx, ns, key)
	if err != nil {
		logrus.WithError(err).Warnf("[GENERATOR] Shared tier lookup failed for %s", key)
		return false
	}
	if entry == nil {
		return false
	}
	if err := json.Unmarshal(entry.Data, dst); err != nil {
		logrus.WithError(err).Warnf("[GENERATOR] Discarding undecodable shared %s %s", ns, key)
		return false
	}
	logrus.Debugf("[GENERATOR] %s %s served from shared tier", ns, key)
	return true
}

func (s *generatorService) saveShared(ctx context.Context, ns cacheDomain.Namespace, key string, v any, ttl time.Duration) {
	if s.shared == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Warnf("[GENERATOR] Failed to encode %s %s for shared tier", ns, key)
		return
	}
	now := time.Now()
	entry := &cacheDomain.SharedEntry{
		Namespace: ns,
		Key:       key,
		Data:      data,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.shared.Save(ctx, entry, ttl); err != nil {
		logrus.WithError(err).Warnf("[GENERATOR] Failed to save %s %s to shared tier", ns, key)
	}
}

func providerError(err error) error {
	var generic pkgError.GenericError
	if errors.As(err, &generic) {
		return err
	}
	return pkgError.ProviderError(err.Error())
}
