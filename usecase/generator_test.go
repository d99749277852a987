package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/contentcache/repository"
	"github.com/AzielCF/az-content/core/config"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	"github.com/AzielCF/az-content/generator"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/AzielCF/az-content/pkg/genworker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type rejectingDispatcher struct{}

func (rejectingDispatcher) TryDispatch(genworker.Job) bool { return false }
func (rejectingDispatcher) IsPending(string) bool          { return false }

var outlineReq = domainGenerator.OutlineRequest{Topic: "Caching generated content", Keyword: "lru cache", Language: "en"}

func TestGenerator_OutlineMissThenHit(t *testing.T) {
	provider := new(MockProvider)
	provider.On("GenerateOutline", mock.Anything, outlineReq).Return(testOutline("Caching"), mockUsage, nil).Once()

	svc := NewGeneratorService(provider, newTestCache(t), nil, nil, config.GeneratorConfig{})
	ctx := context.Background()

	first, err := svc.GenerateOutline(ctx, outlineReq)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, generator.OutlineKey(outlineReq), first.Key)
	assert.NotEmpty(t, first.RequestID)
	require.NotNil(t, first.Usage)
	assert.Equal(t, int64(20), first.Usage.OutputTokens)

	second, err := svc.GenerateOutline(ctx, outlineReq)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Nil(t, second.Usage)
	assert.Equal(t, first.Outline, second.Outline)
	assert.NotEqual(t, first.RequestID, second.RequestID)

	provider.AssertExpectations(t)
}

func TestGenerator_DefaultLanguageIsPartOfKey(t *testing.T) {
	provider := new(MockProvider)
	withLang := outlineReq
	withLang.Language = "es"
	provider.On("GenerateOutline", mock.Anything, withLang).Return(testOutline("Caché"), mockUsage, nil).Once()

	svc := NewGeneratorService(provider, newTestCache(t), nil, nil, config.GeneratorConfig{Language: "es"})
	req := outlineReq
	req.Language = ""

	res, err := svc.GenerateOutline(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, generator.OutlineKey(withLang), res.Key)
	provider.AssertExpectations(t)
}

func TestGenerator_SharedTierHitSkipsProvider(t *testing.T) {
	provider := new(MockProvider)
	cache := newTestCache(t)
	shared := repository.NewMemorySharedStore()

	key := generator.OutlineKey(outlineReq)
	data, err := json.Marshal(testOutline("From another server"))
	require.NoError(t, err)
	require.NoError(t, shared.Save(context.Background(), &cacheDomain.SharedEntry{
		Namespace: cacheDomain.NamespaceOutline,
		Key:       key,
		Data:      data,
	}, time.Minute))

	svc := NewGeneratorService(provider, cache, shared, nil, config.GeneratorConfig{})
	res, err := svc.GenerateOutline(context.Background(), outlineReq)
	require.NoError(t, err)

	assert.True(t, res.Cached)
	assert.Equal(t, "From another server", res.Outline.Title)
	assert.True(t, cache.HasOutline(key))
	provider.AssertNotCalled(t, "GenerateOutline", mock.Anything, mock.Anything)
}

func TestGenerator_GeneratedValueReachesSharedTier(t *testing.T) {
	provider := new(MockProvider)
	provider.On("GenerateOutline", mock.Anything, outlineReq).Return(testOutline("Caching"), mockUsage, nil).Once()
	shared := repository.NewMemorySharedStore()

	svc := NewGeneratorService(provider, newTestCache(t), shared, nil, config.GeneratorConfig{})
	res, err := svc.GenerateOutline(context.Background(), outlineReq)
	require.NoError(t, err)

	entry, err := shared.Get(context.Background(), cacheDomain.NamespaceOutline, res.Key)
	require.NoError(t, err)
	require.NotNil(t, entry)

	var stored cacheDomain.Outline
	require.NoError(t, json.Unmarshal(entry.Data, &stored))
	assert.Equal(t, res.Outline, stored)
}

func TestGenerator_ProviderErrorIsWrapped(t *testing.T) {
	provider := new(MockProvider)
	provider.On("GenerateOutline", mock.Anything, outlineReq).Return(cacheDomain.Outline{}, mockUsage, errors.New("rate limited"))

	cache := newTestCache(t)
	svc := NewGeneratorService(provider, cache, nil, nil, config.GeneratorConfig{})
	_, err := svc.GenerateOutline(context.Background(), outlineReq)

	assert.IsType(t, pkgError.ProviderError(""), err)
	assert.ErrorContains(t, err, "rate limited")
	assert.Empty(t, cache.OutlineKeys())
}

func TestGenerator_InvalidProviderOutputIsNotCached(t *testing.T) {
	provider := new(MockProvider)
	provider.On("GenerateOutline", mock.Anything, outlineReq).Return(cacheDomain.Outline{Title: "No sections"}, mockUsage, nil)

	cache := newTestCache(t)
	svc := NewGeneratorService(provider, cache, nil, nil, config.GeneratorConfig{})
	_, err := svc.GenerateOutline(context.Background(), outlineReq)

	assert.IsType(t, pkgError.ProviderError(""), err)
	assert.Empty(t, cache.OutlineKeys())
}

func TestGenerator_InvalidRequest(t *testing.T) {
	provider := new(MockProvider)
	svc := NewGeneratorService(provider, newTestCache(t), nil, nil, config.GeneratorConfig{})

	_, err := svc.GenerateOutline(context.Background(), domainGenerator.OutlineRequest{})
	assert.IsType(t, pkgError.ValidationError(""), err)
	provider.AssertNotCalled(t, "GenerateOutline", mock.Anything, mock.Anything)
}

func TestGenerator_ConcurrentRequestsCallProviderOnce(t *testing.T) {
	provider := new(MockProvider)
	provider.On("GenerateOutline", mock.Anything, outlineReq).
		Run(func(mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return(testOutline("Caching"), mockUsage, nil).Once()

	svc := NewGeneratorService(provider, newTestCache(t), nil, nil, config.GeneratorConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.GenerateOutline(context.Background(), outlineReq)
			assert.NoError(t, err)
			assert.Equal(t, "Caching", res.Outline.Title)
		}()
	}
	wg.Wait()

	provider.AssertNumberOfCalls(t, "GenerateOutline", 1)
}

func TestGenerator_ContentIncludesSEOReport(t *testing.T) {
	req := domainGenerator.ContentRequest{Outline: testOutline("Caching"), Language: "en"}
	provider := new(MockProvider)
	provider.On("GenerateContent", mock.Anything, req).Return(testContent("All about the lru cache"), mockUsage, nil).Once()

	svc := NewGeneratorService(provider, newTestCache(t), nil, nil, config.GeneratorConfig{})
	res, err := svc.GenerateContent(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, res.Cached)
	require.NotNil(t, res.SEO)
	assert.Equal(t, "lru cache", res.SEO.Keyword)
	assert.True(t, res.SEO.KeywordInTitle)

	again, err := svc.GenerateContent(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.NotNil(t, again.SEO)
	provider.AssertExpectations(t)
}

func TestGenerator_PrefetchWarmsOutline(t *testing.T) {
	provider := new(MockProvider)
	provider.On("GenerateOutline", mock.Anything, outlineReq).Return(testOutline("Caching"), mockUsage, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool := genworker.NewPool(2, 10)
	pool.Start(ctx)
	defer pool.Stop()

	cache := newTestCache(t)
	svc := NewGeneratorService(provider, cache, nil, pool, config.GeneratorConfig{})

	res, err := svc.PrefetchOutline(ctx, outlineReq)
	require.NoError(t, err)
	assert.Equal(t, domainGenerator.PrefetchQueued, res.Status)
	assert.NotEmpty(t, res.JobID)

	assert.Eventually(t, func() bool { return cache.HasOutline(res.Key) }, time.Second, 10*time.Millisecond)

	again, err := svc.PrefetchOutline(ctx, outlineReq)
	require.NoError(t, err)
	assert.Equal(t, domainGenerator.PrefetchCached, again.Status)
	assert.Empty(t, again.JobID)

	generated, err := svc.GenerateOutline(ctx, outlineReq)
	require.NoError(t, err)
	assert.True(t, generated.Cached)
	provider.AssertExpectations(t)
}

func TestGenerator_PrefetchQueueFull(t *testing.T) {
	svc := NewGeneratorService(new(MockProvider), newTestCache(t), nil, rejectingDispatcher{}, config.GeneratorConfig{})

	_, err := svc.PrefetchOutline(context.Background(), outlineReq)
	assert.IsType(t, pkgError.QueueFullError(""), err)
}

func TestGenerator_PrefetchWithoutPool(t *testing.T) {
	svc := NewGeneratorService(new(MockProvider), newTestCache(t), nil, nil, config.GeneratorConfig{})

	_, err := svc.PrefetchOutline(context.Background(), outlineReq)
	assert.IsType(t, pkgError.InternalServerError(""), err)
}
