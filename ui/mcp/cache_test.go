package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/AzielCF/az-content/contentcache"
	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/contentcache/repository"
	"github.com/AzielCF/az-content/core/config"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	"github.com/AzielCF/az-content/usecase"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GenerateOutline(ctx context.Context, req domainGenerator.OutlineRequest) (cacheDomain.Outline, domainGenerator.Usage, error) {
	p.calls++
	return cacheDomain.Outline{
		Title:    req.Topic,
		Keyword:  req.Keyword,
		Sections: []cacheDomain.Section{{Title: "Intro"}},
	}, domainGenerator.Usage{Provider: "stub"}, nil
}

func (p *stubProvider) GenerateContent(ctx context.Context, req domainGenerator.ContentRequest) (cacheDomain.Content, domainGenerator.Usage, error) {
	return cacheDomain.Content{Title: req.Outline.Title, HTMLBody: "<p>body</p>"}, domainGenerator.Usage{Provider: "stub"}, nil
}

func newTestHandler(t *testing.T) (*CacheHandler, *stubProvider) {
	t.Helper()
	cache := contentcache.NewContentCache(cacheDomain.DefaultConfig())
	t.Cleanup(cache.Close)

	provider := &stubProvider{}
	cacheSvc := usecase.NewCacheService(cache, repository.NewMemoryStatsStore(), nil, nil, "node-a", time.Hour)
	genSvc := usecase.NewGeneratorService(provider, cache, nil, nil, config.GeneratorConfig{Language: "en"})
	return InitMcpCache(cacheSvc, genSvc), provider
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestMcpCache_GenerateThenRead(t *testing.T) {
	h, provider := newTestHandler(t)
	ctx := context.Background()

	res, err := h.handleGenerateOutline(ctx, callRequest("content_generate_outline", map[string]any{
		"topic":    "Caching strategies",
		"keyword":  "lru",
		"sections": float64(3),
	}))
	require.NoError(t, err)
	require.NotNil(t, res)
	result := res.StructuredContent.(domainGenerator.OutlineResult)
	assert.False(t, result.Cached)

	res, err = h.handleGenerateOutline(ctx, callRequest("content_generate_outline", map[string]any{
		"topic":    "Caching strategies",
		"keyword":  "lru",
		"sections": float64(3),
	}))
	require.NoError(t, err)
	assert.True(t, res.StructuredContent.(domainGenerator.OutlineResult).Cached)
	assert.Equal(t, 1, provider.calls)

	res, err = h.handleGetOutline(ctx, callRequest("content_cache_get_outline", map[string]any{"key": result.Key}))
	require.NoError(t, err)
	assert.NotNil(t, res.StructuredContent)

	res, err = h.handleStats(ctx, callRequest("content_cache_stats", nil))
	require.NoError(t, err)
	assert.NotNil(t, res.StructuredContent)

	_, err = h.handleClear(ctx, callRequest("content_cache_clear", nil))
	require.NoError(t, err)

	_, err = h.handleGetOutline(ctx, callRequest("content_cache_get_outline", map[string]any{"key": result.Key}))
	assert.Error(t, err)
}

func TestMcpCache_MissingArguments(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	_, err := h.handleGetContent(ctx, callRequest("content_cache_get_content", map[string]any{}))
	assert.Error(t, err)

	_, err = h.handleGenerateOutline(ctx, callRequest("content_generate_outline", map[string]any{}))
	assert.Error(t, err)
}
