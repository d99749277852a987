package usecase

import (
	"context"
	"testing"

	"github.com/AzielCF/az-content/contentcache"
	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	"github.com/stretchr/testify/mock"
)

// MockProvider records generation calls.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) GenerateOutline(ctx context.Context, req domainGenerator.OutlineRequest) (cacheDomain.Outline, domainGenerator.Usage, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(cacheDomain.Outline), args.Get(1).(domainGenerator.Usage), args.Error(2)
}

func (m *MockProvider) GenerateContent(ctx context.Context, req domainGenerator.ContentRequest) (cacheDomain.Content, domainGenerator.Usage, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(cacheDomain.Content), args.Get(1).(domainGenerator.Usage), args.Error(2)
}

func newTestCache(t *testing.T) *contentcache.ContentCache {
	t.Helper()
	return newCacheWithConfig(t, cacheDomain.DefaultConfig())
}

func newCacheWithConfig(t *testing.T, cfg cacheDomain.Config) *contentcache.ContentCache {
	t.Helper()
	c := contentcache.NewContentCache(cfg)
	t.Cleanup(c.Close)
	return c
}

func testOutline(title string) cacheDomain.Outline {
	return cacheDomain.Outline{
		Title:    title,
		Keyword:  "lru cache",
		Sections: []cacheDomain.Section{{Title: "Intro"}, {Title: "Eviction"}},
	}
}

func testContent(title string) cacheDomain.Content {
	return cacheDomain.Content{
		Title:           title,
		HTMLBody:        "<h2>Intro</h2><p>An lru cache keeps recent items.</p>",
		MetaDescription: "What an lru cache is.",
		Keyword:         "lru cache",
	}
}

var mockUsage = domainGenerator.Usage{Provider: "mock", Model: "m1", InputTokens: 10, OutputTokens: 20}
