package rest

import (
	"context"
	"net/http"
	"testing"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/AzielCF/az-content/ui/rest/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateOutline(ctx context.Context, req domainGenerator.OutlineRequest) (domainGenerator.OutlineResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domainGenerator.OutlineResult), args.Error(1)
}

func (m *MockGenerator) GenerateContent(ctx context.Context, req domainGenerator.ContentRequest) (domainGenerator.ContentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domainGenerator.ContentResult), args.Error(1)
}

func (m *MockGenerator) PrefetchOutline(ctx context.Context, req domainGenerator.OutlineRequest) (domainGenerator.PrefetchResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domainGenerator.PrefetchResult), args.Error(1)
}

func newGeneratorApp(svc domainGenerator.IGeneratorUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestGenerator(app.Group("/api"), svc)
	return app
}

func TestRestGenerator_Outline(t *testing.T) {
	svc := new(MockGenerator)
	req := domainGenerator.OutlineRequest{Topic: "Caching", Keyword: "lru"}
	svc.On("GenerateOutline", mock.Anything, req).Return(domainGenerator.OutlineResult{
		Key:     "outline:1",
		Cached:  true,
		Outline: cacheDomain.Outline{Title: "Caching", Sections: []cacheDomain.Section{}},
	}, nil)

	status, res := doJSON(t, newGeneratorApp(svc), http.MethodPost, "/api/generate/outline", `{"topic":"Caching","keyword":"lru"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Outline served from cache", res.Message)
	assert.Equal(t, "outline:1", res.Results.(map[string]any)["key"])
	svc.AssertExpectations(t)
}

func TestRestGenerator_ProviderFailure(t *testing.T) {
	svc := new(MockGenerator)
	svc.On("GenerateContent", mock.Anything, mock.Anything).Return(domainGenerator.ContentResult{}, pkgError.ProviderError("upstream timeout"))

	status, res := doJSON(t, newGeneratorApp(svc), http.MethodPost, "/api/generate/content", `{"outline":{"title":"x","sections":[]}}`)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "PROVIDER_ERROR", res.Code)
}

func TestRestGenerator_Prefetch(t *testing.T) {
	svc := new(MockGenerator)
	svc.On("PrefetchOutline", mock.Anything, mock.Anything).Return(domainGenerator.PrefetchResult{
		JobID: "job-1", Key: "outline:1", Status: domainGenerator.PrefetchQueued,
	}, nil).Once()
	svc.On("PrefetchOutline", mock.Anything, mock.Anything).Return(domainGenerator.PrefetchResult{}, pkgError.QueueFullError("queue full")).Once()

	app := newGeneratorApp(svc)
	status, res := doJSON(t, app, http.MethodPost, "/api/generate/outline/prefetch", `{"topic":"Caching"}`)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "job-1", res.Results.(map[string]any)["job_id"])

	status, res = doJSON(t, app, http.MethodPost, "/api/generate/outline/prefetch", `{"topic":"Caching"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "QUEUE_FULL", res.Code)
}

func TestRestGenerator_MalformedBody(t *testing.T) {
	status, res := doJSON(t, newGeneratorApp(new(MockGenerator)), http.MethodPost, "/api/generate/outline", `{"topic":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", res.Code)
}
