package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AzielCF/az-content/pkg/genworker"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGeneratorPoolStats_Uninitialized(t *testing.T) {
	app := fiber.New()
	app.Get("/api/generate/pool/stats", GetGeneratorPoolStats)

	origPool := generatorPool
	t.Cleanup(func() { generatorPool = origPool })
	generatorPool = nil

	req := httptest.NewRequest(http.MethodGet, "/api/generate/pool/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}

func TestGetGeneratorPoolStats_Initialized(t *testing.T) {
	app := fiber.New()
	app.Get("/api/generate/pool/stats", GetGeneratorPoolStats)

	ctx, cancel := context.WithCancel(context.Background())
	pool := genworker.NewPool(2, 10)
	pool.Start(ctx)

	origPool := generatorPool
	t.Cleanup(func() {
		cancel()
		pool.Stop()
		generatorPool = origPool
	})
	SetGeneratorPool(pool)

	req := httptest.NewRequest(http.MethodGet, "/api/generate/pool/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}

func TestGetGeneratorPoolStats_ReportsPendingPrefetch(t *testing.T) {
	app := fiber.New()
	app.Get("/api/generate/pool/stats", GetGeneratorPoolStats)

	ctx, cancel := context.WithCancel(context.Background())
	pool := genworker.NewPool(2, 10)
	pool.Start(ctx)

	started := make(chan struct{})
	release := make(chan struct{})
	origPool := generatorPool
	t.Cleanup(func() {
		cancel()
		pool.Stop()
		generatorPool = origPool
	})
	SetGeneratorPool(pool)

	key := "outline:3f2a9c"
	require.True(t, pool.TryDispatch(genworker.Job{
		ID:  "prefetch-1",
		Key: key,
		Handler: func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		},
	}))
	<-started
	assert.True(t, pool.IsPending(key))

	getStats := func() genworker.PoolStats {
		req := httptest.NewRequest(http.MethodGet, "/api/generate/pool/stats", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats genworker.PoolStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		return stats
	}

	stats := getStats()
	assert.Equal(t, 2, stats.NumWorkers)
	assert.Equal(t, 10, stats.QueueSize)
	assert.Equal(t, 1, stats.PendingKeys)
	assert.Equal(t, 1, stats.ActiveWorkers)
	assert.Equal(t, int64(1), stats.TotalDispatched)
	assert.Equal(t, int64(0), stats.TotalProcessed)
	assert.Len(t, stats.WorkerStats, 2)

	close(release)
	require.Eventually(t, func() bool { return !pool.IsPending(key) }, time.Second, 5*time.Millisecond)

	stats = getStats()
	assert.Equal(t, 0, stats.PendingKeys)
	assert.Equal(t, 0, stats.ActiveWorkers)
	assert.Equal(t, int64(1), stats.TotalProcessed)
	assert.Equal(t, int64(0), stats.TotalErrors)
}
