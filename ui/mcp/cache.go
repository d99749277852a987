package mcp

import (
	"context"
	"fmt"

	domainCache "github.com/AzielCF/az-content/domains/cache"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type CacheHandler struct {
	cacheService     domainCache.ICacheUsecase
	generatorService domainGenerator.IGeneratorUsecase
}

func InitMcpCache(cacheService domainCache.ICacheUsecase, generatorService domainGenerator.IGeneratorUsecase) *CacheHandler {
	return &CacheHandler{
		cacheService:     cacheService,
		generatorService: generatorService,
	}
}

func (h *CacheHandler) AddCacheTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(h.toolStats(), h.handleStats)
	mcpServer.AddTool(h.toolGetOutline(), h.handleGetOutline)
	mcpServer.AddTool(h.toolGetContent(), h.handleGetContent)
	mcpServer.AddTool(h.toolClear(), h.handleClear)
	mcpServer.AddTool(h.toolGenerateOutline(), h.handleGenerateOutline)
}

func (h *CacheHandler) toolStats() mcp.Tool {
	return mcp.NewTool(
		"content_cache_stats",
		mcp.WithDescription("Report item counts, hit rate, evictions and memory usage of the outline/content cache."),
		mcp.WithTitleAnnotation("Content Cache Stats"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (h *CacheHandler) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_ = request
	stats, err := h.cacheService.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("%d items (%d outlines, %d contents), hit rate %.2f, %s",
		stats.TotalItems, stats.OutlineItems, stats.ContentItems, stats.HitRate, stats.HumanMemory)
	return mcp.NewToolResultStructured(stats, fallback), nil
}

func (h *CacheHandler) toolGetOutline() mcp.Tool {
	return mcp.NewTool(
		"content_cache_get_outline",
		mcp.WithDescription("Read a cached outline by key without counting it as a cache access."),
		mcp.WithTitleAnnotation("Get Cached Outline"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("key",
			mcp.Description("The outline cache key, e.g. outline:3f2a..."),
			mcp.Required(),
		),
	)
}

func (h *CacheHandler) handleGetOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return nil, err
	}

	entry, err := h.cacheService.GetOutline(ctx, key)
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("Outline %q with %d sections", entry.Data.Title, len(entry.Data.Sections))
	return mcp.NewToolResultStructured(entry, fallback), nil
}

func (h *CacheHandler) toolGetContent() mcp.Tool {
	return mcp.NewTool(
		"content_cache_get_content",
		mcp.WithDescription("Read a cached article by key without counting it as a cache access."),
		mcp.WithTitleAnnotation("Get Cached Content"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("key",
			mcp.Description("The content cache key, e.g. content:9b1c..."),
			mcp.Required(),
		),
	)
}

func (h *CacheHandler) handleGetContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return nil, err
	}

	entry, err := h.cacheService.GetContent(ctx, key)
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("Content %q (%s)", entry.Data.Title, entry.HumanSize)
	return mcp.NewToolResultStructured(entry, fallback), nil
}

func (h *CacheHandler) toolClear() mcp.Tool {
	return mcp.NewTool(
		"content_cache_clear",
		mcp.WithDescription("Remove every outline and article from this server's cache and reset its counters."),
		mcp.WithTitleAnnotation("Clear Content Cache"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (h *CacheHandler) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_ = request
	if err := h.cacheService.Clear(ctx); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText("Content cache cleared"), nil
}

func (h *CacheHandler) toolGenerateOutline() mcp.Tool {
	return mcp.NewTool(
		"content_generate_outline",
		mcp.WithDescription("Generate an SEO article outline for a topic. Identical requests are served from the cache."),
		mcp.WithTitleAnnotation("Generate Outline"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("topic",
			mcp.Description("What the article is about."),
			mcp.Required(),
		),
		mcp.WithString("keyword",
			mcp.Description("Focus keyword to optimise for."),
		),
		mcp.WithString("audience",
			mcp.Description("Intended readers."),
		),
		mcp.WithString("tone",
			mcp.Description("Writing tone, e.g. friendly or technical."),
		),
		mcp.WithString("language",
			mcp.Description("Language code of the outline, e.g. en or es."),
		),
		mcp.WithNumber("sections",
			mcp.Description("Number of sections to plan."),
		),
	)
}

func (h *CacheHandler) handleGenerateOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return nil, err
	}

	result, err := h.generatorService.GenerateOutline(ctx, domainGenerator.OutlineRequest{
		Topic:    topic,
		Keyword:  request.GetString("keyword", ""),
		Audience: request.GetString("audience", ""),
		Tone:     request.GetString("tone", ""),
		Language: request.GetString("language", ""),
		Sections: request.GetInt("sections", 0),
	})
	if err != nil {
		return nil, err
	}

	source := "generated"
	if result.Cached {
		source = "cached"
	}
	fallback := fmt.Sprintf("Outline %q (%s, key %s)", result.Outline.Title, source, result.Key)
	return mcp.NewToolResultStructured(result, fallback), nil
}
