package validations

import (
	"context"
	"strings"
	"testing"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainCache "github.com/AzielCF/az-content/domains/cache"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/stretchr/testify/assert"
)

func TestValidateOutlineRequest(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateOutlineRequest(ctx, domainGenerator.OutlineRequest{Topic: "Go caching", Sections: 5}))

	err := ValidateOutlineRequest(ctx, domainGenerator.OutlineRequest{Topic: ""})
	assert.IsType(t, pkgError.ValidationError(""), err)
	assert.ErrorContains(t, err, "topic")

	err = ValidateOutlineRequest(ctx, domainGenerator.OutlineRequest{Topic: "Go caching", Sections: MaxOutlineSections + 1})
	assert.ErrorContains(t, err, "sections")
}

func TestValidateContentRequest(t *testing.T) {
	ctx := context.Background()
	outline := cacheDomain.Outline{Title: "Caching", Sections: []cacheDomain.Section{{Title: "Intro"}}}

	assert.NoError(t, ValidateContentRequest(ctx, domainGenerator.ContentRequest{Outline: outline, WordCount: 800}))

	err := ValidateContentRequest(ctx, domainGenerator.ContentRequest{Outline: cacheDomain.Outline{Title: "No sections"}})
	assert.ErrorContains(t, err, "outline")

	err = ValidateContentRequest(ctx, domainGenerator.ContentRequest{Outline: outline, WordCount: -1})
	assert.ErrorContains(t, err, "word_count")
}

func TestValidateCacheKey(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ValidateCacheKey(ctx, "outline:abc"))
	assert.Error(t, ValidateCacheKey(ctx, ""))
	assert.Error(t, ValidateCacheKey(ctx, strings.Repeat("k", MaxKeyLength+1)))
}

func TestValidateOutlineAndContent(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ValidateOutline(ctx, cacheDomain.Outline{Title: "T", Sections: []cacheDomain.Section{}}))
	assert.Error(t, ValidateOutline(ctx, cacheDomain.Outline{Title: "T"}))
	assert.NoError(t, ValidateContent(ctx, cacheDomain.Content{Title: "T", HTMLBody: "<p>x</p>"}))
	assert.Error(t, ValidateContent(ctx, cacheDomain.Content{Title: "T"}))
	assert.NoError(t, ValidateContent(ctx, cacheDomain.Content{Title: " ", HTMLBody: "  "}))
}

func TestValidateCacheSettings(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ValidateCacheSettings(ctx, domainCache.CacheSettings{MaxSize: 10, EvictionPolicy: "lru"}))

	err := ValidateCacheSettings(ctx, domainCache.CacheSettings{MaxSize: 0, EvictionPolicy: "lru"})
	assert.ErrorContains(t, err, "max_size")

	err = ValidateCacheSettings(ctx, domainCache.CacheSettings{MaxSize: 10, EvictionPolicy: "fifo"})
	assert.ErrorContains(t, err, "eviction_policy")
}
