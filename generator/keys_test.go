package generator

import (
	"strings"
	"testing"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	"github.com/stretchr/testify/assert"
)

func TestOutlineKey_Normalizes(t *testing.T) {
	a := OutlineKey(domainGenerator.OutlineRequest{Topic: "Go Caching", Keyword: "LRU"})
	b := OutlineKey(domainGenerator.OutlineRequest{Topic: "  go caching ", Keyword: "lru"})
	c := OutlineKey(domainGenerator.OutlineRequest{Topic: "Go Caching", Keyword: "LRU", Sections: 5})

	assert.True(t, strings.HasPrefix(a, OutlineKeyPrefix))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestOutlineKey_FieldBoundaries(t *testing.T) {
	a := OutlineKey(domainGenerator.OutlineRequest{Topic: "ab", Keyword: "c"})
	b := OutlineKey(domainGenerator.OutlineRequest{Topic: "a", Keyword: "bc"})
	assert.NotEqual(t, a, b)
}

func TestContentKey_DependsOnOutline(t *testing.T) {
	outline := cacheDomain.Outline{Title: "Caching", Sections: []cacheDomain.Section{{Title: "Intro"}}}
	a := ContentKey(domainGenerator.ContentRequest{Outline: outline})

	outline.Sections = append(outline.Sections, cacheDomain.Section{Title: "Eviction"})
	b := ContentKey(domainGenerator.ContentRequest{Outline: outline})

	assert.True(t, strings.HasPrefix(a, ContentKeyPrefix))
	assert.NotEqual(t, a, b)
}
