package generator

import (
	"context"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/seo"
)

type OutlineRequest struct {
	Topic    string `json:"topic"`
	Keyword  string `json:"keyword"`
	Audience string `json:"audience,omitempty"`
	Tone     string `json:"tone,omitempty"`
	Language string `json:"language,omitempty"`
	Sections int    `json:"sections,omitempty"`
}

type ContentRequest struct {
	Outline   cacheDomain.Outline `json:"outline"`
	Keyword   string              `json:"keyword,omitempty"`
	Tone      string              `json:"tone,omitempty"`
	Language  string              `json:"language,omitempty"`
	WordCount int                 `json:"word_count,omitempty"`
}

// Usage is the token accounting a provider reports for one call.
type Usage struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

type OutlineResult struct {
	RequestID string              `json:"request_id"`
	Key       string              `json:"key"`
	Cached    bool                `json:"cached"`
	Outline   cacheDomain.Outline `json:"outline"`
	Usage     *Usage              `json:"usage,omitempty"`
}

type ContentResult struct {
	RequestID string              `json:"request_id"`
	Key       string              `json:"key"`
	Cached    bool                `json:"cached"`
	Content   cacheDomain.Content `json:"content"`
	SEO       *seo.Report         `json:"seo,omitempty"`
	Usage     *Usage              `json:"usage,omitempty"`
}

const (
	PrefetchQueued  = "queued"
	PrefetchCached  = "cached"
	PrefetchPending = "pending"
)

type PrefetchResult struct {
	JobID  string `json:"job_id"`
	Key    string `json:"key"`
	Status string `json:"status"`
}

// IProvider is an AI backend able to produce outlines and articles.
type IProvider interface {
	Name() string
	GenerateOutline(ctx context.Context, req OutlineRequest) (cacheDomain.Outline, Usage, error)
	GenerateContent(ctx context.Context, req ContentRequest) (cacheDomain.Content, Usage, error)
}

type IGeneratorUsecase interface {
	GenerateOutline(ctx context.Context, req OutlineRequest) (OutlineResult, error)
	GenerateContent(ctx context.Context, req ContentRequest) (ContentResult, error)
	PrefetchOutline(ctx context.Context, req OutlineRequest) (PrefetchResult, error)
}
