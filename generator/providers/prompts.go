package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
)

const outlineSystemPrompt = `You are an SEO content strategist. You plan articles as a title plus an ordered list of sections.
Answer ONLY with JSON of the form {"title": string, "sections": [{"title": string, "summary": string, "keywords": [string]}]}.`

const contentSystemPrompt = `You are an SEO copywriter. You write complete articles in semantic HTML (h2/h3 headings, p, ul/ol, a) from an outline.
Answer ONLY with JSON of the form {"title": string, "html_body": string, "meta_description": string}.
The meta description is 70 to 160 characters and mentions the focus keyword.`

func outlineUserPrompt(req domainGenerator.OutlineRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	if req.Keyword != "" {
		fmt.Fprintf(&b, "Focus keyword: %s\n", req.Keyword)
	}
	if req.Audience != "" {
		fmt.Fprintf(&b, "Audience: %s\n", req.Audience)
	}
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	}
	sections := req.Sections
	if sections <= 0 {
		sections = 6
	}
	fmt.Fprintf(&b, "Number of sections: %d\n", sections)
	fmt.Fprintf(&b, "Write in language: %s\n", languageOrDefault(req.Language))
	return b.String()
}

func contentUserPrompt(req domainGenerator.ContentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Article title: %s\n", req.Outline.Title)
	keyword := req.Keyword
	if keyword == "" {
		keyword = req.Outline.Keyword
	}
	if keyword != "" {
		fmt.Fprintf(&b, "Focus keyword: %s\n", keyword)
	}
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	}
	if req.WordCount > 0 {
		fmt.Fprintf(&b, "Target length: about %d words\n", req.WordCount)
	}
	fmt.Fprintf(&b, "Write in language: %s\n", languageOrDefault(req.Language))
	b.WriteString("Outline:\n")
	for i, s := range req.Outline.Sections {
		fmt.Fprintf(&b, "%d. %s", i+1, s.Title)
		if s.Summary != "" {
			fmt.Fprintf(&b, " (%s)", s.Summary)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func languageOrDefault(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return "en"
	}
	return lang
}

// stripFences removes a markdown code fence some models wrap JSON answers in.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeOutline(raw string, keyword string) (cacheDomain.Outline, error) {
	var out cacheDomain.Outline
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return cacheDomain.Outline{}, fmt.Errorf("failed to decode outline: %w", err)
	}
	if out.Keyword == "" {
		out.Keyword = keyword
	}
	return out, nil
}

func decodeContent(raw string, keyword string) (cacheDomain.Content, error) {
	var out cacheDomain.Content
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return cacheDomain.Content{}, fmt.Errorf("failed to decode content: %w", err)
	}
	if out.Keyword == "" {
		out.Keyword = keyword
	}
	return out, nil
}

// outlineSchema is the strict JSON schema of an outline answer.
var outlineSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
		"sections": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":    map[string]any{"type": "string"},
					"summary":  map[string]any{"type": "string"},
					"keywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required":             []string{"title", "summary", "keywords"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"title", "sections"},
	"additionalProperties": false,
}

// contentSchema is the strict JSON schema of an article answer.
var contentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":            map[string]any{"type": "string"},
		"html_body":        map[string]any{"type": "string"},
		"meta_description": map[string]any{"type": "string"},
	},
	"required":             []string{"title", "html_body", "meta_description"},
	"additionalProperties": false,
}
