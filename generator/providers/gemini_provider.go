package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider generates outlines and articles with the Gemini API in JSON mode.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) GenerateOutline(ctx context.Context, req domainGenerator.OutlineRequest) (cacheDomain.Outline, domainGenerator.Usage, error) {
	raw, usage, err := p.generate(ctx, outlineSystemPrompt, outlineUserPrompt(req), &genai.Schema{
		Type: "object",
		Properties: map[string]*genai.Schema{
			"title": {Type: "string"},
			"sections": {
				Type: "array",
				Items: &genai.Schema{
					Type: "object",
					Properties: map[string]*genai.Schema{
						"title":    {Type: "string"},
						"summary":  {Type: "string"},
						"keywords": {Type: "array", Items: &genai.Schema{Type: "string"}},
					},
					Required: []string{"title"},
				},
			},
		},
		Required: []string{"title", "sections"},
	})
	if err != nil {
		return cacheDomain.Outline{}, usage, err
	}
	out, err := decodeOutline(raw, req.Keyword)
	return out, usage, err
}

func (p *GeminiProvider) GenerateContent(ctx context.Context, req domainGenerator.ContentRequest) (cacheDomain.Content, domainGenerator.Usage, error) {
	keyword := req.Keyword
	if keyword == "" {
		keyword = req.Outline.Keyword
	}
	raw, usage, err := p.generate(ctx, contentSystemPrompt, contentUserPrompt(req), &genai.Schema{
		Type: "object",
		Properties: map[string]*genai.Schema{
			"title":            {Type: "string"},
			"html_body":        {Type: "string"},
			"meta_description": {Type: "string"},
		},
		Required: []string{"title", "html_body", "meta_description"},
	})
	if err != nil {
		return cacheDomain.Content{}, usage, err
	}
	out, err := decodeContent(raw, keyword)
	return out, usage, err
}

func (p *GeminiProvider) generate(ctx context.Context, system, user string, schema *genai.Schema) (string, domainGenerator.Usage, error) {
	usage := domainGenerator.Usage{Provider: p.Name(), Model: p.model}
	if p.apiKey == "" {
		return "", usage, errors.New("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", usage, fmt.Errorf("failed to create gemini client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction:  genai.NewContentFromText(system, ""),
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: schema,
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: user}}}}

	result, err := p.generateContentWithRetry(ctx, client, contents, cfg)
	if err != nil {
		return "", usage, fmt.Errorf("gemini generation failed: %w", err)
	}

	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
	}
	logrus.WithFields(logrus.Fields{
		"model":         p.model,
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
	}).Debug("[GENERATOR] Gemini usage recorded")

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", usage, errors.New("gemini returned an empty answer")
	}
	return text, usage, nil
}

// generateContentWithRetry retries 503 answers with exponential backoff.
func (p *GeminiProvider) generateContentWithRetry(ctx context.Context, client *genai.Client, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	for i := 0; i < 3; i++ {
		result, err := client.Models.GenerateContent(ctx, p.model, contents, cfg)
		if err == nil {
			return result, nil
		}
		if !strings.Contains(err.Error(), "503") {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(1<<uint(i)) * time.Second):
		}
	}
	return nil, fmt.Errorf("max retries exceeded")
}
