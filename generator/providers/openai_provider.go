package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider generates outlines and articles with the Chat Completions API.
type OpenAIProvider struct {
	apiKey string
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIProvider{apiKey: apiKey, model: model}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) GenerateOutline(ctx context.Context, req domainGenerator.OutlineRequest) (cacheDomain.Outline, domainGenerator.Usage, error) {
	raw, usage, err := p.complete(ctx, outlineSystemPrompt, outlineUserPrompt(req), "content_outline", outlineSchema)
	if err != nil {
		return cacheDomain.Outline{}, usage, err
	}
	out, err := decodeOutline(raw, req.Keyword)
	return out, usage, err
}

func (p *OpenAIProvider) GenerateContent(ctx context.Context, req domainGenerator.ContentRequest) (cacheDomain.Content, domainGenerator.Usage, error) {
	keyword := req.Keyword
	if keyword == "" {
		keyword = req.Outline.Keyword
	}
	raw, usage, err := p.complete(ctx, contentSystemPrompt, contentUserPrompt(req), "content_article", contentSchema)
	if err != nil {
		return cacheDomain.Content{}, usage, err
	}
	out, err := decodeContent(raw, keyword)
	return out, usage, err
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user, schemaName string, schema map[string]any) (string, domainGenerator.Usage, error) {
	usage := domainGenerator.Usage{Provider: p.Name(), Model: p.model}
	if p.apiKey == "" {
		return "", usage, errors.New("openai api key is not configured")
	}

	client := openai.NewClient(
		option.WithAPIKey(p.apiKey),
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: any(schema),
					Strict: openai.Bool(true),
				},
			},
		},
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", usage, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", usage, errors.New("openai returned no choices")
	}

	usage.InputTokens = completion.Usage.PromptTokens
	usage.OutputTokens = completion.Usage.CompletionTokens
	logrus.WithFields(logrus.Fields{
		"model":         p.model,
		"schema":        schemaName,
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
	}).Debug("[GENERATOR] OpenAI usage recorded")

	return completion.Choices[0].Message.Content, usage, nil
}
