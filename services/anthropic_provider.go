// services/anthropic_provider.go
package services

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
)

type anthropicProvider struct {
	client      *anthropic.Client
	model       string
	costService CostService
}

func NewAnthropicProvider(cfg *config.Config, model string, costService CostService) AIProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AnthropicAPIKey),
	)

	return &anthropicProvider{
		client:      &client,
		model:       model,
		costService: costService,
	}
}

func (p *anthropicProvider) GetProviderName() string {
	return "anthropic"
}

func (p *anthropicProvider) RunQuery(ctx context.Context, query string) (*AIResponse, error) {
	messages := []anthropic.MessageParam{{
		Content: []anthropic.ContentBlockParamUnion{{
			OfText: &anthropic.TextBlockParam{Text: query},
		}},
		Role: anthropic.MessageParamRoleUser,
	}}

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   2000,
		Messages:    messages,
		Temperature: anthropic.Float(0.7),
		System: []anthropic.TextBlockParam{{
			Text: "You are a helpful assistant answering shopping and product questions. Name specific brands and products where relevant.",
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("message request failed: %w", err)
	}

	text := p.extractResponseText(response)
	if text == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	inputTokens := int(response.Usage.InputTokens)
	outputTokens := int(response.Usage.OutputTokens)

	return &AIResponse{
		Response:     text,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         p.costService.CalculateCost(p.GetProviderName(), p.model, inputTokens, outputTokens, false),
	}, nil
}

func (p *anthropicProvider) extractResponseText(response *anthropic.Message) string {
	var full string
	for _, block := range response.Content {
		if block.Type == "text" {
			full += block.Text
		}
	}
	return full
}
