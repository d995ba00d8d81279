// services/sentiment_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
	"github.com/AI-Template-SDK/geo-workflows/internal/models"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type neutralSentimentScorer struct{}

// NewNeutralSentimentScorer returns the default scorer: a constant neutral
// 5.0 for every brand. Discovery treats sentiment as a pluggable hook, so
// swapping in a real model is a wiring change only.
func NewNeutralSentimentScorer() SentimentScorer {
	return &neutralSentimentScorer{}
}

func (s *neutralSentimentScorer) Score(ctx context.Context, brand string, snippets []string) (float64, error) {
	return models.NeutralSentiment, nil
}

// SentimentResponse is the structured output schema for the LLM scorer.
type SentimentResponse struct {
	Score     float64 `json:"score" jsonschema_description:"Sentiment toward the brand on a 0-10 scale where 0 is strongly negative, 5 is neutral, 10 is strongly positive"`
	Rationale string  `json:"rationale" jsonschema_description:"One sentence explaining the score"`
}

type openAISentimentScorer struct {
	client *openai.Client
	model  string
}

// NewOpenAISentimentScorer returns an LLM-backed scorer using OpenAI
// structured outputs. Callers should fall back to neutral on error rather
// than failing discovery.
func NewOpenAISentimentScorer(cfg *config.Config) SentimentScorer {
	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
	)
	return &openAISentimentScorer{
		client: &client,
		model:  cfg.OpenAIModel,
	}
}

func (s *openAISentimentScorer) Score(ctx context.Context, brand string, snippets []string) (float64, error) {
	if len(snippets) == 0 {
		return models.NeutralSentiment, nil
	}

	prompt := fmt.Sprintf(`Rate the overall sentiment toward the brand %q expressed in the following excerpts from AI assistant responses. Score 0-10 where 0 is strongly negative, 5 is neutral, 10 is strongly positive.

Excerpts:
%s`, brand, strings.Join(snippets, "\n---\n"))

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "brand_sentiment_score",
		Description: openai.String("Score brand sentiment from response excerpts"),
		Schema:      GenerateSchema[SentimentResponse](),
		Strict:      openai.Bool(true),
	}

	chatResponse, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a brand sentiment analyst. Score sentiment strictly from the provided excerpts."),
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(s.model),
		Temperature: openai.Float(0.1),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
	})
	if err != nil {
		return models.NeutralSentiment, fmt.Errorf("sentiment call failed: %w", err)
	}

	if len(chatResponse.Choices) == 0 {
		return models.NeutralSentiment, fmt.Errorf("no response choices returned from OpenAI")
	}

	var parsed SentimentResponse
	if err := json.Unmarshal([]byte(chatResponse.Choices[0].Message.Content), &parsed); err != nil {
		return models.NeutralSentiment, fmt.Errorf("failed to parse sentiment response: %w", err)
	}

	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 10 {
		parsed.Score = 10
	}
	return parsed.Score, nil
}
