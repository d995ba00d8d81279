// services/openai_provider.go
package services

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
)

type openAIProvider struct {
	client      *openai.Client
	model       string
	costService CostService
}

func NewOpenAIProvider(cfg *config.Config, model string, costService CostService) AIProvider {
	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
	)
	fmt.Printf("[NewOpenAIProvider] Using model %s via api.openai.com\n", model)

	return &openAIProvider{
		client:      &client,
		model:       model,
		costService: costService,
	}
}

func (p *openAIProvider) GetProviderName() string {
	return "openai"
}

// RunQuery asks the model the query as a consumer would, unstructured.
// The mention extractor reads the prose directly, so no schema is imposed
// on the answer.
func (p *openAIProvider) RunQuery(ctx context.Context, query string) (*AIResponse, error) {
	response, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a helpful assistant that provides accurate, comprehensive answers to shopping and product questions. Name specific brands and products where relevant."),
			openai.UserMessage(query),
		},
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	inputTokens := int(response.Usage.PromptTokens)
	outputTokens := int(response.Usage.CompletionTokens)

	return &AIResponse{
		Response:     response.Choices[0].Message.Content,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         p.costService.CalculateCost(p.GetProviderName(), p.model, inputTokens, outputTokens, false),
	}, nil
}

// CreateEmbedding returns the embedding vector for one text. The indexing
// layer uses this when pushing responses into the vector store.
func (p *openAIProvider) CreateEmbedding(ctx context.Context, text, embeddingModel string) ([]float32, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model: openai.EmbeddingModel(embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data returned")
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
