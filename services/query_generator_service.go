// services/query_generator_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

// Query mix: generic queries dominate because organic visibility is what
// the discovery and gap layers measure. Fractions are over the generic and
// branded share only.
const (
	genericQueryFraction = 0.692
	defaultTotalQueries  = 30
)

type queryGeneratorService struct {
	client *anthropic.Client
	model  string
}

// NewQueryGeneratorService builds a Claude-backed generator. With an empty
// API key the service still works, falling back to deterministic templates.
func NewQueryGeneratorService(cfg *config.Config) QueryGeneratorService {
	svc := &queryGeneratorService{model: cfg.AnthropicModel}
	if cfg.AnthropicAPIKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
		svc.client = &client
	}
	return svc
}

func (s *queryGeneratorService) GenerateQueries(ctx context.Context, brand, industry string, productCategories []string, totalQueries int) ([]models.GeneratedQuery, error) {
	if strings.TrimSpace(brand) == "" {
		return nil, ErrInvalidBrandName
	}
	if totalQueries <= 0 {
		totalQueries = defaultTotalQueries
	}

	genericCount := int(float64(totalQueries) * genericQueryFraction)
	if genericCount < 1 {
		genericCount = 1
	}
	brandedCount := totalQueries - genericCount

	fmt.Printf("[GenerateQueries] Generating %d generic + %d branded queries for %s\n", genericCount, brandedCount, brand)

	generic := s.generateSet(ctx, genericPrompt(industry, productCategories, genericCount), genericCount,
		func() []string { return genericTemplates(industry, productCategories) })
	branded := s.generateSet(ctx, brandedPrompt(brand, productCategories, brandedCount), brandedCount,
		func() []string { return brandedTemplates(brand, productCategories) })

	queries := make([]models.GeneratedQuery, 0, totalQueries)
	for _, q := range generic {
		queries = append(queries, models.GeneratedQuery{Text: q, Category: models.CategoryGeneric})
	}
	for _, q := range branded {
		queries = append(queries, models.GeneratedQuery{Text: q, Category: models.CategoryBranded})
	}
	return queries, nil
}

// generateSet asks Claude for a newline-delimited query list, falling back
// to templates when the call fails or no client is configured.
func (s *queryGeneratorService) generateSet(ctx context.Context, prompt string, count int, fallback func() []string) []string {
	if s.client != nil {
		queries, err := s.askClaude(ctx, prompt)
		if err != nil {
			fmt.Printf("[generateSet] Claude generation failed, using templates: %v\n", err)
		} else if len(queries) > 0 {
			return capList(queries, count)
		}
	}
	return capList(fallback(), count)
}

func (s *queryGeneratorService) askClaude(ctx context.Context, prompt string) ([]string, error) {
	response, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 2000,
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("message request failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	var queries []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			queries = append(queries, line)
		}
	}
	return queries, nil
}

func genericPrompt(industry string, productCategories []string, count int) string {
	return fmt.Sprintf(`Generate %d natural, conversational search queries for the %s industry. These should be generic questions people would ask without mentioning any specific brand.

Product categories to focus on: %s

Requirements:
- NO brand names mentioned
- Natural language (how people actually search)
- Mix of "what's the best...", "where to buy...", "how to choose...", problem-solving and category-level comparison queries
- Lowercase, conversational tone
- No numbering, just the queries, one per line

Now generate %d queries:`, count, industry, strings.Join(productCategories, ", "), count)
}

func brandedPrompt(brand string, productCategories []string, count int) string {
	return fmt.Sprintf(`Generate %d natural search queries that specifically mention "%s".

Product categories: %s

Requirements:
- Every query must include "%s"
- Mix of "Does %s...", "Is %s...", "How to use %s...", "%s vs..." and product-specific questions
- Natural, conversational language
- Lowercase
- No numbering, one query per line

Now generate %d queries:`, count, brand, strings.Join(productCategories, ", "), brand, brand, brand, brand, brand, count)
}

// Template fallbacks keep the pipeline runnable offline and in tests.

func genericTemplates(industry string, productCategories []string) []string {
	cats := productCategories
	if len(cats) == 0 {
		cats = []string{industry + " products"}
	}

	var out []string
	for _, cat := range cats {
		out = append(out,
			fmt.Sprintf("what are the best %s", cat),
			fmt.Sprintf("how to choose %s", cat),
			fmt.Sprintf("where to buy quality %s", cat),
			fmt.Sprintf("most durable %s brands", cat),
			fmt.Sprintf("best %s for beginners", cat),
		)
	}
	return out
}

func brandedTemplates(brand string, productCategories []string) []string {
	cats := productCategories
	if len(cats) == 0 {
		cats = []string{"products"}
	}

	var out []string
	for _, cat := range cats {
		out = append(out,
			fmt.Sprintf("is %s good for %s", brand, cat),
			fmt.Sprintf("does %s make quality %s", brand, cat),
			fmt.Sprintf("%s %s review", brand, cat),
		)
	}
	out = append(out, fmt.Sprintf("is %s worth the price", brand))
	return out
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}
