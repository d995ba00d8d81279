// cmd/test_providers/main.go
//
// Smoke tool: sends one query to each configured provider and prints the
// responses, tokens, and cost. Providers without an API key are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
	"github.com/AI-Template-SDK/geo-workflows/services"
)

func main() {
	query := flag.String("query", "what are the best running shoes for beginners", "query to send")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Note: no .env file loaded: %v", err)
	}
	cfg := config.Load()
	costService := services.NewCostService()

	type namedProvider struct {
		provider services.AIProvider
		apiKey   string
	}
	providers := []namedProvider{
		{services.NewOpenAIProvider(cfg, cfg.OpenAIModel, costService), cfg.OpenAIAPIKey},
		{services.NewAnthropicProvider(cfg, cfg.AnthropicModel, costService), cfg.AnthropicAPIKey},
		{services.NewPerplexityProvider(cfg, cfg.PerplexityModel, costService), cfg.PerplexityAPIKey},
	}

	for _, np := range providers {
		name := np.provider.GetProviderName()
		if np.apiKey == "" {
			fmt.Printf("--- %s: skipped (no API key)\n", name)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		start := time.Now()
		resp, err := np.provider.RunQuery(ctx, *query)
		cancel()

		if err != nil {
			fmt.Printf("--- %s: FAILED after %s: %v\n", name, time.Since(start).Round(time.Millisecond), err)
			continue
		}
		fmt.Printf("--- %s: ok in %s (%d in / %d out tokens, $%.5f)\n",
			name, time.Since(start).Round(time.Millisecond), resp.InputTokens, resp.OutputTokens, resp.Cost)
		preview := resp.Response
		if len(preview) > 300 {
			preview = preview[:300] + "..."
		}
		fmt.Println(preview)
	}
}
