package services_test

import (
	"math"
	"testing"

	"github.com/AI-Template-SDK/geo-workflows/services"
)

func TestCalculateCost(t *testing.T) {
	svc := services.NewCostService()

	tests := []struct {
		name         string
		provider     string
		model        string
		inputTokens  int
		outputTokens int
		webSearch    bool
		want         float64
	}{
		{
			name:         "gpt-4.1 token pricing",
			provider:     "openai",
			model:        "gpt-4.1",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         15.00,
		},
		{
			name:         "claude sonnet token pricing",
			provider:     "anthropic",
			model:        "claude-sonnet-4-20250514",
			inputTokens:  500_000,
			outputTokens: 100_000,
			want:         1.50 + 1.50,
		},
		{
			name:         "unknown model falls back to gpt-4.1 rates",
			provider:     "openai",
			model:        "gpt-99-turbo",
			inputTokens:  1_000_000,
			outputTokens: 0,
			want:         3.00,
		},
		{
			name:         "openai web search surcharge",
			provider:     "openai",
			model:        "gpt-4.1",
			inputTokens:  0,
			outputTokens: 0,
			webSearch:    true,
			want:         0.035,
		},
		{
			name:         "perplexity web search surcharge",
			provider:     "perplexity",
			model:        "sonar",
			inputTokens:  1_000_000,
			outputTokens: 0,
			webSearch:    true,
			want:         1.00 + 0.008,
		},
		{
			name:         "provider key sniffed from model family",
			provider:     "claude-desktop",
			model:        "claude-sonnet-4-20250514",
			inputTokens:  0,
			outputTokens: 0,
			webSearch:    true,
			want:         0.010,
		},
		{
			name:         "zero tokens cost nothing",
			provider:     "openai",
			model:        "gpt-5",
			inputTokens:  0,
			outputTokens: 0,
			want:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.CalculateCost(tt.provider, tt.model, tt.inputTokens, tt.outputTokens, tt.webSearch)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculateCost() = %f, want %f", got, tt.want)
			}
		})
	}
}
