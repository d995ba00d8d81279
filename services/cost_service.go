// services/cost_service.go
package services

import "strings"

type costService struct{}

func NewCostService() CostService {
	return &costService{}
}

// modelPricing is dollars per 1M tokens, from the vendors' published rates.
type modelPricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Pricing for the models the three audit providers can be configured with
// (internal/config model env vars). Unknown models bill at defaultModel
// rates so an audit never runs with silently zero cost.
const defaultModel = "gpt-4.1"

var modelPrices = map[string]modelPricing{
	"gpt-5":                    {InputPerMTok: 1.25, OutputPerMTok: 10.00},
	"gpt-5-mini":               {InputPerMTok: 0.25, OutputPerMTok: 2.00},
	"gpt-4.1":                  {InputPerMTok: 3.00, OutputPerMTok: 12.00},
	"gpt-4.1-mini":             {InputPerMTok: 0.80, OutputPerMTok: 3.20},
	"gpt-4o-2024-08-06":        {InputPerMTok: 2.50, OutputPerMTok: 10.00},
	"claude-sonnet-4-20250514": {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"sonar":                    {InputPerMTok: 1.00, OutputPerMTok: 1.00}, // Perplexity publishes request-tier pricing; token rate estimated
}

// Dollars per 1000 web searches.
var searchPricePerK = map[string]float64{
	"openai":     35.00,
	"anthropic":  10.00,
	"perplexity": 8.00,
}

func (s *costService) CalculateCost(provider string, model string, inputTokens int, outputTokens int, websearch bool) float64 {
	pricing, ok := modelPrices[model]
	if !ok {
		pricing = modelPrices[defaultModel]
	}

	cost := float64(inputTokens)/1_000_000.0*pricing.InputPerMTok +
		float64(outputTokens)/1_000_000.0*pricing.OutputPerMTok

	if websearch {
		if perK, ok := searchPricePerK[s.providerKey(provider)]; ok {
			cost += perK / 1000.0
		}
	}
	return cost
}

// providerKey normalizes a provider or model identifier to one of the three
// platforms this service bills for. Unrecognized identifiers bill as openai.
func (s *costService) providerKey(provider string) string {
	provider = strings.ToLower(provider)
	switch {
	case strings.Contains(provider, "anthropic"), strings.Contains(provider, "claude"):
		return "anthropic"
	case strings.Contains(provider, "perplexity"), strings.Contains(provider, "sonar"):
		return "perplexity"
	default:
		return "openai"
	}
}
