// services/question_runner_service.go
package services

import (
	"context"
	"fmt"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

type questionRunnerService struct {
	providers []AIProvider
}

// NewQuestionRunnerService builds the runner over the given providers.
// Provider order is preserved in logs but the result map is keyed by
// provider name, so ordering does not affect analysis.
func NewQuestionRunnerService(providers []AIProvider) QuestionRunnerService {
	return &questionRunnerService{providers: providers}
}

// RunQueryMatrix executes every query against every provider. A provider
// failure on one query is logged and recorded as an absent response; the
// batch always completes so a single flaky platform cannot sink an audit.
func (s *questionRunnerService) RunQueryMatrix(ctx context.Context, queries []models.GeneratedQuery) ([]models.QueryResult, error) {
	fmt.Printf("[RunQueryMatrix] Processing %d queries across %d providers\n", len(queries), len(s.providers))

	results := make([]models.QueryResult, 0, len(queries))
	var totalCost float64
	var failures int

	for _, query := range queries {
		result := models.QueryResult{
			QueryText: query.Text,
			Category:  query.Category,
			Responses: make(map[string]string, len(s.providers)),
		}

		for _, provider := range s.providers {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			resp, err := provider.RunQuery(ctx, query.Text)
			if err != nil {
				fmt.Printf("[RunQueryMatrix] Error from %s on %q: %v\n", provider.GetProviderName(), query.Text, err)
				failures++
				continue
			}

			result.Responses[provider.GetProviderName()] = resp.Response
			totalCost += resp.Cost
		}

		results = append(results, result)
	}

	fmt.Printf("[RunQueryMatrix] Completed: %d results, %d provider failures, $%.4f total cost\n",
		len(results), failures, totalCost)
	return results, nil
}
