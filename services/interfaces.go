// services/interfaces.go
package services

import (
	"context"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
)

// AIProvider is one AI answer platform (OpenAI, Anthropic, Perplexity, ...).
// Implementations own their transport and cost accounting; callers treat a
// provider error as a skipped response, never a fatal batch failure.
type AIProvider interface {
	GetProviderName() string
	RunQuery(ctx context.Context, query string) (*AIResponse, error)
}

// AIResponse contains the response from an AI provider.
type AIResponse struct {
	Response     string
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// CostService calculates the dollar cost of provider calls.
type CostService interface {
	CalculateCost(provider, model string, inputTokens, outputTokens int, webSearch bool) float64
}

// SentimentScorer scores brand sentiment on a 0-10 scale from mention
// context snippets. The default implementation returns a neutral constant;
// an LLM-backed scorer can be substituted without touching discovery.
type SentimentScorer interface {
	Score(ctx context.Context, brand string, snippets []string) (float64, error)
}

// CompetitorDiscoveryService discovers and ranks competitors from generic
// query results.
type CompetitorDiscoveryService interface {
	DiscoverCompetitors(ctx context.Context, results []models.QueryResult, targetBrand string, seedList []string, maxCompetitors int) ([]models.CompetitorMetrics, error)
}

// GapAnalysisService flags queries where a competitor outperforms the
// target brand, clustered by theme and ordered by priority.
// knownCompetitors is the roster from discovery (or a manually supplied
// list); a competitorName outside the roster returns ErrNoCompetitorData.
// A nil roster skips the check.
type GapAnalysisService interface {
	IdentifyGaps(ctx context.Context, results []models.QueryResult, targetBrand, competitorName string, knownCompetitors []string, maxPriorityGaps int) ([]models.GapCluster, error)
}

// RecommendationService turns prioritized gap clusters into an ordered
// action list.
type RecommendationService interface {
	GenerateRecommendations(gapClusters []models.GapCluster, targetBrand string) ([]models.Recommendation, error)
}

// AuditInput is everything the orchestrator needs for one audit run. The
// origin of Results (live providers, a JSON file, a database) is not the
// orchestrator's concern.
type AuditInput struct {
	Brand           string
	Industry        string
	SeedCompetitors []string
	MaxCompetitors  int
	MaxPriorityGaps int
	Results         []models.QueryResult
}

// AuditService sequences discovery, per-competitor gap analysis, and
// recommendation generation over an already-executed query result set.
type AuditService interface {
	RunAudit(ctx context.Context, input AuditInput) (*models.AuditResult, error)
}

// QueryGeneratorService produces the generic/branded query set for a brand.
type QueryGeneratorService interface {
	GenerateQueries(ctx context.Context, brand, industry string, productCategories []string, totalQueries int) ([]models.GeneratedQuery, error)
}

// QuestionRunnerService executes generated queries against every configured
// AI platform, producing the immutable result set the analysis layer reads.
type QuestionRunnerService interface {
	RunQueryMatrix(ctx context.Context, queries []models.GeneratedQuery) ([]models.QueryResult, error)
}

// ReportService renders audit results for humans. FormatActionPlan is the
// companion formatting operation for the recommendation engine's output.
type ReportService interface {
	FormatActionPlan(recommendations []models.Recommendation) string
	GenerateHTMLReport(result *models.AuditResult) (string, error)
}

// IndexingService pushes raw platform responses into the search and vector
// stores so past audit corpora stay queryable.
type IndexingService interface {
	IndexQueryResponses(ctx context.Context, runID uuid.UUID, results []models.QueryResult) error
}

// AuditStore persists completed audit runs.
type AuditStore interface {
	SaveAuditResult(ctx context.Context, result *models.AuditResult) error
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var zero T
	schema := reflector.Reflect(zero)

	// Convert to the format expected by OpenAI
	result := map[string]interface{}{
		"type":       "object",
		"properties": schema.Properties,
		"required":   schema.Required,
	}

	if schema.AdditionalProperties != nil {
		result["additionalProperties"] = false
	}

	return result
}
