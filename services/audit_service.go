// services/audit_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

type auditService struct {
	discovery       CompetitorDiscoveryService
	gaps            GapAnalysisService
	recommendations RecommendationService
}

// NewAuditService wires the analysis pipeline: discovery feeds gap
// analysis (its output is the competitor roster), gap clusters feed the
// recommendation engine.
func NewAuditService(discovery CompetitorDiscoveryService, gaps GapAnalysisService, recommendations RecommendationService) AuditService {
	return &auditService{
		discovery:       discovery,
		gaps:            gaps,
		recommendations: recommendations,
	}
}

func (s *auditService) RunAudit(ctx context.Context, input AuditInput) (*models.AuditResult, error) {
	if strings.TrimSpace(input.Brand) == "" {
		return nil, ErrInvalidBrandName
	}

	fmt.Printf("[RunAudit] Starting audit for %s (%d query results)\n", input.Brand, len(input.Results))

	seedList := input.SeedCompetitors
	if seedList == nil {
		seedList = models.SeedCompetitors(input.Industry, input.Brand)
	}

	competitors, err := s.discovery.DiscoverCompetitors(ctx, input.Results, input.Brand, seedList, input.MaxCompetitors)
	if err != nil {
		return nil, fmt.Errorf("competitor discovery: %w", err)
	}
	fmt.Printf("[RunAudit] Discovered %d competitors\n", len(competitors))

	roster := make([]string, 0, len(competitors))
	for _, c := range competitors {
		roster = append(roster, c.BrandName)
	}

	var allClusters []models.GapCluster
	for _, name := range roster {
		clusters, err := s.gaps.IdentifyGaps(ctx, input.Results, input.Brand, name, roster, input.MaxPriorityGaps)
		if err != nil {
			// The roster came from discovery, so a roster miss here is a
			// programming error worth surfacing, not skipping.
			if errors.Is(err, ErrNoCompetitorData) {
				return nil, err
			}
			return nil, fmt.Errorf("gap analysis for %s: %w", name, err)
		}
		fmt.Printf("[RunAudit] %s: %d gap clusters\n", name, len(clusters))
		allClusters = append(allClusters, clusters...)
	}

	recs, err := s.recommendations.GenerateRecommendations(allClusters, input.Brand)
	if err != nil {
		return nil, fmt.Errorf("recommendation generation: %w", err)
	}
	fmt.Printf("[RunAudit] Generated %d recommendations\n", len(recs))

	result := &models.AuditResult{
		RunID:           uuid.New(),
		Brand:           input.Brand,
		Industry:        input.Industry,
		Competitors:     competitors,
		GapClusters:     allClusters,
		Recommendations: recs,
		Stats:           s.calculateQueryStats(input.Results, input.Brand),
		Timestamp:       time.Now().UTC(),
	}
	return result, nil
}

// calculateQueryStats counts target-brand mentions per platform response,
// split by query category. Rates are percentages over non-empty responses.
func (s *auditService) calculateQueryStats(results []models.QueryResult, targetBrand string) models.QueryStats {
	stats := models.QueryStats{TotalQueries: len(results)}
	brandLower := strings.ToLower(targetBrand)

	var brandedMentions, brandedTotal, genericMentions, genericTotal int
	for _, result := range results {
		switch result.Category {
		case models.CategoryBranded:
			stats.BrandedCount++
		case models.CategoryGeneric:
			stats.GenericCount++
		}

		for _, response := range result.Responses {
			if strings.TrimSpace(response) == "" {
				continue
			}
			mentioned := strings.Contains(strings.ToLower(response), brandLower)

			switch result.Category {
			case models.CategoryBranded:
				brandedTotal++
				if mentioned {
					brandedMentions++
				}
			case models.CategoryGeneric:
				genericTotal++
				if mentioned {
					genericMentions++
				}
			}
		}
	}

	if brandedTotal > 0 {
		stats.BrandedMentionRate = float64(brandedMentions) / float64(brandedTotal) * 100
	}
	if genericTotal > 0 {
		stats.GenericMentionRate = float64(genericMentions) / float64(genericTotal) * 100
	}
	return stats
}
