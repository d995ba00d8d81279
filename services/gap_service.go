// services/gap_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

type gapService struct {
	extractor *MentionExtractor
	themes    models.ThemeConfig
}

// NewGapAnalysisService creates the gap analyzer with a theme dictionary.
// Pass models.DefaultThemeConfig() when no industry-specific table exists.
func NewGapAnalysisService(extractor *MentionExtractor, themes models.ThemeConfig) GapAnalysisService {
	return &gapService{
		extractor: extractor,
		themes:    themes,
	}
}

// IdentifyGaps walks every query result (any category) and keeps the
// occurrences where the competitor is strictly better ranked than the
// target, clustered by theme and ordered by priority. A competitor that
// never wins returns an empty slice; that is a valid outcome, not an error.
func (s *gapService) IdentifyGaps(ctx context.Context, results []models.QueryResult, targetBrand, competitorName string, knownCompetitors []string, maxPriorityGaps int) ([]models.GapCluster, error) {
	if strings.TrimSpace(targetBrand) == "" || strings.TrimSpace(competitorName) == "" {
		return nil, ErrInvalidBrandName
	}
	if knownCompetitors != nil && !containsFold(knownCompetitors, competitorName) {
		return nil, fmt.Errorf("competitor %q: %w", competitorName, ErrNoCompetitorData)
	}
	if maxPriorityGaps <= 0 {
		maxPriorityGaps = models.DefaultMaxPriorityGaps
	}

	var gaps []models.Gap
	for _, result := range results {
		theme := s.classifyTheme(result.QueryText)

		for _, platform := range sortedPlatforms(result.Responses) {
			response := result.Responses[platform]
			if strings.TrimSpace(response) == "" {
				continue
			}

			facts := s.extractor.Extract(response, []string{targetBrand, competitorName})
			targetFact := factFor(facts, targetBrand)
			compFact := factFor(facts, competitorName)

			if !compFact.Mentioned {
				continue
			}

			targetRank := models.MissingRank
			targetContext := "Not mentioned"
			if targetFact.Mentioned {
				targetRank = targetFact.PositionRank
				targetContext = targetFact.ContextSnippet
			}

			gapSize := targetRank - compFact.PositionRank
			if gapSize <= 0 {
				// Target wins or ties; never clustered, not even with a
				// zero or negative gap value.
				continue
			}

			gaps = append(gaps, models.Gap{
				Query:             result.QueryText,
				Category:          result.Category,
				Platform:          platform,
				TargetRank:        targetRank,
				CompetitorRank:    compFact.PositionRank,
				GapSize:           gapSize,
				CompetitorContext: compFact.ContextSnippet,
				TargetContext:     targetContext,
				Theme:             theme,
			})
		}
	}

	if len(gaps) == 0 {
		return []models.GapCluster{}, nil
	}

	clusters := s.clusterByTheme(gaps, competitorName)
	s.prioritize(clusters)

	if len(clusters) > maxPriorityGaps {
		clusters = clusters[:maxPriorityGaps]
	}
	return clusters, nil
}

// classifyTheme picks the theme whose keyword set scores the most hits in
// the query text; ties break alphabetically and no hits fall into "other".
func (s *gapService) classifyTheme(queryText string) string {
	queryLower := strings.ToLower(queryText)

	bestTheme := "other"
	bestScore := 0

	themes := make([]string, 0, len(s.themes.Keywords))
	for theme := range s.themes.Keywords {
		themes = append(themes, theme)
	}
	sort.Strings(themes)

	for _, theme := range themes {
		score := 0
		for _, kw := range s.themes.Keywords[theme] {
			if strings.Contains(queryLower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestTheme = theme
		}
	}
	return bestTheme
}

// clusterByTheme groups gaps by theme, preserving the discovery order of
// affected queries and deduplicating them.
func (s *gapService) clusterByTheme(gaps []models.Gap, competitorName string) []models.GapCluster {
	byTheme := make(map[string]*models.GapCluster)
	var order []string

	for _, g := range gaps {
		c, ok := byTheme[g.Theme]
		if !ok {
			c = &models.GapCluster{Theme: g.Theme, CompetitorName: competitorName}
			byTheme[g.Theme] = c
			order = append(order, g.Theme)
		}
		c.Gaps = append(c.Gaps, g)
		if !contains(c.AffectedQueries, g.Query) {
			c.AffectedQueries = append(c.AffectedQueries, g.Query)
		}
	}

	clusters := make([]models.GapCluster, 0, len(byTheme))
	for _, theme := range order {
		c := byTheme[theme]
		sum := 0
		for _, g := range c.Gaps {
			sum += g.GapSize
		}
		c.AvgGapSize = float64(sum) / float64(len(c.Gaps))
		clusters = append(clusters, *c)
	}
	return clusters
}

// prioritize scores each cluster and sorts descending. Every term is
// capped independently before summing, so the total never exceeds 100 and
// one runaway factor cannot dominate.
func (s *gapService) prioritize(clusters []models.GapCluster) {
	for i := range clusters {
		c := &clusters[i]
		queryScore := minFloat(float64(c.QueryCount())*models.PriorityQueryCountFactor, models.PriorityQueryCountCap)
		gapScore := minFloat(c.AvgGapSize*models.PriorityGapSizeFactor, models.PriorityGapSizeCap)
		importance := float64(s.themes.ImportanceFor(c.Theme))
		strategicScore := minFloat(importance*models.PriorityImportanceFactor, models.PriorityImportanceCap)
		c.PriorityScore = queryScore + gapScore + strategicScore
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].PriorityScore != clusters[j].PriorityScore {
			return clusters[i].PriorityScore > clusters[j].PriorityScore
		}
		if clusters[i].QueryCount() != clusters[j].QueryCount() {
			return clusters[i].QueryCount() > clusters[j].QueryCount()
		}
		// The "other" bucket ranks last among otherwise equal clusters.
		if (clusters[i].Theme == "other") != (clusters[j].Theme == "other") {
			return clusters[j].Theme == "other"
		}
		return clusters[i].Theme < clusters[j].Theme
	})
}

func factFor(facts []models.MentionFact, brand string) models.MentionFact {
	for _, f := range facts {
		if strings.EqualFold(f.Brand, brand) {
			return f
		}
	}
	return models.MentionFact{Brand: brand}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
