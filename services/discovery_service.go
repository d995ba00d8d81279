// services/discovery_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

type discoveryService struct {
	extractor *MentionExtractor
	sentiment SentimentScorer
}

// NewCompetitorDiscoveryService creates the discovery service. sentiment
// may be nil, in which case every brand scores neutral.
func NewCompetitorDiscoveryService(extractor *MentionExtractor, sentiment SentimentScorer) CompetitorDiscoveryService {
	if sentiment == nil {
		sentiment = NewNeutralSentimentScorer()
	}
	return &discoveryService{
		extractor: extractor,
		sentiment: sentiment,
	}
}

// brandAccumulator collects per-brand facts across the generic corpus
// before the final CompetitorMetrics is built.
type brandAccumulator struct {
	name         string
	mentionCount int
	rankSum      int
	detailSum    float64
	queries      []string // insertion order, deduplicated
	querySeen    map[string]struct{}
	snippets     []string
}

// DiscoverCompetitors aggregates mention facts over all generic query
// results, scores each candidate, and returns the top maxCompetitors by
// competitiveness. Only generic-category results feed discovery; branded
// and competitor queries would skew organic visibility and are excluded by
// design, not by configuration.
func (s *discoveryService) DiscoverCompetitors(ctx context.Context, results []models.QueryResult, targetBrand string, seedList []string, maxCompetitors int) ([]models.CompetitorMetrics, error) {
	if strings.TrimSpace(targetBrand) == "" {
		return nil, ErrInvalidBrandName
	}
	if maxCompetitors <= 0 {
		maxCompetitors = models.DefaultMaxCompetitors
	}

	var generic []models.QueryResult
	for _, r := range results {
		if r.Category == models.CategoryGeneric {
			generic = append(generic, r)
		}
	}
	if len(generic) == 0 {
		return nil, fmt.Errorf("discovery over %d query results: %w", len(results), ErrInsufficientData)
	}

	candidates := s.buildCandidateSet(generic, targetBrand, seedList)
	if len(candidates) == 0 {
		return []models.CompetitorMetrics{}, nil
	}

	fmt.Printf("[DiscoverCompetitors] Analyzing %d generic queries against %d brand candidates\n", len(generic), len(candidates))

	acc := make(map[string]*brandAccumulator)
	for _, result := range generic {
		mentionedThisQuery := make(map[string]struct{})

		for _, platform := range sortedPlatforms(result.Responses) {
			response := result.Responses[platform]
			if strings.TrimSpace(response) == "" {
				// One empty response never aborts the batch.
				fmt.Printf("[DiscoverCompetitors] Skipping empty %s response for query %q\n", platform, result.QueryText)
				continue
			}

			for _, fact := range s.extractor.Extract(response, candidates) {
				if !fact.Mentioned {
					continue
				}
				key := strings.ToLower(fact.Brand)
				a, ok := acc[key]
				if !ok {
					a = &brandAccumulator{name: fact.Brand, querySeen: make(map[string]struct{})}
					acc[key] = a
				}
				a.mentionCount++
				a.rankSum += fact.PositionRank
				a.detailSum += fact.DetailScore
				if fact.ContextSnippet != "" {
					a.snippets = append(a.snippets, fact.ContextSnippet)
				}
				mentionedThisQuery[key] = struct{}{}
			}
		}

		for key := range mentionedThisQuery {
			a := acc[key]
			if _, ok := a.querySeen[result.QueryText]; !ok {
				a.querySeen[result.QueryText] = struct{}{}
				a.queries = append(a.queries, result.QueryText)
			}
		}
	}

	metrics := make([]models.CompetitorMetrics, 0, len(acc))
	totalGeneric := float64(len(generic))
	for _, a := range acc {
		m := models.CompetitorMetrics{
			BrandName:         a.name,
			MentionCount:      a.mentionCount,
			MentionRate:       float64(len(a.queries)) / totalGeneric,
			AvgRanking:        models.WorstAvgRanking,
			QueriesAppearedIn: a.queries,
		}
		if a.mentionCount > 0 {
			m.AvgRanking = float64(a.rankSum) / float64(a.mentionCount)
			m.DetailScore = a.detailSum / float64(a.mentionCount)
		}

		sentiment, err := s.sentiment.Score(ctx, a.name, a.snippets)
		if err != nil {
			// Sentiment is optional; fall back to neutral rather than
			// failing the whole discovery run.
			fmt.Printf("[DiscoverCompetitors] Sentiment scoring failed for %s, using neutral: %v\n", a.name, err)
			sentiment = models.NeutralSentiment
		}
		m.Sentiment = sentiment
		m.CompetitivenessScore = competitivenessScore(m)

		metrics = append(metrics, m)
	}

	// Deterministic ranking: score desc, mention rate desc, name asc.
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].CompetitivenessScore != metrics[j].CompetitivenessScore {
			return metrics[i].CompetitivenessScore > metrics[j].CompetitivenessScore
		}
		if metrics[i].MentionRate != metrics[j].MentionRate {
			return metrics[i].MentionRate > metrics[j].MentionRate
		}
		return strings.ToLower(metrics[i].BrandName) < strings.ToLower(metrics[j].BrandName)
	})

	if len(metrics) > maxCompetitors {
		metrics = metrics[:maxCompetitors]
	}

	fmt.Printf("[DiscoverCompetitors] Discovered %d competitors\n", len(metrics))
	return metrics, nil
}

// buildCandidateSet unions the industry seed list with brand-like tokens
// extracted from the generic corpus, minus the target brand. Seed spellings
// win over discovered spellings on case-insensitive collision.
func (s *discoveryService) buildCandidateSet(generic []models.QueryResult, targetBrand string, seedList []string) []string {
	var corpus []string
	for _, r := range generic {
		for _, platform := range sortedPlatforms(r.Responses) {
			corpus = append(corpus, r.Responses[platform])
		}
	}
	discovered := s.extractor.DiscoverBrandTokens(corpus)

	targetLower := strings.ToLower(strings.TrimSpace(targetBrand))
	candidates := make([]string, 0, len(seedList)+len(discovered))
	for _, b := range append(append([]string{}, seedList...), discovered...) {
		if strings.ToLower(strings.TrimSpace(b)) == targetLower {
			continue
		}
		candidates = append(candidates, b)
	}
	return dedupeCaseInsensitive(candidates)
}

// competitivenessScore applies the weighted ranking formula. A brand
// mentioned in every generic query at rank 1 with max detail and neutral
// sentiment scores 0.95; perfect sentiment takes it to 1.0.
func competitivenessScore(m models.CompetitorMetrics) float64 {
	ranking := 0.0
	if m.AvgRanking > 0 {
		ranking = 1.0 / m.AvgRanking
	}
	return m.MentionRate*models.WeightMentionRate +
		ranking*models.WeightAvgRanking +
		(m.DetailScore/10.0)*models.WeightDetailScore +
		(m.Sentiment/10.0)*models.WeightSentiment
}

// sortedPlatforms returns the platform names of a response map in sorted
// order so iteration is reproducible run to run.
func sortedPlatforms(responses map[string]string) []string {
	platforms := make([]string, 0, len(responses))
	for p := range responses {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	return platforms
}
