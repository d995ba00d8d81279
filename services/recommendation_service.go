// services/recommendation_service.go
package services

import (
	"sort"
	"strings"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

// actionTemplates maps gap themes to candidate actions. Placeholders
// {brand}, {competitor} and {theme} are interpolated at generation time.
// Themes without an entry use the generic set.
var actionTemplates = map[string][]string{
	"soccer": {
		"Enhance soccer content authority and expertise for {brand}",
		"Highlight professional soccer partnerships and endorsements",
		"Improve soccer product detail visibility where {competitor} currently leads",
		"Add technical specifications for soccer footwear",
	},
	"running": {
		"Enhance running category content depth for {brand}",
		"Create detailed running shoe comparison guides",
		"Highlight running-specific technologies",
		"Feature runner testimonials and use cases",
	},
	"trail": {
		"Build trail running category authority",
		"Create comprehensive trail running content and guides",
		"Emphasize technical trail product features",
		"Highlight trail-specific innovations",
	},
	"basketball": {
		"Strengthen basketball heritage and athlete messaging for {brand}",
		"Create basketball shoe technology comparison content",
		"Highlight signature athlete lines and court performance",
		"Reference professional league partnerships",
	},
	"training": {
		"Expand cross-training and gym content for {brand}",
		"Create workout-specific gear guides",
		"Highlight versatility and durability of training products",
		"Feature trainer and athlete endorsements",
	},
	"sustainability": {
		"Strengthen sustainability messaging and visibility",
		"Highlight specific environmental initiatives and programs",
		"Create dedicated sustainability-focused content",
		"Reference recycled material percentages and carbon metrics",
	},
	"price": {
		"Clarify value proposition and pricing strategy",
		"Emphasize quality-to-price ratio against {competitor}",
		"Create budget-friendly product guides",
		"Highlight financing or promotional options",
	},
	"quality": {
		"Strengthen quality and durability messaging",
		"Highlight product testing and quality standards",
		"Feature long-term customer testimonials",
		"Emphasize warranty and guarantee programs",
	},
	"performance": {
		"Enhance performance-focused content",
		"Highlight technical specifications and innovations",
		"Feature professional athlete endorsements",
		"Create performance comparison guides against {competitor}",
	},
	"comfort": {
		"Emphasize comfort technologies and fit options for {brand}",
		"Feature all-day wear testimonials",
		"Create fit and sizing guides",
		"Highlight cushioning and support innovations",
	},
	"style": {
		"Strengthen lifestyle and design storytelling for {brand}",
		"Showcase collaborations and limited releases",
		"Create trend-focused style guides",
		"Highlight iconic silhouettes and design heritage",
	},
	"casual": {
		"Expand everyday-wear content for {brand}",
		"Create casual outfit pairing guides",
		"Highlight comfort for daily use",
		"Feature lifestyle imagery and testimonials",
	},
	"professional": {
		"Highlight professional-grade credentials for {brand}",
		"Feature expert and practitioner endorsements",
		"Create professional use-case content",
		"Emphasize certifications and standards compliance",
	},
}

var genericActionTemplates = []string{
	"Improve {theme} content depth and detail for {brand}",
	"Enhance product information visibility where {competitor} currently ranks ahead",
	"Create comprehensive {theme} category guides",
	"Strengthen overall brand positioning in {theme} queries",
}

type recommendationService struct{}

func NewRecommendationService() RecommendationService {
	return &recommendationService{}
}

// GenerateRecommendations turns gap clusters (possibly spanning several
// competitors) into one ranked action plan. Ordering is impact bucket
// first, then priority score, with competitor and theme names breaking
// exact ties so repeated runs produce identical plans.
func (s *recommendationService) GenerateRecommendations(gapClusters []models.GapCluster, targetBrand string) ([]models.Recommendation, error) {
	if strings.TrimSpace(targetBrand) == "" {
		return nil, ErrInvalidBrandName
	}

	recs := make([]models.Recommendation, 0, len(gapClusters))
	for _, cluster := range gapClusters {
		recs = append(recs, models.Recommendation{
			Cluster:                 cluster,
			Actions:                 buildActions(cluster, targetBrand),
			Impact:                  impactFor(cluster.PriorityScore),
			PotentialImprovementPct: improvementFor(cluster.AvgGapSize),
			Difficulty:              difficultyFor(cluster.QueryCount()),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Impact != recs[j].Impact {
			return impactWeight(recs[i].Impact) > impactWeight(recs[j].Impact)
		}
		if recs[i].Cluster.PriorityScore != recs[j].Cluster.PriorityScore {
			return recs[i].Cluster.PriorityScore > recs[j].Cluster.PriorityScore
		}
		if recs[i].Cluster.CompetitorName != recs[j].Cluster.CompetitorName {
			return recs[i].Cluster.CompetitorName < recs[j].Cluster.CompetitorName
		}
		return recs[i].Cluster.Theme < recs[j].Cluster.Theme
	})

	for i := range recs {
		recs[i].PriorityRank = i + 1
	}
	return recs, nil
}

func buildActions(cluster models.GapCluster, targetBrand string) []string {
	templates, ok := actionTemplates[cluster.Theme]
	if !ok {
		templates = genericActionTemplates
	}

	r := strings.NewReplacer(
		"{brand}", targetBrand,
		"{competitor}", cluster.CompetitorName,
		"{theme}", cluster.Theme,
	)

	limit := len(templates)
	if limit > models.MaxActionsPerCluster {
		limit = models.MaxActionsPerCluster
	}
	actions := make([]string, 0, limit)
	for _, t := range templates[:limit] {
		actions = append(actions, r.Replace(t))
	}
	return actions
}

func impactFor(priorityScore float64) models.ImpactLevel {
	switch {
	case priorityScore >= models.ImpactHighThreshold:
		return models.ImpactHigh
	case priorityScore >= models.ImpactMediumThreshold:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}

func impactWeight(level models.ImpactLevel) int {
	switch level {
	case models.ImpactHigh:
		return 3
	case models.ImpactMedium:
		return 2
	default:
		return 1
	}
}

// improvementFor is a rough estimate, not a measurement. It scales with
// how far behind the target sits and flattens out so a single 998-sized
// missing-brand gap does not promise an absurd number.
func improvementFor(avgGapSize float64) float64 {
	return minFloat(avgGapSize*models.ImprovementPctPerGap, models.ImprovementPctCap)
}

func difficultyFor(queryCount int) models.Difficulty {
	switch {
	case queryCount <= models.DifficultyLowMaxQueries:
		return models.DifficultyLow
	case queryCount <= models.DifficultyMedMaxQueries:
		return models.DifficultyMedium
	default:
		return models.DifficultyHigh
	}
}
