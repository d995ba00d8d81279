// internal/models/models.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryCategory classifies an audit query by intent.
type QueryCategory string

const (
	CategoryGeneric    QueryCategory = "generic"
	CategoryBranded    QueryCategory = "branded"
	CategoryCompetitor QueryCategory = "competitor"
	CategoryProduct    QueryCategory = "product"
	CategoryHowTo      QueryCategory = "how_to"
)

// QueryResult is one query's full outcome across every AI platform it was
// submitted to. Produced by the question runner, consumed read-only by the
// analysis layer.
type QueryResult struct {
	QueryText string            `json:"query"`
	Category  QueryCategory     `json:"category"`
	Responses map[string]string `json:"responses"` // platform name -> raw response text
}

// MentionFact records whether and how one brand appears in one platform
// response. PositionRank is the 1-based order of first appearance among all
// candidate brands found in that response; 0 means not mentioned.
type MentionFact struct {
	Brand          string  `json:"brand"`
	Mentioned      bool    `json:"mentioned"`
	PositionRank   int     `json:"position_rank,omitempty"`
	DetailScore    float64 `json:"detail_score"`
	ContextSnippet string  `json:"context_snippet,omitempty"`
}

// CompetitorMetrics is one ranked competitor candidate from discovery.
// Immutable once built; the discovery service ranks and truncates the list
// and never mutates entries afterward.
type CompetitorMetrics struct {
	BrandName            string   `json:"brand_name"`
	MentionCount         int      `json:"mention_count"`
	MentionRate          float64  `json:"mention_rate"` // fraction of generic queries [0,1]
	AvgRanking           float64  `json:"avg_ranking"`  // mean position rank, >= 1
	DetailScore          float64  `json:"detail_score"` // mean detail score [0,10]
	Sentiment            float64  `json:"sentiment"`    // [0,10], 5.0 = neutral
	CompetitivenessScore float64  `json:"competitiveness_score"`
	QueriesAppearedIn    []string `json:"queries_appeared_in,omitempty"`
}

// Gap is a single query/platform occurrence where a competitor outranks the
// target brand. GapSize is target rank minus competitor rank and is always
// positive; a target that is not mentioned at all carries MissingRank.
type Gap struct {
	Query             string        `json:"query"`
	Category          QueryCategory `json:"category"`
	Platform          string        `json:"platform"`
	TargetRank        int           `json:"target_rank"`
	CompetitorRank    int           `json:"competitor_rank"`
	GapSize           int           `json:"gap_size"`
	CompetitorContext string        `json:"competitor_context,omitempty"`
	TargetContext     string        `json:"target_context,omitempty"`
	Theme             string        `json:"theme"`
}

// GapCluster groups gaps against one competitor by theme. AffectedQueries
// preserves discovery order and is deduplicated.
type GapCluster struct {
	Theme           string   `json:"theme"`
	CompetitorName  string   `json:"competitor_name"`
	Gaps            []Gap    `json:"gaps,omitempty"`
	AffectedQueries []string `json:"affected_queries"`
	AvgGapSize      float64  `json:"avg_gap_size"`
	PriorityScore   float64  `json:"priority_score"`
}

// QueryCount is the number of distinct affected queries in the cluster.
func (c GapCluster) QueryCount() int {
	return len(c.AffectedQueries)
}

// ImpactLevel and Difficulty are the coarse buckets recommendations are
// reported in.
type ImpactLevel string

const (
	ImpactHigh   ImpactLevel = "HIGH"
	ImpactMedium ImpactLevel = "MEDIUM"
	ImpactLow    ImpactLevel = "LOW"
)

type Difficulty string

const (
	DifficultyLow    Difficulty = "LOW"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHigh   Difficulty = "HIGH"
)

// Recommendation is one actionable item derived from a gap cluster.
// PotentialImprovementPct is a heuristic estimate of mention-rate lift, not
// a measured quantity, and is labeled as an estimate wherever rendered.
type Recommendation struct {
	Cluster                 GapCluster  `json:"cluster"`
	Actions                 []string    `json:"actions"`
	Impact                  ImpactLevel `json:"impact"`
	PotentialImprovementPct float64     `json:"potential_improvement_pct"`
	Difficulty              Difficulty  `json:"difficulty"`
	PriorityRank            int         `json:"priority_rank"`
}

// ThemeConfig externalizes theme classification and per-theme strategic
// weighting so an audit can be tuned per industry without code changes.
type ThemeConfig struct {
	Keywords   map[string][]string `json:"keywords"`   // theme -> lowercase keyword set
	Importance map[string]int      `json:"importance"` // theme -> strategic importance [1,10]
}

// QueryStats summarizes how the target brand showed up across the executed
// query set.
type QueryStats struct {
	TotalQueries       int     `json:"total_queries"`
	BrandedCount       int     `json:"branded_count"`
	GenericCount       int     `json:"generic_count"`
	BrandedMentionRate float64 `json:"branded_mention_rate"`
	GenericMentionRate float64 `json:"generic_mention_rate"`
}

// AuditResult is the full output of one audit run, handed to the reporting
// and persistence layers.
type AuditResult struct {
	RunID           uuid.UUID           `json:"run_id"`
	Brand           string              `json:"brand"`
	Industry        string              `json:"industry"`
	Competitors     []CompetitorMetrics `json:"competitors"`
	GapClusters     []GapCluster        `json:"gap_clusters"`
	Recommendations []Recommendation    `json:"recommendations"`
	Stats           QueryStats          `json:"stats"`
	Timestamp       time.Time           `json:"timestamp"`
}

// GeneratedQuery is one query produced by the query generator, pre-execution.
type GeneratedQuery struct {
	Text     string        `json:"text"`
	Category QueryCategory `json:"category"`
}

// Scoring policy constants. These weights mirror the audit methodology but
// are not empirically tuned; treat them as adjustable policy, not truth.
const (
	// Competitiveness score weights (discovery).
	WeightMentionRate = 0.40
	WeightAvgRanking  = 0.30
	WeightDetailScore = 0.20
	WeightSentiment   = 0.10

	// Priority score caps (gap clustering). Each term is capped before
	// summing so no single factor dominates and the total stays <= 100.
	PriorityQueryCountFactor = 10.0
	PriorityQueryCountCap    = 40.0
	PriorityGapSizeFactor    = 5.0
	PriorityGapSizeCap       = 30.0
	PriorityImportanceFactor = 3.0
	PriorityImportanceCap    = 30.0

	// Recommendation policy thresholds.
	ImpactHighThreshold     = 70.0
	ImpactMediumThreshold   = 40.0
	ImprovementPctPerGap    = 4.0
	ImprovementPctCap       = 35.0
	DifficultyLowMaxQueries = 2
	DifficultyMedMaxQueries = 5
	MaxActionsPerCluster    = 4

	// Rank handling.
	MissingRank     = 999 // target not mentioned at all
	WorstAvgRanking = 10.0

	NeutralSentiment = 5.0

	DefaultMaxCompetitors  = 7
	DefaultMaxPriorityGaps = 3
	DefaultImportance      = 5

	// Brand-like tokens must appear at least this often across the corpus
	// before they are treated as competitor candidates.
	MinTokenOccurrences = 2
)

// DefaultThemeConfig returns the stock theme dictionary used when no
// industry-specific configuration is supplied.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Keywords: map[string][]string{
			"soccer":         {"soccer", "football", "cleats", "boots"},
			"running":        {"running", "runner", "marathon", "jogging"},
			"trail":          {"trail", "hiking", "outdoor running"},
			"basketball":     {"basketball", "court", "hoops"},
			"training":       {"training", "gym", "workout", "cross-training"},
			"sustainability": {"sustainable", "eco-friendly", "environment", "recycled", "green"},
			"price":          {"affordable", "budget", "cheap", "expensive", "price", "cost"},
			"quality":        {"quality", "durability", "lasting", "premium"},
			"comfort":        {"comfortable", "comfort", "cushioning", "support"},
			"style":          {"style", "fashion", "trendy", "design", "look"},
			"performance":    {"performance", "speed", "lightweight", "technical"},
			"casual":         {"casual", "everyday", "lifestyle"},
			"professional":   {"professional", "athlete", "pro", "elite"},
		},
		Importance: map[string]int{
			"soccer":         7,
			"running":        8,
			"trail":          6,
			"basketball":     6,
			"training":       6,
			"sustainability": 7,
			"price":          5,
			"quality":        8,
			"comfort":        6,
			"style":          5,
			"performance":    8,
			"casual":         4,
			"professional":   6,
		},
	}
}

// ImportanceFor returns the strategic importance for a theme, defaulting to
// DefaultImportance for unrecognized themes (including "other").
func (tc ThemeConfig) ImportanceFor(theme string) int {
	if v, ok := tc.Importance[theme]; ok {
		return v
	}
	return DefaultImportance
}
