package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
	"github.com/AI-Template-SDK/geo-workflows/services"
)

func newGapService() services.GapAnalysisService {
	return services.NewGapAnalysisService(services.NewMentionExtractor(), models.DefaultThemeConfig())
}

func TestIdentifyGapsMissingTarget(t *testing.T) {
	results := []models.QueryResult{
		genericResult("best running shoes for marathons", "the clear favorite is Hoka for long distances."),
	}

	clusters, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}

	c := clusters[0]
	if c.Theme != "running" {
		t.Errorf("theme = %q, want running", c.Theme)
	}
	if len(c.Gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(c.Gaps))
	}

	g := c.Gaps[0]
	if g.TargetRank != models.MissingRank {
		t.Errorf("target rank = %d, want %d", g.TargetRank, models.MissingRank)
	}
	if g.CompetitorRank != 1 {
		t.Errorf("competitor rank = %d, want 1", g.CompetitorRank)
	}
	if g.GapSize != models.MissingRank-1 {
		t.Errorf("gap size = %d, want %d", g.GapSize, models.MissingRank-1)
	}
	if g.TargetContext != "Not mentioned" {
		t.Errorf("target context = %q, want 'Not mentioned'", g.TargetContext)
	}
}

func TestIdentifyGapsTargetAheadProducesNoGaps(t *testing.T) {
	results := []models.QueryResult{
		genericResult("best running shoes", "Nike leads, with Hoka a close second."),
		genericResult("best trail shoes", "Nike edges out Hoka on most trails."),
	}

	clusters, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", nil, 3)
	if err != nil {
		t.Fatalf("a competitor that never wins is a valid empty outcome, got error: %v", err)
	}
	if len(clusters) != 0 {
		t.Fatalf("expected no clusters, got %+v", clusters)
	}
}

func TestIdentifyGapsCompetitorOutsideRoster(t *testing.T) {
	_, err := newGapService().IdentifyGaps(context.Background(), nil, "Nike", "Asics", []string{"Hoka", "Brooks"}, 3)
	if !errors.Is(err, services.ErrNoCompetitorData) {
		t.Fatalf("expected ErrNoCompetitorData, got %v", err)
	}
}

func TestIdentifyGapsRosterMatchIsCaseInsensitive(t *testing.T) {
	results := []models.QueryResult{
		genericResult("best running shoes", "the answer is hoka for most people."),
	}
	_, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", []string{"HOKA"}, 3)
	if err != nil {
		t.Fatalf("roster check should be case-insensitive: %v", err)
	}
}

func TestIdentifyGapsBlankNames(t *testing.T) {
	svc := newGapService()
	if _, err := svc.IdentifyGaps(context.Background(), nil, "", "Hoka", nil, 3); !errors.Is(err, services.ErrInvalidBrandName) {
		t.Errorf("blank target: expected ErrInvalidBrandName, got %v", err)
	}
	if _, err := svc.IdentifyGaps(context.Background(), nil, "Nike", "  ", nil, 3); !errors.Is(err, services.ErrInvalidBrandName) {
		t.Errorf("blank competitor: expected ErrInvalidBrandName, got %v", err)
	}
}

func TestIdentifyGapsPositiveGapsOnly(t *testing.T) {
	results := []models.QueryResult{
		genericResult("best running shoes", "Hoka beats Nike here."),
		genericResult("best walking shoes", "Nike beats Hoka here."),
		genericResult("best gym shoes", "nobody mentions either brand in this one."),
	}

	clusters, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range clusters {
		for _, g := range c.Gaps {
			if g.GapSize <= 0 {
				t.Errorf("cluster %s carries non-positive gap %+v", c.Theme, g)
			}
		}
	}
}

func TestIdentifyGapsPriorityScore(t *testing.T) {
	// One running-theme query where the target is absent entirely:
	// query score 1*10 = 10, gap score capped at 30, importance 8*3 = 24.
	results := []models.QueryResult{
		genericResult("best running shoes for marathons", "the podium belongs to Hoka this year."),
	}

	clusters, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if got, want := clusters[0].PriorityScore, 64.0; got != want {
		t.Errorf("priority score = %v, want %v", got, want)
	}
}

func TestIdentifyGapsQueryScoreCap(t *testing.T) {
	// Six winning queries in one theme: query score saturates at 40.
	var results []models.QueryResult
	for i := 0; i < 6; i++ {
		results = append(results, genericResult(
			fmt.Sprintf("best running shoes option %d", i),
			"again the winner is Hoka by a wide margin."))
	}

	clusters, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected all gaps in one running cluster, got %d", len(clusters))
	}
	// 40 (capped) + 30 (capped) + 24 = 94; the total can never reach 100+.
	if got, want := clusters[0].PriorityScore, 94.0; got != want {
		t.Errorf("priority score = %v, want %v", got, want)
	}
	if clusters[0].QueryCount() != 6 {
		t.Errorf("query count = %d, want 6", clusters[0].QueryCount())
	}
}

func TestIdentifyGapsThemeClassification(t *testing.T) {
	tests := []struct {
		query string
		theme string
	}{
		{"best running shoes for marathons", "running"},
		{"most sustainable sneakers with recycled materials", "sustainability"},
		{"cheap affordable sneakers on a budget", "price"},
		{"what sneakers do people wear", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results := []models.QueryResult{
				genericResult(tt.query, "the standout pick is Hoka right now."),
			}
			clusters, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", nil, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(clusters) != 1 || clusters[0].Theme != tt.theme {
				t.Errorf("theme = %+v, want %q", clusters, tt.theme)
			}
		})
	}
}

func TestIdentifyGapsOrderingAndTruncation(t *testing.T) {
	// Running cluster gets two queries, price cluster one; running has the
	// higher importance too, so it must sort first.
	results := []models.QueryResult{
		genericResult("best running shoes", "runners pick Hoka over everything."),
		genericResult("best marathon running shoes", "for marathons, Hoka again."),
		genericResult("cheap affordable sneakers", "on a budget, Hoka still wins."),
	}

	clusters, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Theme != "running" || clusters[1].Theme != "price" {
		t.Errorf("cluster order = [%s, %s], want [running, price]", clusters[0].Theme, clusters[1].Theme)
	}
	if clusters[0].PriorityScore < clusters[1].PriorityScore {
		t.Errorf("clusters must sort by priority descending")
	}

	truncated, err := newGapService().IdentifyGaps(context.Background(), results, "Nike", "Hoka", nil, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(truncated) != 1 || truncated[0].Theme != "running" {
		t.Errorf("truncation must keep the top cluster, got %+v", truncated)
	}
}
