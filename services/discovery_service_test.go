package services_test

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
	"github.com/AI-Template-SDK/geo-workflows/services"
)

func genericResult(query, response string) models.QueryResult {
	return models.QueryResult{
		QueryText: query,
		Category:  models.CategoryGeneric,
		Responses: map[string]string{"openai": response},
	}
}

func newDiscovery() services.CompetitorDiscoveryService {
	return services.NewCompetitorDiscoveryService(services.NewMentionExtractor(), nil)
}

func TestDiscoverCompetitorsMetrics(t *testing.T) {
	results := []models.QueryResult{
		genericResult("best running shoes", "for cushioning, try Brooks first and then Asics as an alternative."),
		genericResult("best marathon shoes", "most marathoners pick Brooks for the long haul."),
		genericResult("best trail shoes", "the trail category belongs to other makers entirely."),
	}

	metrics, err := newDiscovery().DiscoverCompetitors(context.Background(), results, "Nike", []string{"Brooks", "Asics"}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("expected 2 competitors, got %d: %+v", len(metrics), metrics)
	}

	brooks := metrics[0]
	if brooks.BrandName != "Brooks" {
		t.Fatalf("expected Brooks ranked first, got %s", brooks.BrandName)
	}
	if math.Abs(brooks.MentionRate-2.0/3.0) > 1e-9 {
		t.Errorf("Brooks mention rate = %v, want 2/3", brooks.MentionRate)
	}
	if brooks.AvgRanking != 1.0 {
		t.Errorf("Brooks avg ranking = %v, want 1.0", brooks.AvgRanking)
	}
	if brooks.MentionCount != 2 {
		t.Errorf("Brooks mention count = %d, want 2", brooks.MentionCount)
	}
	if brooks.Sentiment != models.NeutralSentiment {
		t.Errorf("Brooks sentiment = %v, want neutral %v", brooks.Sentiment, models.NeutralSentiment)
	}
	if len(brooks.QueriesAppearedIn) != 2 {
		t.Errorf("Brooks queries = %v, want 2 entries", brooks.QueriesAppearedIn)
	}

	asics := metrics[1]
	if asics.BrandName != "Asics" {
		t.Fatalf("expected Asics ranked second, got %s", asics.BrandName)
	}
	if math.Abs(asics.MentionRate-1.0/3.0) > 1e-9 {
		t.Errorf("Asics mention rate = %v, want 1/3", asics.MentionRate)
	}
	if asics.AvgRanking != 2.0 {
		t.Errorf("Asics avg ranking = %v, want 2.0", asics.AvgRanking)
	}

	if brooks.CompetitivenessScore <= asics.CompetitivenessScore {
		t.Errorf("Brooks score %v should exceed Asics score %v", brooks.CompetitivenessScore, asics.CompetitivenessScore)
	}
}

func TestDiscoverCompetitorsNoGenericQueries(t *testing.T) {
	results := []models.QueryResult{
		{
			QueryText: "is nike good",
			Category:  models.CategoryBranded,
			Responses: map[string]string{"openai": "it depends on the use case."},
		},
	}

	_, err := newDiscovery().DiscoverCompetitors(context.Background(), results, "Nike", nil, 7)
	if !errors.Is(err, services.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestDiscoverCompetitorsBlankTarget(t *testing.T) {
	_, err := newDiscovery().DiscoverCompetitors(context.Background(), nil, "  ", nil, 7)
	if !errors.Is(err, services.ErrInvalidBrandName) {
		t.Fatalf("expected ErrInvalidBrandName, got %v", err)
	}
}

func TestDiscoverCompetitorsExcludesTarget(t *testing.T) {
	results := []models.QueryResult{
		genericResult("best running shoes", "the usual picks are Nike and Brooks in that order."),
	}

	metrics, err := newDiscovery().DiscoverCompetitors(context.Background(), results, "Nike", []string{"Nike", "Brooks"}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range metrics {
		if m.BrandName == "Nike" {
			t.Fatal("target brand must never appear in its own competitor list")
		}
	}
}

func TestDiscoverCompetitorsTruncation(t *testing.T) {
	results := []models.QueryResult{
		genericResult("best running shoes", "start with Brooks, consider Asics, and finish with Saucony."),
	}

	metrics, err := newDiscovery().DiscoverCompetitors(context.Background(), results, "Nike",
		[]string{"Brooks", "Asics", "Saucony"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(metrics))
	}
}

func TestDiscoverCompetitorsDiscoversUnseededBrands(t *testing.T) {
	results := []models.QueryResult{
		genericResult("best running shoes", "many runners rave about Hoka for recovery days."),
		genericResult("best cushioned shoes", "for maximum stack height, Hoka is the usual answer."),
	}

	metrics, err := newDiscovery().DiscoverCompetitors(context.Background(), results, "Nike", nil, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, m := range metrics {
		if m.BrandName == "Hoka" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Hoka discovered from corpus tokens, got %+v", metrics)
	}
}

func TestDiscoverCompetitorsDeterministic(t *testing.T) {
	results := []models.QueryResult{
		{
			QueryText: "best running shoes",
			Category:  models.CategoryGeneric,
			Responses: map[string]string{
				"openai":     "the safest picks are Brooks and Asics for most runners.",
				"anthropic":  "consider Asics for stability and Brooks for cushioning.",
				"perplexity": "reviews favor Saucony and Brooks this season.",
			},
		},
		genericResult("best marathon shoes", "elites often race in Asics or Saucony."),
	}
	seeds := []string{"Brooks", "Asics", "Saucony"}

	first, err := newDiscovery().DiscoverCompetitors(context.Background(), results, "Nike", seeds, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := newDiscovery().DiscoverCompetitors(context.Background(), results, "Nike", seeds, 7)
		if err != nil {
			t.Fatalf("unexpected error on rerun: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("discovery is not deterministic:\nfirst: %+v\nagain: %+v", first, again)
		}
	}
}

func TestDiscoverCompetitorsSkipsEmptyResponses(t *testing.T) {
	results := []models.QueryResult{
		{
			QueryText: "best running shoes",
			Category:  models.CategoryGeneric,
			Responses: map[string]string{
				"openai":    "",
				"anthropic": "the consensus favorite is Brooks right now.",
			},
		},
	}

	metrics, err := newDiscovery().DiscoverCompetitors(context.Background(), results, "Nike", []string{"Brooks"}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 1 || metrics[0].MentionCount != 1 {
		t.Fatalf("expected one Brooks mention from the non-empty response, got %+v", metrics)
	}
}
