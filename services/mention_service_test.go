package services_test

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
	"github.com/AI-Template-SDK/geo-workflows/services"
)

func factByBrand(t *testing.T, facts []models.MentionFact, brand string) models.MentionFact {
	t.Helper()
	for _, f := range facts {
		if strings.EqualFold(f.Brand, brand) {
			return f
		}
	}
	t.Fatalf("no fact for brand %q in %+v", brand, facts)
	return models.MentionFact{}
}

func TestExtractPositionRanks(t *testing.T) {
	e := services.NewMentionExtractor()
	text := "Adidas leads the category here. Nike follows with solid options."

	facts := e.Extract(text, []string{"Nike", "Adidas", "Hoka"})
	if len(facts) != 3 {
		t.Fatalf("expected 3 facts, got %d", len(facts))
	}

	adidas := factByBrand(t, facts, "Adidas")
	nike := factByBrand(t, facts, "Nike")
	hoka := factByBrand(t, facts, "Hoka")

	if !adidas.Mentioned || adidas.PositionRank != 1 {
		t.Errorf("Adidas: want mentioned rank 1, got %+v", adidas)
	}
	if !nike.Mentioned || nike.PositionRank != 2 {
		t.Errorf("Nike: want mentioned rank 2, got %+v", nike)
	}
	if hoka.Mentioned || hoka.PositionRank != 0 {
		t.Errorf("Hoka: want absent rank 0, got %+v", hoka)
	}
}

func TestExtractWordBoundaries(t *testing.T) {
	e := services.NewMentionExtractor()

	tests := []struct {
		name      string
		text      string
		brand     string
		mentioned bool
	}{
		{"embedded occurrence not matched", "Nikeesque styles dominate streetwear", "Nike", false},
		{"plural suffix matched", "most runners buy Nikes every year", "Nike", true},
		{"possessive suffix matched", "Nike's lineup is deep", "Nike", true},
		{"case insensitive", "many prefer NIKE for training", "Nike", true},
		{"multi word brand", "compare with New Balance models", "New Balance", true},
		{"prefix of longer word", "the Asicsane fan base", "Asics", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := e.Extract(tt.text, []string{tt.brand})
			got := factByBrand(t, facts, tt.brand)
			if got.Mentioned != tt.mentioned {
				t.Errorf("mentioned = %v, want %v", got.Mentioned, tt.mentioned)
			}
		})
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := services.NewMentionExtractor()

	facts := e.Extract("   ", []string{"Nike", "Adidas"})
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(facts))
	}
	for _, f := range facts {
		if f.Mentioned || f.PositionRank != 0 {
			t.Errorf("expected absent fact, got %+v", f)
		}
	}
}

func TestExtractRankBounds(t *testing.T) {
	e := services.NewMentionExtractor()
	text := "Hoka first, then Brooks, then Asics, finally Saucony rounds it out."
	candidates := []string{"Brooks", "Saucony", "Hoka", "Asics", "Nike"}

	facts := e.Extract(text, candidates)

	seen := make(map[int]bool)
	mentioned := 0
	for _, f := range facts {
		if !f.Mentioned {
			continue
		}
		mentioned++
		if f.PositionRank < 1 || f.PositionRank > len(candidates) {
			t.Errorf("rank %d out of bounds for %s", f.PositionRank, f.Brand)
		}
		if seen[f.PositionRank] {
			t.Errorf("duplicate rank %d", f.PositionRank)
		}
		seen[f.PositionRank] = true
	}
	if mentioned != 4 {
		t.Fatalf("expected 4 mentioned brands, got %d", mentioned)
	}
	if factByBrand(t, facts, "Hoka").PositionRank != 1 {
		t.Errorf("Hoka should rank first")
	}
	if factByBrand(t, facts, "Saucony").PositionRank != 4 {
		t.Errorf("Saucony should rank last")
	}
}

func TestExtractDetailScore(t *testing.T) {
	e := services.NewMentionExtractor()

	// Brand in every sentence scores the maximum.
	dense := "Brooks makes great shoes. Brooks cushioning is unmatched. Brooks fits wide feet."
	f := factByBrand(t, e.Extract(dense, []string{"Brooks"}), "Brooks")
	if f.DetailScore != 10.0 {
		t.Errorf("dense mention detail = %v, want 10.0", f.DetailScore)
	}

	// One mention across many sentences floors at 1.0 rather than zero.
	var sparse strings.Builder
	sparse.WriteString("Brooks appears once here. ")
	for i := 0; i < 15; i++ {
		sparse.WriteString("This sentence talks about other things entirely. ")
	}
	f = factByBrand(t, e.Extract(sparse.String(), []string{"Brooks"}), "Brooks")
	if f.DetailScore != 1.0 {
		t.Errorf("sparse mention detail = %v, want floor 1.0", f.DetailScore)
	}
}

func TestExtractSnippet(t *testing.T) {
	e := services.NewMentionExtractor()
	text := strings.Repeat("padding before the brand appears somewhere in this long text ", 5) +
		"and Brooks delivers " + strings.Repeat("padding after the mention to force truncation on this side ", 5)

	f := factByBrand(t, e.Extract(text, []string{"Brooks"}), "Brooks")
	if f.ContextSnippet == "" {
		t.Fatal("expected a context snippet")
	}
	if !strings.Contains(f.ContextSnippet, "Brooks") {
		t.Errorf("snippet should contain the brand: %q", f.ContextSnippet)
	}
	if !strings.HasPrefix(f.ContextSnippet, "...") || !strings.HasSuffix(f.ContextSnippet, "...") {
		t.Errorf("snippet should be ellipsized on both sides: %q", f.ContextSnippet)
	}
}

func TestDiscoverBrandTokens(t *testing.T) {
	e := services.NewMentionExtractor()

	tests := []struct {
		name   string
		corpus []string
		want   []string
	}{
		{
			name: "repeated mid-sentence token discovered",
			corpus: []string{
				"runners often recommend Hoka for comfort. others swear by Hoka cushioning.",
			},
			want: []string{"Hoka"},
		},
		{
			name: "single occurrence excluded",
			corpus: []string{
				"some runners try Saucony once and move on to other things.",
			},
			want: nil,
		},
		{
			name: "sentence-start tokens skipped",
			corpus: []string{
				"Asics is popular. Asics makes stability shoes.",
			},
			want: nil,
		},
		{
			name: "multi word brand keeps canonical spelling",
			corpus: []string{
				"many prefer New Balance for width options and new balance fans agree that New Balance fits well.",
			},
			want: []string{"New Balance"},
		},
		{
			name: "stop-listed capitalized words excluded",
			corpus: []string{
				"it was the Best choice then and the Best choice now.",
			},
			want: nil,
		},
		{
			name: "counts accumulate across documents",
			corpus: []string{
				"many runners pick Brooks for daily miles.",
				"for long runs, Brooks holds up well.",
			},
			want: []string{"Brooks"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.DiscoverBrandTokens(tt.corpus)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DiscoverBrandTokens() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscoverBrandTokensCustomStopWords(t *testing.T) {
	e := services.NewMentionExtractor("acme")
	corpus := []string{"some say Acme is fine and Acme works well."}
	if got := e.DiscoverBrandTokens(corpus); len(got) != 0 {
		t.Errorf("custom stop word should exclude Acme, got %v", got)
	}
}

func TestExtractConcurrentUse(t *testing.T) {
	e := services.NewMentionExtractor()
	text := "Adidas leads the category here. Nike follows with solid options."
	brands := []string{"Nike", "Adidas", "Hoka", "Brooks", "Asics", "Saucony", "Puma", "Reebok"}

	want := make(map[string][]models.MentionFact, len(brands))
	for _, b := range brands {
		want[b] = e.Extract(text, []string{b, "New Balance"})
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for _, b := range brands {
			wg.Add(1)
			go func(brand string) {
				defer wg.Done()
				got := e.Extract(text, []string{brand, "New Balance"})
				if !reflect.DeepEqual(got, want[brand]) {
					t.Errorf("concurrent Extract for %q = %+v, want %+v", brand, got, want[brand])
				}
			}(b)
		}
	}
	wg.Wait()
}
