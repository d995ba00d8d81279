package models_test

import (
	"strings"
	"testing"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

func TestDetectIndustry(t *testing.T) {
	tests := []struct {
		brand string
		want  string
	}{
		{"Nike", "athletic_wear"},
		{"nike", "athletic_wear"},
		{"Brush On Block", "sunscreen"},
		{"Restoration Hardware", "furniture"},
		{"Rivian", "automotive"},
		{"Acme Sunscreen Co", "sunscreen"},
		{"Summit Running Gear", "athletic_wear"},
		{"Modern Home Furnishings", "furniture"},
		{"Glow Skincare Lab", "skincare"},
		{"Quantum Widgets", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			if got := models.DetectIndustry(tt.brand); got != tt.want {
				t.Errorf("DetectIndustry(%q) = %q, want %q", tt.brand, got, tt.want)
			}
		})
	}
}

func TestSeedCompetitorsExcludesTarget(t *testing.T) {
	seeds := models.SeedCompetitors("athletic_wear", "nike")
	if len(seeds) == 0 {
		t.Fatal("expected seeds for athletic_wear")
	}
	for _, s := range seeds {
		if strings.EqualFold(s, "Nike") {
			t.Errorf("target brand leaked into seed list: %q", s)
		}
	}
}

func TestSeedCompetitorsKeepsCanonicalNames(t *testing.T) {
	seeds := models.SeedCompetitors("athletic_wear", "Adidas")
	found := false
	for _, s := range seeds {
		if s == "New Balance" {
			found = true
		}
	}
	if !found {
		t.Error("expected canonical multi-word name New Balance in seeds")
	}
}

func TestSeedCompetitorsUnknownIndustry(t *testing.T) {
	seeds := models.SeedCompetitors("general", "Acme")
	if len(seeds) != 0 {
		t.Errorf("unknown industry should return no seeds, got %v", seeds)
	}
}
