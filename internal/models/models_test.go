package models_test

import (
	"testing"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

func TestThemeConfigImportanceFor(t *testing.T) {
	tc := models.DefaultThemeConfig()

	if got := tc.ImportanceFor("running"); got <= models.DefaultImportance {
		t.Errorf("running should carry above-default importance, got %d", got)
	}
	if got := tc.ImportanceFor("other"); got != models.DefaultImportance {
		t.Errorf("ImportanceFor(other) = %d, want default %d", got, models.DefaultImportance)
	}
	if got := tc.ImportanceFor("nonexistent"); got != models.DefaultImportance {
		t.Errorf("ImportanceFor(nonexistent) = %d, want default %d", got, models.DefaultImportance)
	}
}

func TestDefaultThemeConfigCoversKeywordThemes(t *testing.T) {
	tc := models.DefaultThemeConfig()
	for theme, keywords := range tc.Keywords {
		if len(keywords) == 0 {
			t.Errorf("theme %q has no keywords", theme)
		}
	}
	if _, ok := tc.Keywords["price"]; !ok {
		t.Error("expected a price theme in the default config")
	}
}

func TestGapClusterQueryCount(t *testing.T) {
	c := models.GapCluster{AffectedQueries: []string{"a", "b", "c"}}
	if got := c.QueryCount(); got != 3 {
		t.Errorf("QueryCount() = %d, want 3", got)
	}
	empty := models.GapCluster{}
	if got := empty.QueryCount(); got != 0 {
		t.Errorf("QueryCount() on empty cluster = %d, want 0", got)
	}
}
