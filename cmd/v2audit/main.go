// cmd/v2audit/main.go
//
// Offline audit runner: reads an already-executed query result set from a
// JSON file and runs the full analysis pipeline without touching any AI
// provider or database. Useful for replaying past runs and tuning.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
	"github.com/AI-Template-SDK/geo-workflows/services"
)

func main() {
	var (
		brand       = flag.String("brand", "", "target brand name (required)")
		industry    = flag.String("industry", "", "industry for seed competitors (auto-detected when empty)")
		resultsPath = flag.String("results", "", "path to query results JSON (required)")
		competitors = flag.Int("competitors", models.DefaultMaxCompetitors, "max competitors to rank")
		gaps        = flag.Int("gaps", models.DefaultMaxPriorityGaps, "max priority gap clusters per competitor")
		output      = flag.String("output", "", "write HTML report to this path (default: <brand>_geo_report.html)")
	)
	flag.Parse()

	if *brand == "" || *resultsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*resultsPath)
	if err != nil {
		log.Fatalf("Failed to read results file: %v", err)
	}
	var results []models.QueryResult
	if err := json.Unmarshal(data, &results); err != nil {
		log.Fatalf("Failed to parse results file: %v", err)
	}

	ind := *industry
	if ind == "" {
		ind = models.DetectIndustry(*brand)
	}

	extractor := services.NewMentionExtractor()
	discovery := services.NewCompetitorDiscoveryService(extractor, services.NewNeutralSentimentScorer())
	gapSvc := services.NewGapAnalysisService(extractor, models.DefaultThemeConfig())
	auditSvc := services.NewAuditService(discovery, gapSvc, services.NewRecommendationService())
	reportSvc := services.NewReportService()

	ctx := context.Background()
	result, err := auditSvc.RunAudit(ctx, services.AuditInput{
		Brand:           *brand,
		Industry:        ind,
		MaxCompetitors:  *competitors,
		MaxPriorityGaps: *gaps,
		Results:         results,
	})
	if err != nil {
		log.Fatalf("Audit failed: %v", err)
	}

	fmt.Println(reportSvc.FormatActionPlan(result.Recommendations))

	html, err := reportSvc.GenerateHTMLReport(result)
	if err != nil {
		log.Fatalf("Report generation failed: %v", err)
	}

	outPath := *output
	if outPath == "" {
		outPath = strings.ToLower(strings.ReplaceAll(*brand, " ", "_")) + "_geo_report.html"
	}
	if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	fmt.Printf("Report written to %s\n", outPath)
}
