// workflows/audit_processor.go
package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
	"github.com/AI-Template-SDK/geo-workflows/internal/models"
	"github.com/AI-Template-SDK/geo-workflows/services"
)

type AuditProcessor struct {
	queryGenerator services.QueryGeneratorService
	questionRunner services.QuestionRunnerService
	auditService   services.AuditService
	reportService  services.ReportService
	indexing       services.IndexingService
	store          services.AuditStore
	client         inngestgo.Client
	cfg            *config.Config
}

func NewAuditProcessor(
	queryGenerator services.QueryGeneratorService,
	questionRunner services.QuestionRunnerService,
	auditService services.AuditService,
	reportService services.ReportService,
	indexing services.IndexingService,
	store services.AuditStore,
	cfg *config.Config,
) *AuditProcessor {
	return &AuditProcessor{
		queryGenerator: queryGenerator,
		questionRunner: questionRunner,
		auditService:   auditService,
		reportService:  reportService,
		indexing:       indexing,
		store:          store,
		cfg:            cfg,
	}
}

func (p *AuditProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// ProcessAudit is the full audit pipeline: generate queries, run them
// across every AI platform, analyze, persist, index, and render a report.
func (p *AuditProcessor) ProcessAudit() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:      "process-audit",
			Name:    "Process Brand Audit - Discovery, Gap Analysis, Recommendations",
			Retries: inngestgo.IntPtr(3),
		},
		inngestgo.EventTrigger("audit.process", nil),
		func(ctx context.Context, input inngestgo.Input[AuditProcessEvent]) (any, error) {
			brand := input.Event.Data.Brand
			industry := input.Event.Data.Industry
			fmt.Printf("[ProcessAudit] Starting audit pipeline for brand: %s (%s)\n", brand, industry)

			totalQueries := input.Event.Data.TotalQueries
			if totalQueries <= 0 {
				totalQueries = p.cfg.Audit.TotalQueries
			}

			// Step 1: Generate query set
			queries, err := step.Run(ctx, "generate-queries", func(ctx context.Context) ([]models.GeneratedQuery, error) {
				return p.queryGenerator.GenerateQueries(ctx, brand, industry, input.Event.Data.ProductCategories, totalQueries)
			})
			if err != nil {
				return nil, fmt.Errorf("step 'generate-queries' failed: %w", err)
			}
			fmt.Printf("[ProcessAudit] Generated %d queries\n", len(queries))

			// Step 2: Execute the query matrix
			results, err := step.Run(ctx, "run-query-matrix", func(ctx context.Context) ([]models.QueryResult, error) {
				return p.questionRunner.RunQueryMatrix(ctx, queries)
			})
			if err != nil {
				return nil, fmt.Errorf("step 'run-query-matrix' failed: %w", err)
			}

			// Step 3: Run the analysis pipeline
			auditResult, err := step.Run(ctx, "run-analysis", func(ctx context.Context) (*models.AuditResult, error) {
				return p.auditService.RunAudit(ctx, services.AuditInput{
					Brand:           brand,
					Industry:        industry,
					MaxCompetitors:  p.cfg.Audit.MaxCompetitors,
					MaxPriorityGaps: p.cfg.Audit.MaxPriorityGaps,
					Results:         results,
				})
			})
			if err != nil {
				return nil, fmt.Errorf("step 'run-analysis' failed: %w", err)
			}

			// Step 4: Persist to Postgres
			if p.store != nil {
				_, err = step.Run(ctx, "persist-results", func(ctx context.Context) (interface{}, error) {
					if err := p.store.SaveAuditResult(ctx, auditResult); err != nil {
						return nil, err
					}
					return map[string]interface{}{"run_id": auditResult.RunID.String()}, nil
				})
				if err != nil {
					return nil, fmt.Errorf("step 'persist-results' failed: %w", err)
				}
			}

			// Step 5: Index raw responses for later search
			if p.indexing != nil {
				_, err = step.Run(ctx, "index-responses", func(ctx context.Context) (interface{}, error) {
					if err := p.indexing.IndexQueryResponses(ctx, auditResult.RunID, results); err != nil {
						// Search indexes are rebuildable; log and move on.
						fmt.Printf("[ProcessAudit] Warning: indexing failed: %v\n", err)
					}
					return map[string]interface{}{"status": "done"}, nil
				})
				if err != nil {
					return nil, fmt.Errorf("step 'index-responses' failed: %w", err)
				}
			}

			// Step 6: Render the HTML report
			reportPath, err := step.Run(ctx, "render-report", func(ctx context.Context) (string, error) {
				html, err := p.reportService.GenerateHTMLReport(auditResult)
				if err != nil {
					return "", err
				}
				if err := os.MkdirAll(p.cfg.Audit.ReportDir, 0o755); err != nil {
					return "", fmt.Errorf("failed to create report dir: %w", err)
				}
				name := strings.ToLower(strings.ReplaceAll(brand, " ", "_")) + "_geo_report.html"
				path := filepath.Join(p.cfg.Audit.ReportDir, name)
				if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
					return "", fmt.Errorf("failed to write report: %w", err)
				}
				return path, nil
			})
			if err != nil {
				return nil, fmt.Errorf("step 'render-report' failed: %w", err)
			}

			fmt.Printf("[ProcessAudit] Audit complete for %s, report at %s\n", brand, reportPath)

			topCompetitor := ""
			if len(auditResult.Competitors) > 0 {
				topCompetitor = auditResult.Competitors[0].BrandName
			}
			return map[string]interface{}{
				"status":                 "complete",
				"run_id":                 auditResult.RunID.String(),
				"brand":                  brand,
				"industry":               industry,
				"total_queries":          auditResult.Stats.TotalQueries,
				"competitors_discovered": len(auditResult.Competitors),
				"gaps_identified":        len(auditResult.GapClusters),
				"recommendations":        len(auditResult.Recommendations),
				"top_competitor":         topCompetitor,
				"market_share":           auditResult.Stats.GenericMentionRate,
				"report_path":            reportPath,
			}, nil
		},
	)
	if err != nil {
		fmt.Printf("Failed to create audit processor function: %v\n", err)
	}
	return fn
}

// Event types
type AuditProcessEvent struct {
	Brand             string   `json:"brand"`
	Industry          string   `json:"industry"`
	ProductCategories []string `json:"product_categories,omitempty"`
	TotalQueries      int      `json:"total_queries,omitempty"`
	TriggeredBy       string   `json:"triggered_by,omitempty"`
}
