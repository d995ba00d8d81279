// workflows/scheduled_processor.go
package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

type ScheduledProcessor struct {
	cfg    *config.Config
	client inngestgo.Client
}

func NewScheduledProcessor(cfg *config.Config) *ScheduledProcessor {
	return &ScheduledProcessor{cfg: cfg}
}

func (p *ScheduledProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// DailyAuditProcessor fans out one audit.process event per configured
// brand every night. Each send is its own idempotent step so a retry only
// repeats the sends that failed.
func (p *ScheduledProcessor) DailyAuditProcessor() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:   "daily-audit-processor",
			Name: "Daily Audit Processor",
		},
		inngestgo.CronTrigger("0 2 * * *"), // Every day at 2 AM UTC
		func(ctx context.Context, input inngestgo.Input[any]) (any, error) {
			now := time.Now()
			brands := p.cfg.Audit.Brands

			if len(brands) == 0 {
				return map[string]interface{}{
					"execution_date": now.Format("2006-01-02"),
					"total_brands":   0,
					"message":        "No brands configured for scheduled audits",
				}, nil
			}

			for _, brand := range brands {
				stepName := fmt.Sprintf("trigger-audit-%s", strings.ToLower(strings.ReplaceAll(brand, " ", "-")))

				_, err := step.Run(ctx, stepName, func(ctx context.Context) (interface{}, error) {
					evt := inngestgo.Event{
						Name: "audit.process",
						Data: map[string]interface{}{
							"brand":        brand,
							"industry":     models.DetectIndustry(brand),
							"triggered_by": "automatic_scheduler",
						},
					}
					return p.client.Send(ctx, evt)
				})
				if err != nil {
					// Keep going so one bad brand does not block the rest.
					fmt.Printf("Warning: Failed to send audit event for %s: %v\n", brand, err)
				}
			}

			return map[string]interface{}{
				"execution_date": now.Format("2006-01-02"),
				"total_brands":   len(brands),
				"brands":         brands,
				"message":        fmt.Sprintf("Triggered %d audit pipelines", len(brands)),
			}, nil
		},
	)
	if err != nil {
		fmt.Printf("Failed to create daily audit processor function: %v\n", err)
	}
	return fn
}
