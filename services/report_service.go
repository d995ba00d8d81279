// services/report_service.go
package services

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

type reportService struct {
	tmpl *template.Template
}

func NewReportService() ReportService {
	return &reportService{
		tmpl: template.Must(template.New("report").Funcs(template.FuncMap{
			"lower": strings.ToLower,
			"title": func(s string) string {
				if s == "" {
					return s
				}
				return strings.ToUpper(s[:1]) + s[1:]
			},
			"pct": func(f float64) string {
				return fmt.Sprintf("%.1f%%", f)
			},
			"pctFrac": func(f float64) string {
				return fmt.Sprintf("%.1f%%", f*100)
			},
			"score": func(f float64) string {
				return fmt.Sprintf("%.1f", f)
			},
			"addOne": func(i int) int { return i + 1 },
		}).Parse(reportTemplate)),
	}
}

// FormatActionPlan renders recommendations as a plain-text plan for logs
// and CLI output. Improvement numbers are estimates and labeled as such.
func (s *reportService) FormatActionPlan(recommendations []models.Recommendation) string {
	var b strings.Builder
	divider := strings.Repeat("=", 60)

	b.WriteString(divider + "\n")
	b.WriteString("PRIORITIZED ACTION PLAN\n")
	b.WriteString(divider + "\n")

	for _, rec := range recommendations {
		fmt.Fprintf(&b, "\nPRIORITY %d: %s (vs %s)\n",
			rec.PriorityRank, strings.ToUpper(rec.Cluster.Theme), rec.Cluster.CompetitorName)
		fmt.Fprintf(&b, "Impact: %s | Difficulty: %s | Queries: %d\n",
			rec.Impact, rec.Difficulty, rec.Cluster.QueryCount())
		b.WriteString("\nRecommended Actions:\n")
		for i, action := range rec.Actions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, action)
		}
		fmt.Fprintf(&b, "\nEstimated Impact: up to %.0f%% improvement in %s category (estimate)\n",
			rec.PotentialImprovementPct, rec.Cluster.Theme)
		b.WriteString(strings.Repeat("-", 60) + "\n")
	}

	return b.String()
}

// GenerateHTMLReport renders the full audit report. html/template is used
// for its contextual escaping; AI response snippets flow into the page and
// must never be trusted as markup.
func (s *reportService) GenerateHTMLReport(result *models.AuditResult) (string, error) {
	var b strings.Builder
	if err := s.tmpl.Execute(&b, result); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return b.String(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Brand}} GEO Audit Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f5f6f8; color: #1f2430; }
.container { max-width: 960px; margin: 0 auto; padding: 32px 24px; }
header { border-bottom: 3px solid #3151b7; padding-bottom: 16px; margin-bottom: 28px; }
h1 { margin: 0 0 4px; }
.meta { color: #69707f; font-size: 14px; }
section { background: #fff; border-radius: 8px; padding: 20px 24px; margin-bottom: 24px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #e3e6ec; font-size: 14px; }
th { background: #f0f2f7; }
.badge { display: inline-block; padding: 2px 10px; border-radius: 10px; font-size: 12px; font-weight: 600; margin-right: 6px; }
.impact-high { background: #fde3e3; color: #a12626; }
.impact-medium { background: #fdf0d8; color: #8a6210; }
.impact-low { background: #e1f1e3; color: #23692c; }
.rec { border-left: 4px solid #3151b7; padding: 12px 16px; margin: 14px 0; background: #fafbfd; }
.rec h3 { margin: 0 0 8px; }
footer { color: #8a90a0; font-size: 12px; text-align: center; padding: 16px 0; }
.estimate { color: #69707f; font-style: italic; }
</style>
</head>
<body>
<div class="container">
<header>
<h1>{{.Brand}} GEO Audit Report</h1>
<div class="meta">Industry: {{.Industry}} &middot; Run {{.RunID}} &middot; {{.Timestamp.Format "2006-01-02 15:04 UTC"}}</div>
</header>

<section>
<h2>Executive Summary</h2>
<p>{{.Stats.TotalQueries}} queries executed ({{.Stats.GenericCount}} generic, {{.Stats.BrandedCount}} branded).
{{.Brand}} appeared in {{pct .Stats.GenericMentionRate}} of generic responses and {{pct .Stats.BrandedMentionRate}} of branded responses.
{{len .Competitors}} competitors discovered, {{len .GapClusters}} gap clusters identified, {{len .Recommendations}} recommendations produced.</p>
</section>

<section>
<h2>Market Discovery</h2>
<table>
<tr><th>#</th><th>Competitor</th><th>Mention Rate</th><th>Avg Rank</th><th>Detail</th><th>Sentiment</th><th>Competitiveness</th></tr>
{{range $i, $c := .Competitors}}
<tr>
<td>{{addOne $i}}</td>
<td>{{$c.BrandName}}</td>
<td>{{pctFrac $c.MentionRate}}</td>
<td>{{score $c.AvgRanking}}</td>
<td>{{score $c.DetailScore}}</td>
<td>{{score $c.Sentiment}}</td>
<td>{{score $c.CompetitivenessScore}}</td>
</tr>
{{end}}
</table>
</section>

<section>
<h2>Gap Analysis</h2>
{{if not .GapClusters}}<p>No competitive gaps identified. {{.Brand}} holds its position across the executed query set.</p>{{end}}
{{range .GapClusters}}
<div class="rec">
<h3>{{title .Theme}} (vs {{.CompetitorName}})</h3>
<p>Priority score {{score .PriorityScore}} &middot; {{.QueryCount}} affected queries &middot; avg gap {{score .AvgGapSize}}</p>
<ul>
{{range .AffectedQueries}}<li>{{.}}</li>{{end}}
</ul>
</div>
{{end}}
</section>

<section>
<h2>Prioritized Action Plan</h2>
{{range .Recommendations}}
<div class="rec">
<h3>Priority {{.PriorityRank}}: {{title .Cluster.Theme}} Gap (vs {{.Cluster.CompetitorName}})</h3>
<p>
<span class="badge impact-{{lower (printf "%s" .Impact)}}">{{.Impact}} Impact</span>
<span class="badge">{{.Difficulty}} Difficulty</span>
<span class="badge">{{.Cluster.QueryCount}} Queries</span>
</p>
<h4>Recommended Actions</h4>
<ul>
{{range .Actions}}<li>{{.}}</li>{{end}}
</ul>
<p class="estimate">Estimated impact: up to {{score .PotentialImprovementPct}}% improvement in {{.Cluster.Theme}} queries (estimate, not a measurement)</p>
</div>
{{end}}
</section>

<footer>Generated by geo-workflows automated analysis</footer>
</div>
</body>
</html>
`
