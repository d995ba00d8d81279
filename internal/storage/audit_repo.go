// internal/storage/audit_repo.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

// AuditRepo persists completed audit runs. All writes for one run happen
// in a single transaction so a partially saved audit never exists.
type AuditRepo struct {
	client *Client
}

func NewAuditRepo(client *Client) *AuditRepo {
	return &AuditRepo{client: client}
}

func (r *AuditRepo) SaveAuditResult(ctx context.Context, result *models.AuditResult) error {
	tx, err := r.client.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_runs (run_id, brand, industry, total_queries, branded_count, generic_count, branded_mention_rate, generic_mention_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.RunID, result.Brand, result.Industry,
		result.Stats.TotalQueries, result.Stats.BrandedCount, result.Stats.GenericCount,
		result.Stats.BrandedMentionRate, result.Stats.GenericMentionRate,
		result.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert audit run: %w", err)
	}

	for i, c := range result.Competitors {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_competitors (id, run_id, rank, brand_name, mention_count, mention_rate, avg_ranking, detail_score, sentiment, competitiveness_score)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.New(), result.RunID, i+1, c.BrandName, c.MentionCount,
			c.MentionRate, c.AvgRanking, c.DetailScore, c.Sentiment, c.CompetitivenessScore)
		if err != nil {
			return fmt.Errorf("failed to insert competitor %s: %w", c.BrandName, err)
		}
	}

	for _, cluster := range result.GapClusters {
		queriesJSON, err := json.Marshal(cluster.AffectedQueries)
		if err != nil {
			return fmt.Errorf("failed to marshal affected queries: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_gap_clusters (id, run_id, competitor_name, theme, query_count, avg_gap_size, priority_score, affected_queries)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), result.RunID, cluster.CompetitorName, cluster.Theme,
			cluster.QueryCount(), cluster.AvgGapSize, cluster.PriorityScore, queriesJSON)
		if err != nil {
			return fmt.Errorf("failed to insert gap cluster %s/%s: %w", cluster.CompetitorName, cluster.Theme, err)
		}
	}

	for _, rec := range result.Recommendations {
		actionsJSON, err := json.Marshal(rec.Actions)
		if err != nil {
			return fmt.Errorf("failed to marshal actions: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_recommendations (id, run_id, priority_rank, theme, competitor_name, impact, difficulty, potential_improvement_pct, actions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.New(), result.RunID, rec.PriorityRank, rec.Cluster.Theme, rec.Cluster.CompetitorName,
			string(rec.Impact), string(rec.Difficulty), rec.PotentialImprovementPct, actionsJSON)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation %d: %w", rec.PriorityRank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit result: %w", err)
	}
	return nil
}

// LatestRunID returns the most recent audit run for a brand, or
// uuid.Nil when none exists.
func (r *AuditRepo) LatestRunID(ctx context.Context, brand string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.client.DB.GetContext(ctx, &id,
		`SELECT run_id FROM audit_runs WHERE brand = $1 ORDER BY created_at DESC LIMIT 1`, brand)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	return id, nil
}
