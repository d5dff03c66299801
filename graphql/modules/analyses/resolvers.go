// Package analyses implements the resolvers for analysis history queries.
package analyses

import (
	"context"
	"time"

	"github.com/consilo/consilo-backend/database"
	"github.com/consilo/consilo-backend/engine"
	"github.com/consilo/consilo-backend/model"
)

const trendHistoryLimit = 30

// ResolveHistory returns the stored records for an issue, newest first.
func ResolveHistory(ctx context.Context, db database.DBConnection, issueKey string, limit int) (interface{}, error) {
	records, err := database.ListAnalysisHistory(ctx, db.Database, issueKey, limit)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		items = append(items, flatten(&records[i]))
	}
	return items, nil
}

// ResolveTrend derives the risk direction from an issue's history. Direction
// compares newest against oldest with a 10 point dead zone; fewer than two
// samples give insufficient_data.
func ResolveTrend(ctx context.Context, db database.DBConnection, issueKey string) (interface{}, error) {
	records, err := database.ListAnalysisHistory(ctx, db.Database, issueKey, trendHistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	// History comes back newest first; charts read oldest to newest.
	points := make([]map[string]interface{}, 0, len(records))
	scores := make([]int, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		points = append(points, flatten(&records[i]))
		scores = append(scores, records[i].Risk.Score)
	}

	return map[string]interface{}{
		"issue_key":       issueKey,
		"project_key":     records[0].ProjectKey,
		"trend_direction": engine.TrendDirection(scores),
		"data_points":     points,
	}, nil
}

func flatten(rec *model.AnalysisRecord) map[string]interface{} {
	return map[string]interface{}{
		"issue_key":              rec.IssueKey,
		"project_key":            rec.ProjectKey,
		"status":                 rec.Status,
		"risk_score":             rec.Risk.Score,
		"risk_band":              rec.Risk.Band,
		"daily_cost":             rec.Cost.EffectiveRate,
		"total_cost":             rec.Cost.TotalCost,
		"blocker_count":          len(rec.Blockers),
		"sentiment_negative_pct": rec.Sentiment.NegativePct,
		"escalation_needed":      rec.Predictions.EscalationNeeded,
		"analyzed_at":            rec.AnalyzedAt.Format(time.RFC3339),
	}
}
