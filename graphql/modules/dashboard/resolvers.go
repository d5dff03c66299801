// Package dashboard implements the resolvers for dashboard metrics.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/consilo/consilo-backend/database"
)

// latestPerIssue yields the newest record per issue, reused as a subquery by
// every dashboard resolver so cards and charts agree with each other.
const latestPerIssue = `
	LET latest = (
		FOR a IN analysis
			SORT a.analyzed_at DESC
			COLLECT issue = a.issue_key INTO grouped
			RETURN grouped[0].a
	)
`

// ResolveOverview fetches the high-level dashboard metrics
func ResolveOverview(ctx context.Context, db database.DBConnection) (interface{}, error) {
	query := latestPerIssue + `
	RETURN {
		total_analyses: LENGTH(analysis),
		total_issues: LENGTH(latest),
		total_projects: LENGTH(UNIQUE(latest[*].project_key)),
		avg_risk: LENGTH(latest) == 0 ? 0 : AVG(latest[*].risk.score),
		escalations_needed: LENGTH(
			FOR a IN latest FILTER a.predictions.escalation_needed RETURN 1
		)
	}
	`
	return readOne(ctx, db, query, nil)
}

// ResolveSeverityDistribution fetches the per-band issue counts
func ResolveSeverityDistribution(ctx context.Context, db database.DBConnection) (interface{}, error) {
	query := latestPerIssue + `
	FOR a IN latest
		COLLECT band = a.risk.band WITH COUNT INTO n
		RETURN { band: band, n: n }
	`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	dist := map[string]interface{}{"critical": 0, "high": 0, "medium": 0, "low": 0}
	for cursor.HasMore() {
		var row struct {
			Band string `json:"band"`
			N    int    `json:"n"`
		}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		dist[row.Band] = row.N
	}
	return dist, nil
}

// ResolveTopRisks fetches the highest-risk issues, optionally filtered by project
func ResolveTopRisks(ctx context.Context, db database.DBConnection, project string, limit int) (interface{}, error) {
	filter := ""
	bindVars := map[string]interface{}{"limit": limit}
	if project != "" {
		filter = "FILTER a.project_key == @project"
		bindVars["project"] = project
	}
	query := latestPerIssue + fmt.Sprintf(`
	FOR a IN latest
		%s
		SORT a.risk.score DESC, a.issue_key ASC
		LIMIT @limit
		RETURN {
			issue_key: a.issue_key,
			project_key: a.project_key,
			score: a.risk.score,
			band: a.risk.band,
			status: a.status,
			assignee: a.cost.assignee
		}
	`, filter)

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	risks := []map[string]interface{}{}
	for cursor.HasMore() {
		var row map[string]interface{}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		risks = append(risks, row)
	}
	return risks, nil
}

// ResolveRiskTrend returns daily risk aggregates over the trailing window
func ResolveRiskTrend(ctx context.Context, db database.DBConnection, days int) (interface{}, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	query := `
	FOR a IN analysis
		FILTER a.analyzed_at >= @since
		COLLECT date = SUBSTRING(a.analyzed_at, 0, 10) INTO grouped
		SORT date ASC
		RETURN {
			date: date,
			avg_risk: AVG(grouped[*].a.risk.score),
			max_risk: MAX(grouped[*].a.risk.score),
			analyses: LENGTH(grouped)
		}
	`
	bindVars := map[string]interface{}{"since": since}

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	trend := []map[string]interface{}{}
	for cursor.HasMore() {
		var row map[string]interface{}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		trend = append(trend, row)
	}
	return trend, nil
}

func readOne(ctx context.Context, db database.DBConnection, query string, bindVars map[string]interface{}) (interface{}, error) {
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var row map[string]interface{}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		return row, nil
	}
	return nil, nil
}
