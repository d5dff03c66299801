package database

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/consilo/consilo-backend/model"
)

// SaveAnalysis persists one analysis record.
func SaveAnalysis(ctx context.Context, conn DBConnection, rec *model.AnalysisRecord) error {
	_, err := conn.Collections[CollAnalysis].CreateDocument(ctx, rec)
	return err
}

// SaveRollup persists a rollup snapshot.
func SaveRollup(ctx context.Context, conn DBConnection, snap *model.RollupSnapshot) error {
	_, err := conn.Collections[CollRollup].CreateDocument(ctx, snap)
	return err
}

// FindLatestAnalysis returns the most recent record for an issue, nil when the
// issue has never been analyzed.
func FindLatestAnalysis(ctx context.Context, db arangodb.Database, issueKey string) (*model.AnalysisRecord, error) {
	query := `
		FOR a IN analysis
			FILTER a.issue_key == @issue_key
			SORT a.analyzed_at DESC
			LIMIT 1
			RETURN a
	`
	bindVars := map[string]interface{}{
		"issue_key": issueKey,
	}

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var rec model.AnalysisRecord
		if _, err := cursor.ReadDocument(ctx, &rec); err != nil {
			return nil, err
		}
		return &rec, nil
	}

	return nil, nil
}

// ListAnalysisHistory returns records for an issue, newest first, capped at limit.
func ListAnalysisHistory(ctx context.Context, db arangodb.Database, issueKey string, limit int) ([]model.AnalysisRecord, error) {
	query := `
		FOR a IN analysis
			FILTER a.issue_key == @issue_key
			SORT a.analyzed_at DESC
			LIMIT @limit
			RETURN a
	`
	bindVars := map[string]interface{}{
		"issue_key": issueKey,
		"limit":     limit,
	}

	return readAnalyses(ctx, db, query, bindVars)
}

// ListLatestByProject returns the newest record per issue within a project.
func ListLatestByProject(ctx context.Context, db arangodb.Database, projectKey string) ([]model.AnalysisRecord, error) {
	query := `
		FOR a IN analysis
			FILTER a.project_key == @project_key
			SORT a.analyzed_at DESC
			COLLECT issue = a.issue_key INTO grouped
			RETURN grouped[0].a
	`
	bindVars := map[string]interface{}{
		"project_key": projectKey,
	}

	return readAnalyses(ctx, db, query, bindVars)
}

// ListRecentAnalyses returns the newest records across all issues.
func ListRecentAnalyses(ctx context.Context, db arangodb.Database, limit int) ([]model.AnalysisRecord, error) {
	query := `
		FOR a IN analysis
			SORT a.analyzed_at DESC
			LIMIT @limit
			RETURN a
	`
	bindVars := map[string]interface{}{
		"limit": limit,
	}

	return readAnalyses(ctx, db, query, bindVars)
}

// ListRollups returns stored rollup snapshots for a label, newest first.
func ListRollups(ctx context.Context, db arangodb.Database, label string, limit int) ([]model.RollupSnapshot, error) {
	query := `
		FOR r IN rollup
			FILTER r.label == @label
			SORT r.created_at DESC
			LIMIT @limit
			RETURN r
	`
	bindVars := map[string]interface{}{
		"label": label,
		"limit": limit,
	}

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	snaps := []model.RollupSnapshot{}
	for cursor.HasMore() {
		var snap model.RollupSnapshot
		if _, err := cursor.ReadDocument(ctx, &snap); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func readAnalyses(ctx context.Context, db arangodb.Database, query string, bindVars map[string]interface{}) ([]model.AnalysisRecord, error) {
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	records := []model.AnalysisRecord{}
	for cursor.HasMore() {
		var rec model.AnalysisRecord
		if _, err := cursor.ReadDocument(ctx, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
