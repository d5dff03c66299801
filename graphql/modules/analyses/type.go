// Package analyses defines the GraphQL types for stored analysis history.
package analyses

import (
	"github.com/graphql-go/graphql"
)

// AnalysisItemType is a flattened view of one stored analysis record,
// shaped for history tables and charts.
var AnalysisItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AnalysisItem",
	Fields: graphql.Fields{
		"issue_key":              &graphql.Field{Type: graphql.String},
		"project_key":            &graphql.Field{Type: graphql.String},
		"status":                 &graphql.Field{Type: graphql.String},
		"risk_score":             &graphql.Field{Type: graphql.Int},
		"risk_band":              &graphql.Field{Type: graphql.String},
		"daily_cost":             &graphql.Field{Type: graphql.Float},
		"total_cost":             &graphql.Field{Type: graphql.Float},
		"blocker_count":          &graphql.Field{Type: graphql.Int},
		"sentiment_negative_pct": &graphql.Field{Type: graphql.Float},
		"escalation_needed":      &graphql.Field{Type: graphql.Boolean},
		"analyzed_at":            &graphql.Field{Type: graphql.String},
	},
})

// AnalysisTrendType reports historical points plus the derived direction.
var AnalysisTrendType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AnalysisTrend",
	Fields: graphql.Fields{
		"issue_key":       &graphql.Field{Type: graphql.String},
		"project_key":     &graphql.Field{Type: graphql.String},
		"trend_direction": &graphql.Field{Type: graphql.String},
		"data_points":     &graphql.Field{Type: graphql.NewList(AnalysisItemType)},
	},
})
