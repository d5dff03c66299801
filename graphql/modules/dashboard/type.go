// Package dashboard defines the GraphQL types for the risk dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// DashboardOverviewType represents the high-level metrics for the top cards
var DashboardOverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardOverview",
	Fields: graphql.Fields{
		"total_analyses":     &graphql.Field{Type: graphql.Int},
		"total_issues":       &graphql.Field{Type: graphql.Int},
		"total_projects":     &graphql.Field{Type: graphql.Int},
		"avg_risk":           &graphql.Field{Type: graphql.Float},
		"escalations_needed": &graphql.Field{Type: graphql.Int},
	},
})

// SeverityDistributionType represents the data for the pie/bar charts
var SeverityDistributionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SeverityDistribution",
	Fields: graphql.Fields{
		"critical": &graphql.Field{Type: graphql.Int},
		"high":     &graphql.Field{Type: graphql.Int},
		"medium":   &graphql.Field{Type: graphql.Int},
		"low":      &graphql.Field{Type: graphql.Int},
	},
})

// RiskyIssueType represents rows for the "Top Risky" tables
var RiskyIssueType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RiskyIssue",
	Fields: graphql.Fields{
		"issue_key":   &graphql.Field{Type: graphql.String},
		"project_key": &graphql.Field{Type: graphql.String},
		"score":       &graphql.Field{Type: graphql.Int},
		"band":        &graphql.Field{Type: graphql.String},
		"status":      &graphql.Field{Type: graphql.String},
		"assignee":    &graphql.Field{Type: graphql.String},
	},
})

// RiskTrendType represents the daily averaged risk over stored history
var RiskTrendType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RiskTrend",
	Fields: graphql.Fields{
		"date":     &graphql.Field{Type: graphql.String},
		"avg_risk": &graphql.Field{Type: graphql.Float},
		"max_risk": &graphql.Field{Type: graphql.Int},
		"analyses": &graphql.Field{Type: graphql.Int},
	},
})
