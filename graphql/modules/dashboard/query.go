// Package dashboard defines the GraphQL queries for the dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/consilo/consilo-backend/database"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		// Section 1: Top Cards (Overview)
		"dashboardOverview": &graphql.Field{
			Type: DashboardOverviewType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveOverview(p.Context, db)
			},
		},
		// Section 2: Charts (Severity)
		"dashboardSeverity": &graphql.Field{
			Type: SeverityDistributionType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveSeverityDistribution(p.Context, db)
			},
		},
		// Section 3: Tables (Top Risks)
		"dashboardTopRisks": &graphql.Field{
			Type: graphql.NewList(RiskyIssueType),
			Args: graphql.FieldConfigArgument{
				"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
				"project": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit := p.Args["limit"].(int)
				project := p.Args["project"].(string)
				return ResolveTopRisks(p.Context, db, project, limit)
			},
		},
		// Section 4: Trend Line (Risk over time)
		"dashboardRiskTrend": &graphql.Field{
			Type: graphql.NewList(RiskTrendType),
			Args: graphql.FieldConfigArgument{
				"days": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 90},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				days := p.Args["days"].(int)
				return ResolveRiskTrend(p.Context, db, days)
			},
		},
	}
}
