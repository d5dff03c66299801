// Package analyses defines the GraphQL queries for analysis history.
package analyses

import (
	"github.com/graphql-go/graphql"

	"github.com/consilo/consilo-backend/database"
)

// GetQueryFields returns the analysis queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		"analysisHistory": &graphql.Field{
			Type: graphql.NewList(AnalysisItemType),
			Args: graphql.FieldConfigArgument{
				"issueKey": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 30},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				issueKey := p.Args["issueKey"].(string)
				limit := p.Args["limit"].(int)
				return ResolveHistory(p.Context, db, issueKey, limit)
			},
		},
		"analysisTrend": &graphql.Field{
			Type: AnalysisTrendType,
			Args: graphql.FieldConfigArgument{
				"issueKey": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				issueKey := p.Args["issueKey"].(string)
				return ResolveTrend(p.Context, db, issueKey)
			},
		},
	}
}
