// Package graphql assembles the root schema from the per-module query fields.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/consilo/consilo-backend/database"
	"github.com/consilo/consilo-backend/graphql/modules/analyses"
	"github.com/consilo/consilo-backend/graphql/modules/dashboard"
)

var db database.DBConnection

// InitDB stores the database connection used by all resolvers.
func InitDB(conn database.DBConnection) {
	db = conn
}

// CreateSchema builds the root query schema from the module field sets.
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}

	for name, field := range dashboard.GetQueryFields(db) {
		fields[name] = field
	}
	for name, field := range analyses.GetQueryFields(db) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: rootQuery,
	})
}
