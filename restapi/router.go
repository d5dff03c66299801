// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/consilo/consilo-backend/database"
	"github.com/consilo/consilo-backend/internal/services"
	"github.com/consilo/consilo-backend/restapi/modules/analyze"
)

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, db database.DBConnection, schema graphql.Schema, svc *services.AnalysisServiceWrapper) {
	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Analysis Routes
	api.Post("/analyze/issue", analyze.PostAnalyzeIssue(svc))
	api.Post("/analyze/sprint", analyze.PostAnalyzeSprint(svc))
	api.Post("/analyze/portfolio", analyze.PostAnalyzePortfolio(svc))

	// History & Trend Routes
	api.Get("/issues/:key/history", analyze.GetIssueHistory(db))
	api.Get("/issues/:key/trend", analyze.GetIssueTrend(db))

	log.Println("API routes initialized successfully")
}
