// Consilo backend - risk and cost analysis for project tracking issues.
//
// The service accepts issue snapshots over REST, Kafka or GraphQL, runs them
// through the analysis engine and persists every record as history.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/consilo/consilo-backend/classifier"
	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/database"
	"github.com/consilo/consilo-backend/engine"
	"github.com/consilo/consilo-backend/events/modules/issues"
	"github.com/consilo/consilo-backend/internal/api"
	"github.com/consilo/consilo-backend/internal/jobs"
	"github.com/consilo/consilo-backend/internal/kafka"
	"github.com/consilo/consilo-backend/internal/services"
)

func main() {
	// Load configuration: defaults, optionally overlaid from CONSILO_CONFIG
	cfg := config.Default()
	if path := os.Getenv("CONSILO_CONFIG"); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	// Initialize database connection
	db := database.InitializeDatabase()

	logger := database.InitLogger()

	// Wire the analysis pipeline
	clf := classifier.NewClient(cfg, logger)
	analyzer := engine.NewAnalyzer(cfg, clf, logger)

	svc := &services.AnalysisServiceWrapper{
		DB:       db,
		Analyzer: analyzer,
	}

	// Optional fan-out of analyzed events for downstream consumers
	if topic := os.Getenv("KAFKA_ANALYZED_TOPIC"); topic != "" {
		brokers := strings.Split(database.GetEnvDefault("KAFKA_BROKERS", "localhost:9092"), ",")
		producer := issues.NewAnalyzedProducer(brokers, topic)
		defer producer.Close()
		svc.Publisher = producer
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka consumer for issue snapshots
	if err := kafka.RunEventProcessor(ctx, svc); err != nil {
		log.Printf("WARNING: Kafka event processor unavailable: %v", err)
	}

	// Scheduled digest
	cron := jobs.New(cfg, db, logger)
	cron.Start()
	defer cron.Stop()

	// Create Fiber app with REST and GraphQL routes
	app := api.NewFiberApp(db, svc)

	// Get port from environment or default to 3000
	port := os.Getenv("MS_PORT")
	if port == "" {
		port = "3000"
	}

	// Start server
	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
