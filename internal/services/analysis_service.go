// Package services provides internal service implementations for the Consilo backend.
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/consilo/consilo-backend/database"
	"github.com/consilo/consilo-backend/engine"
	"github.com/consilo/consilo-backend/model"
)

// AnalysisPublisher pushes completed analyses to downstream consumers. The
// Kafka producer implements it; a nil publisher disables the fan-out.
type AnalysisPublisher interface {
	PublishIssueAnalyzed(ctx context.Context, rec *model.AnalysisRecord) error
}

// AnalysisServiceWrapper implements issues.AnalysisService: it runs the
// engine pipeline and persists the record. Both the Kafka consumer and the
// REST handlers delegate here so every ingestion path produces identical
// records.
type AnalysisServiceWrapper struct {
	DB        database.DBConnection
	Analyzer  *engine.Analyzer
	Publisher AnalysisPublisher
}

// AnalyzeIssue runs the full pipeline for one issue snapshot and stores the
// resulting record. Publishing failures are logged, not returned: the record
// is already durable at that point.
func (w *AnalysisServiceWrapper) AnalyzeIssue(ctx context.Context, issue *model.Issue) (*model.AnalysisRecord, error) {
	log.Printf("Worker: Analyzing issue %s", issue.Key)

	rec := w.Analyzer.AnalyzeIssue(ctx, issue)

	if err := database.SaveAnalysis(ctx, w.DB, rec); err != nil {
		return nil, fmt.Errorf("persist analysis for %s: %w", issue.Key, err)
	}

	if w.Publisher != nil {
		if err := w.Publisher.PublishIssueAnalyzed(ctx, rec); err != nil {
			log.Printf("Worker: publish analyzed event for %s failed: %v", issue.Key, err)
		}
	}

	return rec, nil
}

// AnalyzeBatch analyzes a set of issue snapshots and persists every record.
// A persistence failure on one record aborts the batch; analysis itself never
// fails per issue.
func (w *AnalysisServiceWrapper) AnalyzeBatch(ctx context.Context, issues []*model.Issue) (*model.BatchResult, error) {
	result := w.Analyzer.AnalyzeBatch(ctx, issues)

	for _, rec := range result.Records {
		if err := database.SaveAnalysis(ctx, w.DB, rec); err != nil {
			return nil, fmt.Errorf("persist analysis for %s: %w", rec.IssueKey, err)
		}
	}

	return result, nil
}
