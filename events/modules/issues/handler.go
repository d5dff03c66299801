// Package issues handles Kafka event processing for issue tracker updates.
package issues

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/consilo/consilo-backend/model"
)

// AnalysisService defines the interface for analysis operations.
type AnalysisService interface {
	AnalyzeIssue(ctx context.Context, issue *model.Issue) (*model.AnalysisRecord, error)
}

// HandleIssueUpdatedWithService processes issue update events from Kafka.
func HandleIssueUpdatedWithService(ctx context.Context, msg []byte, service AnalysisService) error {
	var event IssueUpdatedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal IssueUpdatedEvent: %w", err)
	}

	if event.Issue.Key == "" {
		return fmt.Errorf("invalid event: missing issue key")
	}

	log.Printf("Processing issue event %s for %s", event.EventID, event.Issue.Key)

	rec, err := service.AnalyzeIssue(ctx, &event.Issue)
	if err != nil {
		return fmt.Errorf("internal service error: %w", err)
	}

	log.Printf("Successfully analyzed issue %s: risk %d (%s)", event.Issue.Key, rec.Risk.Score, rec.Risk.Band)
	return nil
}
