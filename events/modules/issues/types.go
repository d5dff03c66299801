// Package issues defines types for Kafka event processing of issue tracker events.
package issues

import (
	"time"

	"github.com/consilo/consilo-backend/model"
)

// IssueUpdatedEvent is an issue snapshot pushed onto the issue-events topic by
// tracker integrations. The snapshot is complete; the consumer never calls
// back into the tracker.
type IssueUpdatedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Issue model.Issue `json:"issue"`
}

// IssueAnalyzedEvent is published after an analysis record is persisted, for
// downstream consumers such as notification bots.
type IssueAnalyzedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Record model.AnalysisRecord `json:"record"`
}
