// Package issues handles Kafka event production for completed analyses.
package issues

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/consilo/consilo-backend/model"
)

// AnalyzedProducer handles sending issue-analyzed events to Kafka
type AnalyzedProducer struct {
	Writer *kafka.Writer
}

// NewAnalyzedProducer initializes a new Kafka writer for analyzed events
func NewAnalyzedProducer(brokers []string, topic string) *AnalyzedProducer {
	return &AnalyzedProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishIssueAnalyzed sends the event to the Kafka topic
func (p *AnalyzedProducer) PublishIssueAnalyzed(ctx context.Context, rec *model.AnalysisRecord) error {
	event := IssueAnalyzedEvent{
		EventType:     "issue.analyzed",
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		Record:        *rec,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.IssueKey),
		Value: payload,
	})
}

// Close flushes and closes the underlying writer.
func (p *AnalyzedProducer) Close() error {
	return p.Writer.Close()
}
