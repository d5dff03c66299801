package kafka

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/consilo/consilo-backend/events/modules/issues"
	"github.com/consilo/consilo-backend/internal/services"
)

// RunEventProcessor consumes issue snapshots from the issue-events topic and
// runs each through the analysis service. It returns after the consumer
// goroutine is started; consumption stops when ctx is cancelled.
func RunEventProcessor(ctx context.Context, service *services.AnalysisServiceWrapper) error {
	brokersEnv := os.Getenv("KAFKA_BROKERS")
	var brokers []string
	if brokersEnv != "" {
		brokers = strings.Split(brokersEnv, ",")
	} else {
		brokers = []string{"localhost:9092"}
	}

	// Configure SASL/PLAIN using Environment Variables
	username := os.Getenv("KAFKA_API_KEY")
	password := os.Getenv("KAFKA_API_SECRET")

	var dialer *kafka.Dialer

	// Only configure SASL/TLS if credentials are provided
	if username != "" && password != "" {
		mechanism := plain.Mechanism{
			Username: username,
			Password: password,
		}

		dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: mechanism,
			TLS:           &tls.Config{},
		}
	} else {
		// Default dialer for local development (no SASL/TLS)
		dialer = &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		}
	}

	topic := "issue-events"
	var conn *kafka.Conn
	var err error

	// Retry logic: 3 tries
	for i := 1; i <= 3; i++ {
		log.Printf("Kafka connection attempt %d/3...", i)
		conn, err = dialer.DialContext(ctx, "tcp", brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		return err
	}

	readerConfig := kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "consilo-backend-worker",
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	}

	reader := kafka.NewReader(readerConfig)

	go func() {
		defer reader.Close()

		log.Println("Kafka Event Processor started. Listening for issue events...")

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := reader.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				if err := issues.HandleIssueUpdatedWithService(ctx, msg.Value, service); err != nil {
					log.Printf("Issue event handling failed: %v", err)
				}
			}
		}
	}()

	return nil
}
