// Package classifier is the HTTP adapter for the external sentiment service.
// The engine only sees the Classifier interface; this package owns the wire
// format and transport concerns.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/model"
)

// Client calls the sentiment classification service over HTTP.
type Client struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a classifier client from the config snapshot. The HTTP
// timeout bounds every classification call; retry policy lives in the engine.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    cfg.ClassifierURL,
		http:   &http.Client{Timeout: cfg.ClassifierTimeout},
		logger: logger,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classify sends one text fragment and returns the service's label. Unknown
// labels are rejected so a misbehaving service cannot leak arbitrary strings
// into stored records.
func (c *Client) Classify(ctx context.Context, text string) (model.Sentiment, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("classifier: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("classifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn("classifier returned non-success status", zap.Int("status", resp.StatusCode))
		return model.Sentiment{}, fmt.Errorf("classifier: status=%d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Sentiment{}, fmt.Errorf("classifier: decode response: %w", err)
	}

	label := model.SentimentLabel(out.Label)
	switch label {
	case model.SentimentPositive, model.SentimentNegative, model.SentimentNeutral:
	default:
		return model.Sentiment{}, fmt.Errorf("classifier: unknown label %q", out.Label)
	}
	return model.Sentiment{Label: label, Confidence: out.Confidence}, nil
}
