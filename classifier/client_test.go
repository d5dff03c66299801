package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.ClassifierURL = srv.URL
	return NewClient(cfg, nil)
}

func TestClassify(t *testing.T) {
	clf := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ship is sinking", req.Text)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"label":      "negative",
			"confidence": 0.93,
		})
	})

	s, err := clf.Classify(context.Background(), "ship is sinking")
	require.NoError(t, err)
	assert.Equal(t, model.SentimentNegative, s.Label)
	assert.InDelta(t, 0.93, s.Confidence, 0.001)
}

func TestClassifyServerError(t *testing.T) {
	clf := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := clf.Classify(context.Background(), "anything")
	assert.ErrorContains(t, err, "status=502")
}

func TestClassifyUnknownLabel(t *testing.T) {
	clf := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"label": "ecstatic", "confidence": 1.0})
	})

	_, err := clf.Classify(context.Background(), "anything")
	assert.ErrorContains(t, err, "unknown label")
}

func TestClassifyBadJSON(t *testing.T) {
	clf := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := clf.Classify(context.Background(), "anything")
	assert.ErrorContains(t, err, "decode response")
}
