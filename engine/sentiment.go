package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/consilo/consilo-backend/model"
)

// maxFragmentLen bounds the text sent to the classifier per fragment.
const maxFragmentLen = 512

// Classifier is the external sentiment capability: one text fragment in, a
// label and confidence out. Implementations may fail or time out; the engine
// degrades rather than propagating those failures.
type Classifier interface {
	Classify(ctx context.Context, text string) (model.Sentiment, error)
}

// memoClassifier wraps a Classifier with bounded retry and per-fragment
// memoization. Memoization keeps analysis deterministic under retries: the
// same fragment is classified once per engine lifetime and the cached result
// reused, including across batch re-runs of the same issue.
type memoClassifier struct {
	inner   Classifier
	retries uint64

	mu    sync.Mutex
	cache map[string]model.Sentiment
}

func newMemoClassifier(inner Classifier, retries uint64) *memoClassifier {
	return &memoClassifier{
		inner:   inner,
		retries: retries,
		cache:   make(map[string]model.Sentiment),
	}
}

func (m *memoClassifier) Classify(ctx context.Context, text string) (model.Sentiment, error) {
	key := strings.TrimSpace(text)

	m.mu.Lock()
	if s, ok := m.cache[key]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	var result model.Sentiment
	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), m.retries)
	err := backoff.Retry(func() error {
		var cerr error
		result, cerr = m.inner.Classify(ctx, text)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return cerr
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return model.Sentiment{}, err
	}

	m.mu.Lock()
	m.cache[key] = result
	m.mu.Unlock()
	return result, nil
}

// summarizeSentiment classifies every comment in order and aggregates the
// labels into a SentimentSummary. Zero comments yield an all-zero summary
// flagged InsufficientData. A classifier failure on any fragment degrades the
// whole summary to Unavailable rather than returning an error: a broken
// external dependency never fails a single-issue analysis.
func summarizeSentiment(ctx context.Context, clf Classifier, comments []model.Comment) model.SentimentSummary {
	if len(comments) == 0 {
		return model.SentimentSummary{InsufficientData: true}
	}

	var positive, negative, neutral int
	for _, c := range comments {
		text := truncate(c.Body, maxFragmentLen)
		s, err := clf.Classify(ctx, text)
		if err != nil {
			return model.SentimentSummary{Total: len(comments), Unavailable: true}
		}
		switch s.Label {
		case model.SentimentPositive:
			positive++
		case model.SentimentNegative:
			negative++
		default:
			neutral++
		}
	}

	total := len(comments)
	return model.SentimentSummary{
		Total:       total,
		Positive:    positive,
		Negative:    negative,
		Neutral:     neutral,
		PositivePct: pct(positive, total),
		NegativePct: pct(negative, total),
		NeutralPct:  pct(neutral, total),
	}
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// StaticClassifier returns fixed results keyed by exact fragment text, with a
// fallback label. Used in tests and offline runs.
type StaticClassifier struct {
	Results  map[string]model.Sentiment
	Fallback model.SentimentLabel
	Delay    time.Duration
}

// Classify implements Classifier.
func (s *StaticClassifier) Classify(_ context.Context, text string) (model.Sentiment, error) {
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	if r, ok := s.Results[text]; ok {
		return r, nil
	}
	label := s.Fallback
	if label == "" {
		label = model.SentimentNeutral
	}
	return model.Sentiment{Label: label, Confidence: 1}, nil
}
