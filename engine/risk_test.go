package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/model"
)

func negativeSummary(pct float64) model.SentimentSummary {
	return model.SentimentSummary{Total: 10, NegativePct: pct}
}

func categories(cats ...model.BlockerCategory) []model.BlockerMatch {
	var out []model.BlockerMatch
	for _, c := range cats {
		out = append(out, model.BlockerMatch{Category: c})
	}
	return out
}

func TestScoreRiskScenario(t *testing.T) {
	cfg := config.Default()

	// 40 days old, stale for 12 days, 3 distinct categories, 60% negative.
	r := ScoreRisk(cfg,
		negativeSummary(60),
		categories(model.BlockerDependency, model.BlockerTesting, model.BlockerResource),
		model.TimelineMetrics{AgeDays: 40, StalenessDays: 12},
	)

	assert.Equal(t, 18, r.SentimentComponent)
	assert.Equal(t, 30, r.BlockerComponent)
	assert.Equal(t, 20, r.AgeComponent)
	assert.Equal(t, 20, r.StalenessComponent)
	assert.Equal(t, 88, r.Score)
	assert.Equal(t, "critical", r.Band)
}

func TestScoreRiskMidTiers(t *testing.T) {
	cfg := config.Default()

	r := ScoreRisk(cfg,
		negativeSummary(60),
		categories(model.BlockerDependency, model.BlockerTesting, model.BlockerResource),
		model.TimelineMetrics{AgeDays: 40, StalenessDays: 8},
	)

	assert.Equal(t, 10, r.StalenessComponent)
	assert.Equal(t, 78, r.Score)
	assert.Equal(t, "high", r.Band)
}

func TestComponentCaps(t *testing.T) {
	cfg := config.Default()

	r := ScoreRisk(cfg,
		negativeSummary(100),
		categories(model.AllBlockerCategories()...),
		model.TimelineMetrics{AgeDays: 365, StalenessDays: 365},
	)

	assert.Equal(t, 30, r.SentimentComponent)
	assert.Equal(t, 30, r.BlockerComponent)
	assert.Equal(t, 20, r.AgeComponent)
	assert.Equal(t, 20, r.StalenessComponent)
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, "critical", r.Band)
}

func TestSentimentComponentDegraded(t *testing.T) {
	cfg := config.Default()

	for _, s := range []model.SentimentSummary{
		{Unavailable: true, Total: 5, NegativePct: 100},
		{InsufficientData: true},
		{},
	} {
		r := ScoreRisk(cfg, s, nil, model.TimelineMetrics{})
		assert.Equal(t, 0, r.SentimentComponent)
		assert.Equal(t, 0, r.Score)
		assert.Equal(t, "low", r.Band)
	}
}

func TestAgeAndStalenessTiers(t *testing.T) {
	ageTiers := map[int]int{0: 0, 7: 0, 8: 5, 14: 5, 15: 10, 30: 10, 31: 20, 400: 20}
	for days, want := range ageTiers {
		assert.Equal(t, want, ageComponent(days), "age %d", days)
	}

	staleTiers := map[int]int{0: 0, 3: 0, 4: 5, 5: 5, 6: 10, 10: 10, 11: 20}
	for days, want := range staleTiers {
		assert.Equal(t, want, stalenessComponent(days), "staleness %d", days)
	}
}

func TestScoreRiskMonotonicity(t *testing.T) {
	cfg := config.Default()
	timeline := model.TimelineMetrics{AgeDays: 10, StalenessDays: 4}

	// Rising negative percentage never lowers the score.
	prev := -1
	for pct := 0.0; pct <= 100; pct += 5 {
		r := ScoreRisk(cfg, negativeSummary(pct), nil, timeline)
		assert.GreaterOrEqual(t, r.Score, prev)
		prev = r.Score
	}

	// Each added distinct category never lowers the score.
	prev = -1
	all := model.AllBlockerCategories()
	for n := 0; n <= len(all); n++ {
		r := ScoreRisk(cfg, negativeSummary(40), categories(all[:n]...), timeline)
		assert.GreaterOrEqual(t, r.Score, prev)
		prev = r.Score
	}
}

func TestPredict(t *testing.T) {
	blockers := categories(model.BlockerDependency)

	p := Predict(blockers, negativeSummary(45))
	assert.Equal(t, "low", p.CompletionLikelihood)
	assert.True(t, p.EscalationNeeded)

	p = Predict(blockers, negativeSummary(10))
	assert.Equal(t, "medium", p.CompletionLikelihood)
	assert.False(t, p.EscalationNeeded)

	p = Predict(nil, negativeSummary(45))
	assert.Equal(t, "medium", p.CompletionLikelihood)

	p = Predict(nil, negativeSummary(0))
	assert.Equal(t, "high", p.CompletionLikelihood)
	assert.Equal(t, "Continue as planned", p.RecommendedAction)
}

func TestTrendDirection(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   string
	}{
		{"no data", nil, "insufficient_data"},
		{"single sample", []int{50}, "insufficient_data"},
		{"big drop", []int{60, 45, 40}, "improving"},
		{"big rise", []int{30, 50, 55}, "degrading"},
		{"within dead zone", []int{50, 70, 58}, "stable"},
		{"exactly ten lower", []int{50, 40}, "stable"},
		{"exactly ten higher", []int{50, 60}, "stable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendDirection(tt.scores))
		})
	}
}
