package engine

import (
	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/model"
)

// Per-component caps. The component sum cannot exceed 100, but ScoreRisk
// clamps anyway as a defensive invariant.
const (
	maxSentimentComponent = 30
	maxBlockerComponent   = 30
	maxAgeComponent       = 20
	maxStalenessComponent = 20
)

// ScoreRisk combines the four sub-scores into a bounded [0,100] score with a
// severity band. Each mapping is monotonic: more negative sentiment, more
// distinct blocker categories, higher age or higher staleness never lower the
// score.
func ScoreRisk(cfg *config.Config, sentiment model.SentimentSummary, blockers []model.BlockerMatch, timeline model.TimelineMetrics) model.RiskAssessment {
	r := model.RiskAssessment{
		SentimentComponent: sentimentComponent(sentiment),
		BlockerComponent:   blockerComponent(blockers),
		AgeComponent:       ageComponent(timeline.AgeDays),
		StalenessComponent: stalenessComponent(timeline.StalenessDays),
	}

	score := r.SentimentComponent + r.BlockerComponent + r.AgeComponent + r.StalenessComponent
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	r.Score = score
	r.Band = cfg.BandForScore(score)
	return r
}

// sentimentComponent is proportional to the negative percentage, capped at 30.
// Unavailable or insufficient sentiment contributes nothing.
func sentimentComponent(s model.SentimentSummary) int {
	if s.Unavailable || s.InsufficientData || s.Total == 0 {
		return 0
	}
	c := int(s.NegativePct * 0.30)
	if c > maxSentimentComponent {
		c = maxSentimentComponent
	}
	return c
}

// blockerComponent scores distinct categories, not raw matches, so verbose
// threads are not over-penalized.
func blockerComponent(blockers []model.BlockerMatch) int {
	c := DistinctCategories(blockers) * 10
	if c > maxBlockerComponent {
		c = maxBlockerComponent
	}
	return c
}

// ageComponent uses exclusive tiers; the highest applicable tier wins.
func ageComponent(ageDays int) int {
	switch {
	case ageDays > 30:
		return maxAgeComponent
	case ageDays > 14:
		return 10
	case ageDays > 7:
		return 5
	default:
		return 0
	}
}

func stalenessComponent(stalenessDays int) int {
	switch {
	case stalenessDays > 10:
		return maxStalenessComponent
	case stalenessDays > 5:
		return 10
	case stalenessDays > 3:
		return 5
	default:
		return 0
	}
}

// TrendDirection classifies risk movement across a score series ordered
// oldest to newest. The newest score is compared against the oldest with a
// 10 point dead zone, inclusive on both sides; fewer than two samples give
// insufficient_data.
func TrendDirection(scores []int) string {
	if len(scores) < 2 {
		return "insufficient_data"
	}
	oldest := scores[0]
	newest := scores[len(scores)-1]
	switch {
	case newest < oldest-10:
		return "improving"
	case newest > oldest+10:
		return "degrading"
	default:
		return "stable"
	}
}

// Predict derives the escalation heuristic from blockers and sentiment.
func Predict(blockers []model.BlockerMatch, sentiment model.SentimentSummary) model.Predictions {
	hasBlockers := len(blockers) > 0
	negative := !sentiment.Unavailable && sentiment.NegativePct > 30

	switch {
	case hasBlockers && negative:
		return model.Predictions{
			CompletionLikelihood: "low",
			RecommendedAction:    "Escalate to leadership",
			EscalationNeeded:     true,
		}
	case hasBlockers || negative:
		return model.Predictions{
			CompletionLikelihood: "medium",
			RecommendedAction:    "Monitor closely",
		}
	default:
		return model.Predictions{
			CompletionLikelihood: "high",
			RecommendedAction:    "Continue as planned",
		}
	}
}
