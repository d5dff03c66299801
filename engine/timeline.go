package engine

import (
	"time"

	"github.com/consilo/consilo-backend/model"
)

// AnalyzeTimeline derives age and staleness from the issue timestamps against
// an injected "now". Both figures are floor-day values and never negative; a
// last-update timestamp preceding creation is clamped to zero staleness and
// flagged as an anomaly instead of failing the analysis.
func AnalyzeTimeline(issue *model.Issue, now time.Time) model.TimelineMetrics {
	m := model.TimelineMetrics{}

	if !issue.CreatedAt.IsZero() {
		m.AgeDays = floorDays(now.Sub(issue.CreatedAt))
	}

	updated := issue.UpdatedAt
	switch {
	case updated.IsZero():
		// No update timestamp at all; treat the issue as untouched since creation.
		m.StalenessDays = m.AgeDays
		m.TimestampAnomaly = !issue.CreatedAt.IsZero()
	case updated.Before(issue.CreatedAt):
		m.StalenessDays = 0
		m.TimestampAnomaly = true
	default:
		m.StalenessDays = floorDays(now.Sub(updated))
	}

	return m
}

func floorDays(d time.Duration) int {
	days := int(d.Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
