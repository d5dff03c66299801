package engine

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/consilo/consilo-backend/model"
)

func TestFormatIssueExecutive(t *testing.T) {
	issue := sampleIssue("ENG-20")
	rec := &model.AnalysisRecord{
		IssueKey: "ENG-20",
		Status:   "In Progress",
		Risk:     model.RiskAssessment{Score: 88, Band: "critical"},
		Cost: model.CostBreakdown{
			Assignee:      "Alex Smith",
			Role:          "Mid Engineer",
			Location:      "Remote",
			EffectiveRate: 3000,
			EffortDays:    3,
			TotalCost:     9000,
		},
		Blockers: []model.BlockerMatch{
			{Category: model.BlockerDependency, Snippet: "blocked by the auth service"},
		},
		Predictions: model.Predictions{
			RecommendedAction: "Escalate to leadership",
			EscalationNeeded:  true,
		},
	}

	out := FormatIssueExecutive(issue, rec)

	assert.Contains(t, out, "ISSUE: ENG-20")
	assert.Contains(t, out, "Risk: 88/100 (critical)")
	assert.Contains(t, out, "Daily cost: $3000")
	assert.Contains(t, out, "Total estimated cost: $9000")
	assert.Contains(t, out, "DEPENDENCY: blocked by the auth service")
	assert.Contains(t, out, "RECOMMENDATION: Escalate to leadership")
	assert.Contains(t, out, "Escalation needed: Yes")
}

func TestFormatRollupExecutive(t *testing.T) {
	rollup := model.Rollup{
		Issues:         3,
		AvgRisk:        50,
		MaxRisk:        80,
		TotalCost:      15000,
		TotalDailyCost: 6000,
		BandCounts:     map[string]int{"critical": 1, "low": 1, "medium": 1},
		BlockersByCat:  map[model.BlockerCategory]int{model.BlockerDependency: 2},
		TopRisks: []model.RiskIssueRef{
			{IssueKey: "ENG-1", Score: 80, Band: "critical"},
		},
		SentimentDegraded: 1,
	}

	out := FormatRollupExecutive("ENG sprint 12", rollup)

	assert.Contains(t, out, "ENG SPRINT 12 EXECUTIVE SUMMARY")
	assert.Contains(t, out, "Issues analyzed: 3")
	assert.Contains(t, out, "Avg risk: 50.0/100")
	assert.Contains(t, out, "ENG-1: 80 (critical)")
	assert.Contains(t, out, "dependency: 2 issues")
	assert.Contains(t, out, "Total daily cost exposure: $6000")
	assert.Contains(t, out, "sentiment unavailable for 1 issues")
}

func TestFormatRollupExecutiveNoBlockers(t *testing.T) {
	out := FormatRollupExecutive("portfolio", model.Rollup{})
	assert.Contains(t, out, "None detected")
}

func TestTruncateRuneBoundary(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))

	// "é" is two bytes; cutting mid-rune backs up to the boundary.
	assert.Equal(t, "ab", truncate("abécd", 3))
	assert.True(t, utf8.ValidString(truncate("héllo wörld", 7)))
}
