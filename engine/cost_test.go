package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/model"
)

// 2026-08-26 is a Wednesday, 2026-08-22 a Saturday.
var (
	wedBusiness = time.Date(2026, 8, 26, 11, 0, 0, 0, time.UTC)
	wedEvening  = time.Date(2026, 8, 26, 21, 0, 0, 0, time.UTC)
	saturday    = time.Date(2026, 8, 22, 11, 0, 0, 0, time.UTC)
)

func costConfig() *config.Config {
	cfg := config.Default()
	cfg.UserRoles["Dana"] = "Staff Engineer"
	cfg.UserLocations["Dana"] = "San Francisco"
	return cfg
}

func TestResolveProfileUnassigned(t *testing.T) {
	cm := NewCostModel(config.Default())

	for _, name := range []string{"", "Unassigned"} {
		p := cm.ResolveProfile(name)
		assert.Equal(t, "Unassigned", p.DisplayName)
		assert.Equal(t, "Mid Engineer", p.Role)
		assert.Equal(t, "Remote", p.Location)
		assert.Equal(t, 3000.0, p.BaseRate)
		assert.False(t, p.RoleDetected)
	}
}

func TestResolveProfileMappingBeatsRules(t *testing.T) {
	cm := NewCostModel(costConfig())

	p := cm.ResolveProfile("Dana")
	assert.Equal(t, "Staff Engineer", p.Role)
	assert.Equal(t, "San Francisco", p.Location)
	assert.Equal(t, 6000.0, p.BaseRate)
	assert.False(t, p.RoleDetected)
}

func TestResolveProfileRuleDetection(t *testing.T) {
	cm := NewCostModel(config.Default())

	p := cm.ResolveProfile("Sr. Backend Engineer Kim")
	assert.Equal(t, "Senior Engineer", p.Role)
	assert.True(t, p.RoleDetected)
	assert.Equal(t, 5000.0, p.BaseRate)

	p = cm.ResolveProfile("Quinn QA Lead")
	assert.Equal(t, "QA Engineer", p.Role)
	assert.True(t, p.RoleDetected)
}

func TestResolveProfileDefaultFallback(t *testing.T) {
	cm := NewCostModel(config.Default())

	p := cm.ResolveProfile("Alex Smith")
	assert.Equal(t, "Mid Engineer", p.Role)
	assert.False(t, p.RoleDetected)
}

func TestBreakdownUnassignedDefaults(t *testing.T) {
	cfg := config.Default()
	cm := NewCostModel(cfg)

	issue := &model.Issue{Key: "ENG-1", Priority: "Medium"}
	bd := cm.Breakdown(issue)

	assert.Equal(t, "Unassigned", bd.Assignee)
	assert.Empty(t, bd.Multipliers)
	assert.Equal(t, 3000.0, bd.EffectiveRate)
	assert.Equal(t, 2.0, bd.EffortDays)
	assert.Equal(t, 6000.0, bd.TotalCost)
}

func TestBreakdownUnassignedIgnoresCommentActivity(t *testing.T) {
	cm := NewCostModel(config.Default())

	// With no assignee, no timestamp is attributable to the person being
	// costed, so off-hours comments from passers-by never raise the rate.
	issue := &model.Issue{
		Key:      "ENG-1",
		Priority: "Medium",
		Comments: []model.Comment{
			{Author: "Drive-by Commenter", Body: "saw this break", CreatedAt: saturday},
			{Author: "Night Owl", Body: "still broken", CreatedAt: wedEvening},
		},
	}
	bd := cm.Breakdown(issue)

	assert.Equal(t, "Unassigned", bd.Assignee)
	assert.Empty(t, bd.Multipliers)
	assert.False(t, bd.OvertimeDetected)
	assert.False(t, bd.WeekendDetected)
	assert.Equal(t, 3000.0, bd.EffectiveRate)
	assert.Equal(t, 6000.0, bd.TotalCost)
}

func TestBreakdownMultiplierComposition(t *testing.T) {
	tests := []struct {
		name         string
		assignee     string
		comments     []model.Comment
		wantRate     float64
		wantKinds    []string
		wantOvertime bool
		wantWeekend  bool
	}{
		{
			name:      "no multipliers",
			assignee:  "Alex Smith",
			comments:  []model.Comment{{Author: "Alex Smith", Body: "update", CreatedAt: wedBusiness}},
			wantRate:  3000,
			wantKinds: nil,
		},
		{
			name:      "location only",
			assignee:  "Dana",
			comments:  []model.Comment{{Author: "Dana", Body: "update", CreatedAt: wedBusiness}},
			wantRate:  6000 * 1.3,
			wantKinds: []string{"location"},
		},
		{
			name:         "overtime only",
			assignee:     "Alex Smith",
			comments:     []model.Comment{{Author: "Alex Smith", Body: "late fix", CreatedAt: wedEvening}},
			wantRate:     3000 * 1.5,
			wantKinds:    []string{"overtime"},
			wantOvertime: true,
		},
		{
			name:        "weekend only",
			assignee:    "Alex Smith",
			comments:    []model.Comment{{Author: "Alex Smith", Body: "hotfix", CreatedAt: saturday}},
			wantRate:    3000 * 2.0,
			wantKinds:   []string{"weekend"},
			wantWeekend: true,
		},
		{
			name:     "location plus weekend",
			assignee: "Dana",
			comments: []model.Comment{
				{Author: "Dana", Body: "hotfix", CreatedAt: saturday},
			},
			wantRate:    6000 * 1.3 * 2.0,
			wantKinds:   []string{"location", "weekend"},
			wantWeekend: true,
		},
		{
			name:     "weekend dominates overtime",
			assignee: "Alex Smith",
			comments: []model.Comment{
				{Author: "Alex Smith", Body: "late fix", CreatedAt: wedEvening},
				{Author: "Alex Smith", Body: "hotfix", CreatedAt: saturday},
			},
			wantRate:     3000 * 2.0,
			wantKinds:    []string{"weekend"},
			wantOvertime: true,
			wantWeekend:  true,
		},
		{
			name:     "other authors ignored",
			assignee: "Alex Smith",
			comments: []model.Comment{
				{Author: "Someone Else", Body: "weekend ping", CreatedAt: saturday},
			},
			wantRate:  3000,
			wantKinds: nil,
		},
	}

	cm := NewCostModel(costConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := &model.Issue{
				Key:      "ENG-2",
				Priority: "Medium",
				Assignee: &model.Assignee{DisplayName: tt.assignee},
				Comments: tt.comments,
			}
			bd := cm.Breakdown(issue)

			assert.InDelta(t, tt.wantRate, bd.EffectiveRate, 0.001)
			assert.Equal(t, tt.wantOvertime, bd.OvertimeDetected)
			assert.Equal(t, tt.wantWeekend, bd.WeekendDetected)

			var kinds []string
			for _, m := range bd.Multipliers {
				kinds = append(kinds, m.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
			assert.InDelta(t, bd.EffectiveRate*bd.EffortDays, bd.TotalCost, 0.001)
		})
	}
}

func TestEstimateEffortDays(t *testing.T) {
	cm := NewCostModel(config.Default())

	points := 8.0
	issue := &model.Issue{Key: "ENG-3", Priority: "Highest", StoryPoints: &points}
	assert.Equal(t, 8.0, cm.EstimateEffortDays(issue))

	issue.StoryPoints = nil
	assert.Equal(t, 5.0, cm.EstimateEffortDays(issue))

	issue.Priority = "Lowest"
	assert.Equal(t, 0.5, cm.EstimateEffortDays(issue))

	issue.Priority = "Unknown"
	assert.Equal(t, 2.0, cm.EstimateEffortDays(issue))
}

func TestClassifyTimestampTimezone(t *testing.T) {
	cfg := config.Default()
	cfg.BusinessHours.Timezone = "America/New_York"
	require.NoError(t, cfg.Finalize())
	cm := NewCostModel(cfg)

	// 14:00 UTC on a Wednesday is 10:00 in New York: business hours.
	assert.Equal(t, workBusinessHours, cm.classifyTimestamp(time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)))
	// 02:00 UTC on a Wednesday is 22:00 Tuesday in New York: after hours.
	assert.Equal(t, workAfterHours, cm.classifyTimestamp(time.Date(2026, 8, 26, 2, 0, 0, 0, time.UTC)))
	// 03:00 UTC Sunday is Saturday night in New York: weekend.
	assert.Equal(t, workWeekend, cm.classifyTimestamp(time.Date(2026, 8, 23, 3, 0, 0, 0, time.UTC)))
}
