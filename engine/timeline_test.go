package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/consilo/consilo-backend/model"
)

func TestAnalyzeTimeline(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		created       time.Time
		updated       time.Time
		wantAge       int
		wantStaleness int
		wantAnomaly   bool
	}{
		{
			name:          "normal ordering",
			created:       now.AddDate(0, 0, -40),
			updated:       now.AddDate(0, 0, -12),
			wantAge:       40,
			wantStaleness: 12,
		},
		{
			name:          "partial day floors to zero",
			created:       now.Add(-20 * time.Hour),
			updated:       now.Add(-3 * time.Hour),
			wantAge:       0,
			wantStaleness: 0,
		},
		{
			name:          "update before creation clamps and flags",
			created:       now.AddDate(0, 0, -5),
			updated:       now.AddDate(0, 0, -9),
			wantAge:       5,
			wantStaleness: 0,
			wantAnomaly:   true,
		},
		{
			name:          "missing update falls back to age",
			created:       now.AddDate(0, 0, -8),
			wantAge:       8,
			wantStaleness: 8,
			wantAnomaly:   true,
		},
		{
			name:          "future creation clamps to zero",
			created:       now.AddDate(0, 0, 2),
			updated:       now.AddDate(0, 0, 2),
			wantAge:       0,
			wantStaleness: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := &model.Issue{Key: "ENG-1", CreatedAt: tt.created, UpdatedAt: tt.updated}
			m := AnalyzeTimeline(issue, now)
			assert.Equal(t, tt.wantAge, m.AgeDays)
			assert.Equal(t, tt.wantStaleness, m.StalenessDays)
			assert.Equal(t, tt.wantAnomaly, m.TimestampAnomaly)
		})
	}
}
