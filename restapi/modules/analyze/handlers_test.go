package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendDirection(t *testing.T) {
	pts := func(scores ...int) []TrendPoint {
		out := make([]TrendPoint, len(scores))
		for i, s := range scores {
			out[i] = TrendPoint{RiskScore: s}
		}
		return out
	}

	tests := []struct {
		name   string
		points []TrendPoint
		want   string
	}{
		{"no data", nil, "insufficient_data"},
		{"single point", pts(50), "insufficient_data"},
		{"big drop", pts(60, 45, 40), "improving"},
		{"big rise", pts(30, 50, 55), "degrading"},
		{"within dead zone", pts(50, 70, 58), "stable"},
		{"exactly ten lower", pts(50, 40), "stable"},
		{"exactly ten higher", pts(50, 60), "stable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendDirection(tt.points))
		})
	}
}
