// Package model - analysis result types produced by the risk engine and
// persisted as analysis history.
package model

import (
	"time"

	"github.com/google/uuid"
)

// BlockerCategory is one of the fixed set of reasons an issue may be stalled.
type BlockerCategory string

// The fixed blocker category enumeration. The detector never emits a category
// outside this set.
const (
	BlockerTechnicalDebt BlockerCategory = "technical-debt"
	BlockerDependency    BlockerCategory = "dependency"
	BlockerResource      BlockerCategory = "resource"
	BlockerExternal      BlockerCategory = "external"
	BlockerRequirements  BlockerCategory = "requirements"
	BlockerTesting       BlockerCategory = "testing"
	BlockerDeployment    BlockerCategory = "deployment"
)

// AllBlockerCategories lists the complete category enumeration.
func AllBlockerCategories() []BlockerCategory {
	return []BlockerCategory{
		BlockerTechnicalDebt,
		BlockerDependency,
		BlockerResource,
		BlockerExternal,
		BlockerRequirements,
		BlockerTesting,
		BlockerDeployment,
	}
}

// BlockerSource says which text fragment a match came from.
type BlockerSource string

const (
	// SourceDescription marks a match found in the issue description.
	SourceDescription BlockerSource = "description"
	// SourceComment marks a match found in a comment body; CommentIndex points at it.
	SourceComment BlockerSource = "comment"
)

// BlockerMatch is a single pattern hit in the issue text.
type BlockerMatch struct {
	Category     BlockerCategory `json:"category"`
	Snippet      string          `json:"snippet"`
	Source       BlockerSource   `json:"source"`
	CommentIndex int             `json:"comment_index"` // -1 for description matches
}

// SentimentLabel is the classifier's output label for one text fragment.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Sentiment is a single classification result.
type Sentiment struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

// SentimentSummary aggregates per-comment classifications. Percentages sum to
// 100 across classified comments. With zero comments all percentages are zero
// and InsufficientData is set. When the classifier failed for the issue,
// Unavailable is set and the risk scorer treats the sentiment component as 0.
type SentimentSummary struct {
	Total            int     `json:"total"`
	Positive         int     `json:"positive"`
	Negative         int     `json:"negative"`
	Neutral          int     `json:"neutral"`
	PositivePct      float64 `json:"positive_pct"`
	NegativePct      float64 `json:"negative_pct"`
	NeutralPct       float64 `json:"neutral_pct"`
	InsufficientData bool    `json:"insufficient_data"`
	Unavailable      bool    `json:"unavailable"`
}

// TimelineMetrics holds the staleness/age figures derived from issue timestamps.
type TimelineMetrics struct {
	AgeDays          int  `json:"age_days"`
	StalenessDays    int  `json:"staleness_days"`
	TimestampAnomaly bool `json:"timestamp_anomaly"` // last update preceded creation; staleness clamped to 0
}

// CostMultiplier records a single rate multiplier that actually applied.
type CostMultiplier struct {
	Kind   string  `json:"kind"` // "location", "overtime" or "weekend"
	Label  string  `json:"label"`
	Factor float64 `json:"factor"`
}

// CostBreakdown is the cost model output for one issue.
type CostBreakdown struct {
	Assignee         string           `json:"assignee"`
	Role             string           `json:"role"`
	Location         string           `json:"location"`
	BaseRate         float64          `json:"base_rate"`
	Multipliers      []CostMultiplier `json:"multipliers,omitempty"`
	EffectiveRate    float64          `json:"effective_rate"`
	EffortDays       float64          `json:"effort_days"`
	TotalCost        float64          `json:"total_cost"`
	OvertimeDetected bool             `json:"overtime_detected"`
	WeekendDetected  bool             `json:"weekend_detected"`
}

// RiskAssessment is the bounded composite score plus its explainable parts.
type RiskAssessment struct {
	Score              int    `json:"score"` // 0..100
	Band               string `json:"band"`
	SentimentComponent int    `json:"sentiment_component"` // max 30
	BlockerComponent   int    `json:"blocker_component"`   // max 30
	AgeComponent       int    `json:"age_component"`       // max 20
	StalenessComponent int    `json:"staleness_component"` // max 20
}

// Predictions is the escalation heuristic derived from blockers and sentiment.
type Predictions struct {
	CompletionLikelihood string `json:"completion_likelihood"` // low, medium, high
	RecommendedAction    string `json:"recommended_action"`
	EscalationNeeded     bool   `json:"escalation_needed"`
}

// AnalysisRecord is the immutable result of one issue analysis. Given an
// identical Issue snapshot and configuration, every field except Key and
// AnalyzedAt is byte-identical across runs.
type AnalysisRecord struct {
	Key         string           `json:"_key,omitempty"`
	ObjType     string           `json:"objtype,omitempty"`
	IssueKey    string           `json:"issue_key"`
	ProjectKey  string           `json:"project_key"`
	Status      string           `json:"status"`
	Sentiment   SentimentSummary `json:"sentiment"`
	Blockers    []BlockerMatch   `json:"blockers"`
	Timeline    TimelineMetrics  `json:"timeline"`
	Cost        CostBreakdown    `json:"cost"`
	Risk        RiskAssessment   `json:"risk"`
	Predictions Predictions      `json:"predictions"`
	AnalyzedAt  time.Time        `json:"analyzed_at"`
}

// NewAnalysisRecord stamps identity and object type onto a freshly built record.
func NewAnalysisRecord() *AnalysisRecord {
	return &AnalysisRecord{
		Key:     uuid.NewString(),
		ObjType: "AnalysisRecord",
	}
}

// RiskIssueRef is a compact reference used in rollup top-risk lists.
type RiskIssueRef struct {
	IssueKey string `json:"issue_key"`
	Score    int    `json:"score"`
	Band     string `json:"band"`
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
}

// Rollup aggregates a set of AnalysisRecords for a sprint or portfolio call.
type Rollup struct {
	Issues            int                     `json:"issues"`
	AvgRisk           float64                 `json:"avg_risk"`
	MaxRisk           int                     `json:"max_risk"`
	TotalCost         float64                 `json:"total_cost"`
	TotalDailyCost    float64                 `json:"total_daily_cost"`
	BandCounts        map[string]int          `json:"band_counts"`
	BlockersByCat     map[BlockerCategory]int `json:"blockers_by_category"`
	SentimentDegraded int                     `json:"sentiment_degraded"`
	TopRisks          []RiskIssueRef          `json:"top_risks"`
}

// BatchResult is the outcome of a sprint/portfolio analysis: one record per
// input issue plus the reduced rollup. A record is always produced, possibly
// with degraded sentiment; only configuration errors abort a batch.
type BatchResult struct {
	Records []*AnalysisRecord `json:"records"`
	Rollup  Rollup            `json:"rollup"`
}

// RollupSnapshot is a persisted rollup, written by the cron digest job.
type RollupSnapshot struct {
	Key        string    `json:"_key,omitempty"`
	ObjType    string    `json:"objtype,omitempty"`
	Label      string    `json:"label"`
	ProjectKey string    `json:"project_key,omitempty"`
	Rollup     Rollup    `json:"rollup"`
	CreatedAt  time.Time `json:"created_at"`
}
