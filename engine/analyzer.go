package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/model"
)

// topRiskLimit caps the rollup's high-risk issue list.
const topRiskLimit = 5

// Analyzer composes blocker detection, timeline metrics, sentiment
// aggregation, cost modeling and risk scoring into full analysis records.
// One Analyzer is safe for concurrent use; all of its state is an immutable
// config snapshot plus the classifier's internal memo.
type Analyzer struct {
	cfg      *config.Config
	detector *BlockerDetector
	cost     *CostModel
	clf      Classifier
	logger   *zap.Logger

	// now is injectable so timeline math is testable.
	now func() time.Time
}

// NewAnalyzer wires an analyzer over a validated config snapshot and a
// sentiment classifier. The classifier is wrapped with memoization and
// bounded retry; pass nil to run without sentiment (summaries degrade to
// Unavailable).
func NewAnalyzer(cfg *config.Config, clf Classifier, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		cfg:      cfg,
		detector: NewBlockerDetector(cfg),
		cost:     NewCostModel(cfg),
		logger:   logger,
		now:      time.Now,
	}
	if clf != nil {
		a.clf = newMemoClassifier(clf, cfg.ClassifierRetries)
	}
	return a
}

// WithClock overrides the analyzer's clock. Test hook.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// AnalyzeIssue runs the full pipeline for one issue and returns a complete
// record. It never fails on issue content: empty comment lists, missing
// assignees and classifier outages all degrade to well-defined results.
func (a *Analyzer) AnalyzeIssue(ctx context.Context, issue *model.Issue) *model.AnalysisRecord {
	now := a.now()

	blockers := a.detector.Detect(issue)
	timeline := AnalyzeTimeline(issue, now)

	var sentiment model.SentimentSummary
	if a.clf != nil {
		sentiment = summarizeSentiment(ctx, a.clf, issue.Comments)
	} else {
		sentiment = model.SentimentSummary{Total: len(issue.Comments), Unavailable: true}
	}
	if sentiment.Unavailable {
		a.logger.Warn("sentiment unavailable, scoring without it",
			zap.String("issue", issue.Key))
	}

	rec := model.NewAnalysisRecord()
	rec.IssueKey = issue.Key
	rec.ProjectKey = issue.ProjectKey
	rec.Status = issue.Status
	rec.Sentiment = sentiment
	rec.Blockers = blockers
	rec.Timeline = timeline
	rec.Cost = a.cost.Breakdown(issue)
	rec.Risk = ScoreRisk(a.cfg, sentiment, blockers, timeline)
	rec.Predictions = Predict(blockers, sentiment)
	rec.AnalyzedAt = now

	a.logger.Debug("issue analyzed",
		zap.String("issue", issue.Key),
		zap.Int("risk", rec.Risk.Score),
		zap.String("band", rec.Risk.Band))
	return rec
}

// AnalyzeBatch analyzes a set of issues concurrently, bounded by the
// configured worker count, and reduces the records into a rollup. Records
// come back in input order regardless of completion order. Per-issue
// degradation (for example a classifier outage on one issue) never drops the
// issue from the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, issues []*model.Issue) *model.BatchResult {
	records := make([]*model.AnalysisRecord, len(issues))

	sem := make(chan struct{}, a.cfg.MaxWorkers)
	var wg sync.WaitGroup
	for i, issue := range issues {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, issue *model.Issue) {
			defer wg.Done()
			defer func() { <-sem }()
			records[i] = a.AnalyzeIssue(ctx, issue)
		}(i, issue)
	}
	wg.Wait()

	return &model.BatchResult{
		Records: records,
		Rollup:  Reduce(records),
	}
}

// Reduce folds analysis records into a Rollup. An empty record set yields the
// zero rollup with initialized maps.
func Reduce(records []*model.AnalysisRecord) model.Rollup {
	r := model.Rollup{
		Issues:        len(records),
		BandCounts:    make(map[string]int),
		BlockersByCat: make(map[model.BlockerCategory]int),
	}
	if len(records) == 0 {
		return r
	}

	var riskSum int
	for _, rec := range records {
		riskSum += rec.Risk.Score
		if rec.Risk.Score > r.MaxRisk {
			r.MaxRisk = rec.Risk.Score
		}
		r.TotalCost += rec.Cost.TotalCost
		r.TotalDailyCost += rec.Cost.EffectiveRate
		r.BandCounts[rec.Risk.Band]++
		seen := make(map[model.BlockerCategory]bool)
		for _, b := range rec.Blockers {
			if !seen[b.Category] {
				seen[b.Category] = true
				r.BlockersByCat[b.Category]++
			}
		}
		if rec.Sentiment.Unavailable {
			r.SentimentDegraded++
		}
	}
	r.AvgRisk = float64(riskSum) / float64(len(records))

	r.TopRisks = topRisks(records, topRiskLimit)
	return r
}

// topRisks returns up to limit issue references ordered by descending score,
// ties broken by issue key for stable output.
func topRisks(records []*model.AnalysisRecord, limit int) []model.RiskIssueRef {
	sorted := make([]*model.AnalysisRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Risk.Score != sorted[j].Risk.Score {
			return sorted[i].Risk.Score > sorted[j].Risk.Score
		}
		return sorted[i].IssueKey < sorted[j].IssueKey
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	refs := make([]model.RiskIssueRef, 0, len(sorted))
	for _, rec := range sorted {
		refs = append(refs, model.RiskIssueRef{
			IssueKey: rec.IssueKey,
			Score:    rec.Risk.Score,
			Band:     rec.Risk.Band,
			Status:   rec.Status,
			Assignee: rec.Cost.Assignee,
		})
	}
	return refs
}
