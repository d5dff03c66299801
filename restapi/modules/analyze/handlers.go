// Package analyze implements the REST API handlers for risk analysis operations.
package analyze

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consilo/consilo-backend/database"
	"github.com/consilo/consilo-backend/engine"
	"github.com/consilo/consilo-backend/internal/services"
	"github.com/consilo/consilo-backend/model"
)

const historyLimit = 30

// IssueAnalysisRequest carries one issue snapshot to analyze.
type IssueAnalysisRequest struct {
	Issue model.Issue `json:"issue"`
}

// IssueAnalysisResponse returns the stored record plus a readable summary.
type IssueAnalysisResponse struct {
	Record           *model.AnalysisRecord `json:"record"`
	ExecutiveSummary string                `json:"executive_summary"`
}

// SprintAnalysisRequest carries every issue snapshot of one sprint.
type SprintAnalysisRequest struct {
	ProjectKey string        `json:"project_key"`
	SprintName string        `json:"sprint_name"`
	Issues     []model.Issue `json:"issues"`
}

// SprintAnalysisResponse returns the per-issue records and the rollup.
type SprintAnalysisResponse struct {
	ProjectKey       string                  `json:"project_key"`
	SprintName       string                  `json:"sprint_name"`
	Records          []*model.AnalysisRecord `json:"records"`
	Rollup           model.Rollup            `json:"rollup"`
	ExecutiveSummary string                  `json:"executive_summary"`
}

// PortfolioSlice is one labeled group of issues in a portfolio request.
type PortfolioSlice struct {
	Label  string        `json:"label"`
	Issues []model.Issue `json:"issues"`
}

// PortfolioAnalysisRequest carries labeled slices of issues across projects.
type PortfolioAnalysisRequest struct {
	Slices []PortfolioSlice `json:"slices"`
}

// PortfolioSliceResult is the analysis outcome for one slice.
type PortfolioSliceResult struct {
	Label   string                  `json:"label"`
	Records []*model.AnalysisRecord `json:"records"`
	Rollup  model.Rollup            `json:"rollup"`
}

// PortfolioAnalysisResponse returns per-slice results plus the overall rollup.
type PortfolioAnalysisResponse struct {
	Slices           []PortfolioSliceResult `json:"slices"`
	Overall          model.Rollup           `json:"overall"`
	ExecutiveSummary string                 `json:"executive_summary"`
}

// TrendPoint is one historical sample for the trend endpoint.
type TrendPoint struct {
	Timestamp            string  `json:"timestamp"`
	RiskScore            int     `json:"risk_score"`
	DailyCost            float64 `json:"daily_cost"`
	BlockerCount         int     `json:"blocker_count"`
	SentimentNegativePct float64 `json:"sentiment_negative_pct"`
}

// TrendResponse reports historical data points and the derived direction.
type TrendResponse struct {
	IssueKey       string       `json:"issue_key"`
	ProjectKey     string       `json:"project_key"`
	DataPoints     []TrendPoint `json:"data_points"`
	TrendDirection string       `json:"trend_direction"`
}

// PostAnalyzeIssue analyzes a single issue snapshot and persists the record.
func PostAnalyzeIssue(svc *services.AnalysisServiceWrapper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req IssueAnalysisRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if req.Issue.Key == "" {
			return badRequest(c, "issue.key is required")
		}

		rec, err := svc.AnalyzeIssue(c.UserContext(), &req.Issue)
		if err != nil {
			return internalError(c, err)
		}

		return c.JSON(IssueAnalysisResponse{
			Record:           rec,
			ExecutiveSummary: engine.FormatIssueExecutive(&req.Issue, rec),
		})
	}
}

// PostAnalyzeSprint analyzes every issue of a sprint and returns the rollup.
func PostAnalyzeSprint(svc *services.AnalysisServiceWrapper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SprintAnalysisRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if len(req.Issues) == 0 {
			return badRequest(c, "issues must not be empty")
		}

		result, err := svc.AnalyzeBatch(c.UserContext(), issueRefs(req.Issues))
		if err != nil {
			return internalError(c, err)
		}

		label := req.ProjectKey + " sprint"
		if req.SprintName != "" {
			label = req.ProjectKey + " " + req.SprintName
		}

		return c.JSON(SprintAnalysisResponse{
			ProjectKey:       req.ProjectKey,
			SprintName:       req.SprintName,
			Records:          result.Records,
			Rollup:           result.Rollup,
			ExecutiveSummary: engine.FormatRollupExecutive(label, result.Rollup),
		})
	}
}

// PostAnalyzePortfolio analyzes labeled slices and aggregates an overall rollup.
func PostAnalyzePortfolio(svc *services.AnalysisServiceWrapper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req PortfolioAnalysisRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if len(req.Slices) == 0 {
			return badRequest(c, "slices must not be empty")
		}

		resp := PortfolioAnalysisResponse{}
		var all []*model.AnalysisRecord
		for _, slice := range req.Slices {
			result, err := svc.AnalyzeBatch(c.UserContext(), issueRefs(slice.Issues))
			if err != nil {
				return internalError(c, err)
			}
			resp.Slices = append(resp.Slices, PortfolioSliceResult{
				Label:   slice.Label,
				Records: result.Records,
				Rollup:  result.Rollup,
			})
			all = append(all, result.Records...)
		}

		resp.Overall = engine.Reduce(all)
		resp.ExecutiveSummary = engine.FormatRollupExecutive("portfolio", resp.Overall)
		return c.JSON(resp)
	}
}

// GetIssueHistory returns stored analysis records for an issue, newest first.
func GetIssueHistory(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		issueKey := c.Params("key")
		records, err := database.ListAnalysisHistory(c.UserContext(), db.Database, issueKey, historyLimit)
		if err != nil {
			return internalError(c, err)
		}
		return c.JSON(records)
	}
}

// GetIssueTrend derives the risk trend from stored history. Direction compares
// the newest score against the oldest: a drop of more than 10 is improving, a
// rise of more than 10 is degrading, anything else is stable. Fewer than two
// samples give insufficient_data.
func GetIssueTrend(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		issueKey := c.Params("key")
		records, err := database.ListAnalysisHistory(c.UserContext(), db.Database, issueKey, historyLimit)
		if err != nil {
			return internalError(c, err)
		}
		if len(records) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No historical data found for this issue",
			})
		}

		// History comes back newest first; trends read oldest to newest.
		points := make([]TrendPoint, 0, len(records))
		for i := len(records) - 1; i >= 0; i-- {
			rec := records[i]
			points = append(points, TrendPoint{
				Timestamp:            rec.AnalyzedAt.Format("2006-01-02T15:04:05Z07:00"),
				RiskScore:            rec.Risk.Score,
				DailyCost:            rec.Cost.EffectiveRate,
				BlockerCount:         len(rec.Blockers),
				SentimentNegativePct: rec.Sentiment.NegativePct,
			})
		}

		return c.JSON(TrendResponse{
			IssueKey:       issueKey,
			ProjectKey:     records[0].ProjectKey,
			DataPoints:     points,
			TrendDirection: TrendDirection(points),
		})
	}
}

// TrendDirection classifies oldest-to-newest risk movement.
func TrendDirection(points []TrendPoint) string {
	scores := make([]int, len(points))
	for i, p := range points {
		scores[i] = p.RiskScore
	}
	return engine.TrendDirection(scores)
}

func issueRefs(issues []model.Issue) []*model.Issue {
	refs := make([]*model.Issue, len(issues))
	for i := range issues {
		refs[i] = &issues[i]
	}
	return refs
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
