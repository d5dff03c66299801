// Package jobs schedules the recurring digest that snapshots project risk
// rollups from stored analysis history.
package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/database"
	"github.com/consilo/consilo-backend/engine"
	"github.com/consilo/consilo-backend/model"
)

const digestTimeout = 5 * time.Minute

// Cron owns the digest schedule.
type Cron struct {
	cfg    *config.Config
	conn   database.DBConnection
	logger *zap.Logger
	c      *cron.Cron
}

// New builds the scheduler from the config snapshot. The digest reduces the
// latest stored record per issue for each configured project into a rollup
// snapshot; projects with no stored analyses are skipped.
func New(cfg *config.Config, conn database.DBConnection, logger *zap.Logger) *Cron {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
	cr := &Cron{cfg: cfg, conn: conn, logger: logger, c: c}
	if cfg.DigestCron != "" {
		if _, err := c.AddFunc(cfg.DigestCron, cr.digest); err != nil {
			logger.Sugar().Fatalf("invalid digest schedule %q: %v", cfg.DigestCron, err)
		}
	}
	return cr
}

// Start begins the schedule.
func (cr *Cron) Start() { cr.c.Start() }

// Stop halts the schedule; running jobs finish.
func (cr *Cron) Stop() { cr.c.Stop() }

func (cr *Cron) digest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	for _, project := range splitProjects(cr.cfg.DigestProjects) {
		records, err := database.ListLatestByProject(ctx, cr.conn.Database, project)
		if err != nil {
			cr.logger.Sugar().Errorf("cron: list analyses for %s: %v", project, err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		refs := make([]*model.AnalysisRecord, len(records))
		for i := range records {
			refs[i] = &records[i]
		}

		snap := &model.RollupSnapshot{
			Key:        uuid.NewString(),
			ObjType:    "RollupSnapshot",
			Label:      "digest",
			ProjectKey: project,
			Rollup:     engine.Reduce(refs),
			CreatedAt:  time.Now().UTC(),
		}
		if err := database.SaveRollup(ctx, cr.conn, snap); err != nil {
			cr.logger.Sugar().Errorf("cron: save rollup for %s: %v", project, err)
			continue
		}
		cr.logger.Sugar().Infof("cron: digest stored for %s (%d issues, avg risk %.1f)",
			project, snap.Rollup.Issues, snap.Rollup.AvgRisk)
	}
}

func splitProjects(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
