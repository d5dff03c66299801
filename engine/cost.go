package engine

import (
	"fmt"
	"time"

	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/model"
)

// CostModel computes cost exposure for an issue's assignee: role and location
// resolution, time-of-work multipliers and the total estimate. All inputs come
// from the immutable config snapshot, so resolution is idempotent and
// side-effect-free.
type CostModel struct {
	cfg *config.Config
}

// NewCostModel builds a cost model over a validated config snapshot.
func NewCostModel(cfg *config.Config) *CostModel {
	return &CostModel{cfg: cfg}
}

// ResolveProfile resolves the assignee to a PersonProfile. Unassigned issues
// resolve to the configured defaults; this is never an error.
func (cm *CostModel) ResolveProfile(assignee string) model.PersonProfile {
	if assignee == "" || assignee == "Unassigned" {
		return model.PersonProfile{
			DisplayName: "Unassigned",
			Role:        cm.cfg.DefaultRole,
			Location:    cm.cfg.DefaultLocation,
			BaseRate:    cm.cfg.RateForRole(cm.cfg.DefaultRole),
		}
	}
	role, detected := cm.cfg.RoleForName(assignee)
	return model.PersonProfile{
		DisplayName:  assignee,
		Role:         role,
		Location:     cm.cfg.LocationForName(assignee),
		BaseRate:     cm.cfg.RateForRole(role),
		RoleDetected: detected,
	}
}

// workKind classifies a single activity timestamp in the business-hours
// timezone.
type workKind int

const (
	workBusinessHours workKind = iota
	workAfterHours
	workWeekend
)

func (cm *CostModel) classifyTimestamp(ts time.Time) workKind {
	local := ts.In(cm.cfg.BusinessHours.Location())
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return workWeekend
	}
	h := local.Hour()
	if h < cm.cfg.BusinessHours.StartHour || h >= cm.cfg.BusinessHours.EndHour {
		return workAfterHours
	}
	return workBusinessHours
}

// Breakdown produces the full CostBreakdown for an issue. Only comments
// authored by the assignee count toward time-of-work detection; an unassigned
// issue has no attributable activity and keeps the base rate. Weekend activity
// takes precedence over after-hours activity: the multipliers never stack.
func (cm *CostModel) Breakdown(issue *model.Issue) model.CostBreakdown {
	profile := cm.ResolveProfile(issue.AssigneeName())

	overtime := false
	weekend := false
	if profile.DisplayName != "Unassigned" {
		for _, c := range issue.Comments {
			if c.Author != profile.DisplayName {
				continue
			}
			switch cm.classifyTimestamp(c.CreatedAt) {
			case workAfterHours:
				overtime = true
			case workWeekend:
				weekend = true
			}
		}
	}

	bd := model.CostBreakdown{
		Assignee:         profile.DisplayName,
		Role:             profile.Role,
		Location:         profile.Location,
		BaseRate:         profile.BaseRate,
		EffortDays:       cm.EstimateEffortDays(issue),
		OvertimeDetected: overtime,
		WeekendDetected:  weekend,
	}

	rate := profile.BaseRate
	if locMult := cm.cfg.MultiplierForLocation(profile.Location); locMult != 1.0 {
		rate *= locMult
		bd.Multipliers = append(bd.Multipliers, model.CostMultiplier{
			Kind:   "location",
			Label:  fmt.Sprintf("%s: %.1fx", profile.Location, locMult),
			Factor: locMult,
		})
	}

	// Weekend dominates overtime when both kinds of activity are present in
	// the same analysis window.
	switch {
	case weekend:
		rate *= cm.cfg.WeekendMultiplier
		bd.Multipliers = append(bd.Multipliers, model.CostMultiplier{
			Kind:   "weekend",
			Label:  fmt.Sprintf("Weekend: %.1fx", cm.cfg.WeekendMultiplier),
			Factor: cm.cfg.WeekendMultiplier,
		})
	case overtime:
		rate *= cm.cfg.OvertimeMultiplier
		bd.Multipliers = append(bd.Multipliers, model.CostMultiplier{
			Kind:   "overtime",
			Label:  fmt.Sprintf("Overtime: %.1fx", cm.cfg.OvertimeMultiplier),
			Factor: cm.cfg.OvertimeMultiplier,
		})
	}

	bd.EffectiveRate = rate
	bd.TotalCost = rate * bd.EffortDays
	return bd
}

// EstimateEffortDays resolves the effort estimate: explicit story points win,
// then the priority table, then the configured default.
func (cm *CostModel) EstimateEffortDays(issue *model.Issue) float64 {
	if issue.StoryPoints != nil && *issue.StoryPoints > 0 {
		return *issue.StoryPoints
	}
	if days, ok := cm.cfg.PriorityEffortDays[issue.Priority]; ok {
		return days
	}
	return cm.cfg.DefaultEffortDays
}
