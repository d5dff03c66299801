package engine

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/consilo/consilo-backend/model"
)

// FormatIssueExecutive renders a plain-text executive summary for one analysis
// record, suitable for chat digests and email.
func FormatIssueExecutive(issue *model.Issue, rec *model.AnalysisRecord) string {
	var b strings.Builder

	assignee := rec.Cost.Assignee
	if rec.Cost.Role != "" {
		assignee = fmt.Sprintf("%s (%s, %s)", assignee, rec.Cost.Role, rec.Cost.Location)
	}

	fmt.Fprintf(&b, "ISSUE: %s - %s\n", rec.IssueKey, issue.Summary)
	fmt.Fprintf(&b, "Status: %s | Priority: %s\n", rec.Status, orNA(issue.Priority))
	fmt.Fprintf(&b, "Assignee: %s\n", assignee)
	fmt.Fprintf(&b, "Risk: %d/100 (%s)\n\n", rec.Risk.Score, rec.Risk.Band)

	fmt.Fprintf(&b, "COST\n")
	fmt.Fprintf(&b, "- Daily cost: $%.0f\n", rec.Cost.EffectiveRate)
	for _, m := range rec.Cost.Multipliers {
		fmt.Fprintf(&b, "- Applied: %s\n", m.Label)
	}
	fmt.Fprintf(&b, "- Estimated effort: %.1f days\n", rec.Cost.EffortDays)
	fmt.Fprintf(&b, "- Total estimated cost: $%.0f\n\n", rec.Cost.TotalCost)

	fmt.Fprintf(&b, "BLOCKERS: %d\n", len(rec.Blockers))
	for i, bl := range rec.Blockers {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", strings.ToUpper(string(bl.Category)), truncate(bl.Snippet, 80))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "RECOMMENDATION: %s\n", rec.Predictions.RecommendedAction)
	fmt.Fprintf(&b, "Escalation needed: %s", yesNo(rec.Predictions.EscalationNeeded))
	return b.String()
}

// FormatRollupExecutive renders the sprint/portfolio rollup summary.
func FormatRollupExecutive(label string, rollup model.Rollup) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\n%s EXECUTIVE SUMMARY\n%s\n", rule, strings.ToUpper(label), rule)
	fmt.Fprintf(&b, "Issues analyzed: %d\n\n", rollup.Issues)

	fmt.Fprintf(&b, "RISK\n")
	fmt.Fprintf(&b, "- Avg risk: %.1f/100\n", rollup.AvgRisk)
	fmt.Fprintf(&b, "- Max risk: %d/100\n", rollup.MaxRisk)
	for _, ref := range rollup.TopRisks {
		fmt.Fprintf(&b, "- %s: %d (%s)\n", ref.IssueKey, ref.Score, ref.Band)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "BLOCKERS\n")
	if len(rollup.BlockersByCat) == 0 {
		b.WriteString("- None detected\n")
	} else {
		for _, kv := range sortedCategoryCounts(rollup.BlockersByCat) {
			fmt.Fprintf(&b, "- %s: %d issues\n", kv.cat, kv.n)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "COST\n")
	fmt.Fprintf(&b, "- Total daily cost exposure: $%.0f\n", rollup.TotalDailyCost)
	fmt.Fprintf(&b, "- Total estimated cost: $%.0f", rollup.TotalCost)
	if rollup.SentimentDegraded > 0 {
		fmt.Fprintf(&b, "\n\nNOTE: sentiment unavailable for %d issues", rollup.SentimentDegraded)
	}
	return b.String()
}

type categoryCount struct {
	cat model.BlockerCategory
	n   int
}

func sortedCategoryCounts(m map[model.BlockerCategory]int) []categoryCount {
	out := make([]categoryCount, 0, len(m))
	for cat, n := range m {
		out = append(out, categoryCount{cat, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].cat < out[j].cat
	})
	return out
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// truncate cuts s to at most n bytes without splitting a multibyte rune, so
// truncated snippets stay valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
