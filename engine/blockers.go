// Package engine implements the Consilo risk and cost analysis pipeline:
// blocker detection, timeline metrics, cost modeling, sentiment aggregation
// and the composite risk score, composed per issue by the Analyzer.
package engine

import (
	"regexp"

	"github.com/consilo/consilo-backend/config"
	"github.com/consilo/consilo-backend/model"
)

const snippetLen = 200

// BlockerDetector scans issue text for category-specific blocker signals.
// Patterns come from the configuration snapshot; the detector never invents
// categories outside the fixed enumeration.
type BlockerDetector struct {
	patterns map[model.BlockerCategory][]*regexp.Regexp
}

// NewBlockerDetector builds a detector from a validated config snapshot.
func NewBlockerDetector(cfg *config.Config) *BlockerDetector {
	return &BlockerDetector{patterns: cfg.CompiledBlockerPatterns()}
}

// Detect evaluates every category pattern against the description and each
// comment body. A fragment may match multiple categories, and a category may
// match multiple fragments; capping happens in the risk scorer, not here.
// Empty description and zero comments yield an empty match set.
func (d *BlockerDetector) Detect(issue *model.Issue) []model.BlockerMatch {
	matches := []model.BlockerMatch{}
	if issue.Description != "" {
		matches = append(matches, d.scanFragment(issue.Description, model.SourceDescription, -1)...)
	}
	for i, c := range issue.Comments {
		matches = append(matches, d.scanFragment(c.Body, model.SourceComment, i)...)
	}
	return matches
}

func (d *BlockerDetector) scanFragment(text string, source model.BlockerSource, commentIdx int) []model.BlockerMatch {
	var out []model.BlockerMatch
	for _, cat := range model.AllBlockerCategories() {
		for _, re := range d.patterns[cat] {
			if re.MatchString(text) {
				out = append(out, model.BlockerMatch{
					Category:     cat,
					Snippet:      truncate(text, snippetLen),
					Source:       source,
					CommentIndex: commentIdx,
				})
				break // one match per category per fragment
			}
		}
	}
	return out
}

// DistinctCategories counts how many distinct categories appear in a match
// set. This, not the raw match count, feeds the risk scorer.
func DistinctCategories(matches []model.BlockerMatch) int {
	seen := make(map[model.BlockerCategory]bool, len(matches))
	for _, m := range matches {
		seen[m.Category] = true
	}
	return len(seen)
}
