// Package model defines the domain objects shared across the Consilo backend:
// issue snapshots coming in from tracker integrations and the analysis records
// produced by the risk engine.
package model

import "time"

// Issue is an immutable snapshot of a tracker issue at analysis time.
// The engine never mutates it; re-analysis always works from a fresh snapshot.
type Issue struct {
	Key         string    `json:"key"`
	ProjectKey  string    `json:"project_key"`
	Summary     string    `json:"summary,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	StoryPoints *float64  `json:"story_points,omitempty"`
	Assignee    *Assignee `json:"assignee,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
}

// Assignee identifies the person an issue is assigned to.
type Assignee struct {
	DisplayName string `json:"display_name"`
}

// Comment is a single entry in an issue's comment history. Ordering by
// CreatedAt matters for sentiment trend and time-of-work detection.
type Comment struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AssigneeName returns the display name, or "Unassigned" when no assignee is set.
func (i *Issue) AssigneeName() string {
	if i.Assignee == nil || i.Assignee.DisplayName == "" {
		return "Unassigned"
	}
	return i.Assignee.DisplayName
}
