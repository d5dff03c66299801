package model

// PersonProfile is the resolved cost identity for an assignee: role, location
// and base daily rate after the configured mapping/detection rules have run.
type PersonProfile struct {
	DisplayName  string  `json:"display_name"`
	Role         string  `json:"role"`
	Location     string  `json:"location"`
	BaseRate     float64 `json:"base_rate"`
	RoleDetected bool    `json:"role_detected"` // true when the role came from a detection rule rather than an explicit mapping
}
