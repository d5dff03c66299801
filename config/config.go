// Package config holds the engine configuration snapshot: role rates,
// name-to-role and name-to-location mappings, detection rules, cost
// multipliers, severity bands and blocker patterns.
//
// A Config is loaded once, validated, compiled, and never mutated afterward.
// Hot changes mean building a new snapshot and swapping it between analysis
// calls, never editing one in place.
package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/consilo/consilo-backend/model"
	"gopkg.in/yaml.v2"
)

// RoleRule maps a display-name pattern to a role. Rules are evaluated in
// order, first match wins, so more specific patterns must come first.
type RoleRule struct {
	Pattern string `yaml:"pattern"`
	Role    string `yaml:"role"`

	re *regexp.Regexp
}

// SeverityBand names a contiguous score range. Bands must be non-overlapping
// and cover [0,100] with no gaps; Max is inclusive.
type SeverityBand struct {
	Name string `yaml:"name"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// BusinessHours is the local window outside of which weekday activity counts
// as overtime. Start is inclusive, End exclusive (hour < Start or hour >= End
// is after-hours).
type BusinessHours struct {
	StartHour int    `yaml:"start_hour"`
	EndHour   int    `yaml:"end_hour"`
	Timezone  string `yaml:"timezone"`

	loc *time.Location
}

// Config is the complete immutable engine configuration snapshot.
type Config struct {
	// Cost model
	RoleRates           map[string]float64 `yaml:"role_rates"`
	UserRoles           map[string]string  `yaml:"user_roles"`
	UserLocations       map[string]string  `yaml:"user_locations"`
	RoleRules           []RoleRule         `yaml:"role_rules"`
	DefaultRole         string             `yaml:"default_role"`
	DefaultRate         float64            `yaml:"default_rate"`
	DefaultLocation     string             `yaml:"default_location"`
	LocationMultipliers map[string]float64 `yaml:"location_multipliers"`
	OvertimeMultiplier  float64            `yaml:"overtime_multiplier"`
	WeekendMultiplier   float64            `yaml:"weekend_multiplier"`
	BusinessHours       BusinessHours      `yaml:"business_hours"`

	// Effort estimation
	DefaultEffortDays  float64            `yaml:"default_effort_days"`
	PriorityEffortDays map[string]float64 `yaml:"priority_effort_days"`

	// Risk scoring
	SeverityBands []SeverityBand `yaml:"severity_bands"`

	// Blocker detection: category -> case-insensitive patterns
	BlockerPatterns map[string][]string `yaml:"blocker_patterns"`

	// Orchestration
	MaxWorkers int `yaml:"max_workers"`

	// Sentiment classifier
	ClassifierURL     string        `yaml:"classifier_url"`
	ClassifierTimeout time.Duration `yaml:"classifier_timeout"`
	ClassifierRetries uint64        `yaml:"classifier_retries"`

	// Scheduled sprint digest
	DigestCron     string `yaml:"digest_cron"`
	DigestProjects string `yaml:"digest_projects"`

	compiled map[model.BlockerCategory][]*regexp.Regexp
}

// Default returns the built-in configuration snapshot, already compiled.
func Default() *Config {
	cfg := &Config{
		RoleRates: map[string]float64{
			"Senior Engineer":     5000,
			"Staff Engineer":      6000,
			"Principal Engineer":  7000,
			"Mid Engineer":        3000,
			"Junior Engineer":     2000,
			"Engineering Manager": 6500,
			"Tech Lead":           5500,
			"Senior PM":           5000,
			"PM":                  4000,
			"Senior Designer":     4500,
			"Designer":            3500,
			"QA Engineer":         3000,
			"DevOps Engineer":     4500,
			"SRE":                 5000,
			"Data Engineer":       4500,
			"Data Scientist":      5000,
			"Contractor":          3500,
			"Intern":              1000,
		},
		UserRoles:     map[string]string{},
		UserLocations: map[string]string{},
		RoleRules: []RoleRule{
			{Pattern: `(Senior|Sr\.?)\s.*Engineer`, Role: "Senior Engineer"},
			{Pattern: `(Staff|Principal)\s.*Engineer`, Role: "Staff Engineer"},
			{Pattern: `Engineering\s.*Manager`, Role: "Engineering Manager"},
			{Pattern: `Tech\s.*Lead`, Role: "Tech Lead"},
			{Pattern: `(Junior|Jr\.?)\s.*Engineer`, Role: "Junior Engineer"},
			{Pattern: `(Senior|Sr\.?)\s.*PM`, Role: "Senior PM"},
			{Pattern: `Product\s.*Manager`, Role: "PM"},
			{Pattern: `(Senior|Sr\.?)\s.*Designer`, Role: "Senior Designer"},
			{Pattern: `Designer`, Role: "Designer"},
			{Pattern: `QA|Quality`, Role: "QA Engineer"},
			{Pattern: `DevOps`, Role: "DevOps Engineer"},
			{Pattern: `SRE|Reliability`, Role: "SRE"},
			{Pattern: `Data\s.*Scientist`, Role: "Data Scientist"},
			{Pattern: `Data\s.*Engineer`, Role: "Data Engineer"},
			{Pattern: `Contractor`, Role: "Contractor"},
			{Pattern: `Intern`, Role: "Intern"},
		},
		DefaultRole:     "Mid Engineer",
		DefaultRate:     3000,
		DefaultLocation: "Remote",
		LocationMultipliers: map[string]float64{
			"San Francisco": 1.3,
			"New York":      1.2,
			"Austin":        1.0,
			"Bangalore":     0.4,
			"Warsaw":        0.5,
			"Remote":        1.0,
		},
		OvertimeMultiplier: 1.5,
		WeekendMultiplier:  2.0,
		BusinessHours:      BusinessHours{StartHour: 9, EndHour: 18, Timezone: "UTC"},
		DefaultEffortDays:  2,
		PriorityEffortDays: map[string]float64{
			"Highest": 5,
			"High":    3,
			"Medium":  2,
			"Low":     1,
			"Lowest":  0.5,
		},
		SeverityBands: []SeverityBand{
			{Name: "low", Min: 0, Max: 29},
			{Name: "medium", Min: 30, Max: 59},
			{Name: "high", Min: 60, Max: 79},
			{Name: "critical", Min: 80, Max: 100},
		},
		BlockerPatterns: map[string][]string{
			"technical-debt": {`refactor`, `technical debt`, `legacy code`, `deprecated`},
			"dependency":     {`waiting on`, `blocked by`, `depends on`, `dependency`},
			"resource":       {`need help`, `need resource`, `understaffed`, `capacity`},
			"external":       {`vendor`, `third party`, `external team`, `partner`},
			"requirements":   {`unclear requirements`, `missing spec`, `need clarification`},
			"testing":        {`test failure`, `qa blocker`, `test environment`},
			"deployment":     {`deploy`, `release`, `environment issue`, `infrastructure`},
		},
		MaxWorkers:        4,
		ClassifierURL:     "http://localhost:8000/classify",
		ClassifierTimeout: 10 * time.Second,
		ClassifierRetries: 3,
		DigestCron:        "0 10 * * FRI",
	}
	if err := cfg.Finalize(); err != nil {
		// The built-in snapshot must always validate; a failure here is a bug.
		panic(err)
	}
	return cfg
}

// LoadFile reads a YAML snapshot, overlaying it on the defaults, then
// validates and compiles it. Any error here is fatal for the process: no
// analysis may run against a broken configuration.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.compiled = nil
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Finalize validates the snapshot and compiles its patterns and timezone.
func (c *Config) Finalize() error {
	if err := c.validate(); err != nil {
		return err
	}
	return c.compile()
}

func (c *Config) validate() error {
	if len(c.RoleRates) == 0 {
		return fmt.Errorf("role_rates is empty; define at least one role")
	}
	if c.DefaultRate <= 0 {
		return fmt.Errorf("default_rate must be positive, got %v", c.DefaultRate)
	}
	if c.DefaultRole == "" {
		return fmt.Errorf("default_role is required")
	}
	if _, ok := c.RoleRates[c.DefaultRole]; !ok {
		return fmt.Errorf("default_role %q has no entry in role_rates", c.DefaultRole)
	}
	for user, role := range c.UserRoles {
		if _, ok := c.RoleRates[role]; !ok {
			return fmt.Errorf("user %q mapped to unknown role %q", user, role)
		}
	}
	for _, rule := range c.RoleRules {
		if _, ok := c.RoleRates[rule.Role]; !ok {
			return fmt.Errorf("role rule %q resolves to unknown role %q", rule.Pattern, rule.Role)
		}
	}
	if c.DefaultLocation == "" {
		return fmt.Errorf("default_location is required")
	}
	for loc, m := range c.LocationMultipliers {
		if m <= 0 {
			return fmt.Errorf("location multiplier for %q must be positive, got %v", loc, m)
		}
	}
	if c.OvertimeMultiplier <= 0 || c.WeekendMultiplier <= 0 {
		return fmt.Errorf("overtime and weekend multipliers must be positive")
	}
	bh := c.BusinessHours
	if bh.StartHour < 0 || bh.EndHour > 24 || bh.StartHour >= bh.EndHour {
		return fmt.Errorf("business hours window %d..%d is invalid", bh.StartHour, bh.EndHour)
	}
	if c.DefaultEffortDays <= 0 {
		return fmt.Errorf("default_effort_days must be positive")
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}
	if err := c.validateBands(); err != nil {
		return err
	}
	known := make(map[string]bool)
	for _, cat := range model.AllBlockerCategories() {
		known[string(cat)] = true
	}
	for cat := range c.BlockerPatterns {
		if !known[cat] {
			return fmt.Errorf("blocker_patterns references unknown category %q", cat)
		}
	}
	return nil
}

// validateBands checks that the severity bands are contiguous, non-overlapping
// and cover [0,100] exactly.
func (c *Config) validateBands() error {
	if len(c.SeverityBands) == 0 {
		return fmt.Errorf("severity_bands is empty")
	}
	bands := make([]SeverityBand, len(c.SeverityBands))
	copy(bands, c.SeverityBands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })
	if bands[0].Min != 0 {
		return fmt.Errorf("severity bands must start at 0, got %d", bands[0].Min)
	}
	for i, b := range bands {
		if b.Name == "" {
			return fmt.Errorf("severity band %d has no name", i)
		}
		if b.Max < b.Min {
			return fmt.Errorf("severity band %q has max %d below min %d", b.Name, b.Max, b.Min)
		}
		if i > 0 && b.Min != bands[i-1].Max+1 {
			return fmt.Errorf("severity bands %q and %q leave a gap or overlap", bands[i-1].Name, b.Name)
		}
	}
	if bands[len(bands)-1].Max != 100 {
		return fmt.Errorf("severity bands must end at 100, got %d", bands[len(bands)-1].Max)
	}
	return nil
}

func (c *Config) compile() error {
	loc, err := time.LoadLocation(c.BusinessHours.Timezone)
	if err != nil {
		return fmt.Errorf("business hours timezone %q: %w", c.BusinessHours.Timezone, err)
	}
	c.BusinessHours.loc = loc

	for i := range c.RoleRules {
		re, err := regexp.Compile("(?i)" + c.RoleRules[i].Pattern)
		if err != nil {
			return fmt.Errorf("role rule pattern %q: %w", c.RoleRules[i].Pattern, err)
		}
		c.RoleRules[i].re = re
	}

	c.compiled = make(map[model.BlockerCategory][]*regexp.Regexp, len(c.BlockerPatterns))
	for cat, patterns := range c.BlockerPatterns {
		for _, p := range patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return fmt.Errorf("blocker pattern %q for category %s: %w", p, cat, err)
			}
			c.compiled[model.BlockerCategory(cat)] = append(c.compiled[model.BlockerCategory(cat)], re)
		}
	}
	return nil
}

// CompiledBlockerPatterns returns the compiled per-category pattern sets.
func (c *Config) CompiledBlockerPatterns() map[model.BlockerCategory][]*regexp.Regexp {
	return c.compiled
}

// RoleForName resolves a display name to a role: explicit mapping first, then
// the ordered detection rules, then the configured default. The second return
// reports whether a detection rule (rather than mapping or default) matched.
func (c *Config) RoleForName(displayName string) (string, bool) {
	if role, ok := c.UserRoles[displayName]; ok {
		return role, false
	}
	for _, rule := range c.RoleRules {
		if rule.re.MatchString(displayName) {
			return rule.Role, true
		}
	}
	return c.DefaultRole, false
}

// RateForRole returns the daily rate for a role, falling back to the default
// rate for anything outside the table.
func (c *Config) RateForRole(role string) float64 {
	if rate, ok := c.RoleRates[role]; ok {
		return rate
	}
	return c.DefaultRate
}

// LocationForName resolves a display name to a location via the explicit
// mapping, defaulting to the configured default location.
func (c *Config) LocationForName(displayName string) string {
	if loc, ok := c.UserLocations[displayName]; ok {
		return loc
	}
	return c.DefaultLocation
}

// MultiplierForLocation returns the geographic multiplier for a location,
// 1.0 when the location has no entry.
func (c *Config) MultiplierForLocation(location string) float64 {
	if m, ok := c.LocationMultipliers[location]; ok {
		return m
	}
	return 1.0
}

// BandForScore maps a risk score to its severity band name. Scores are
// clamped into [0,100] before lookup, so this never fails on a validated
// snapshot.
func (c *Config) BandForScore(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	for _, b := range c.SeverityBands {
		if score >= b.Min && score <= b.Max {
			return b.Name
		}
	}
	return c.SeverityBands[len(c.SeverityBands)-1].Name
}

// Location returns the loaded business-hours timezone.
func (bh BusinessHours) Location() *time.Location {
	if bh.loc == nil {
		return time.UTC
	}
	return bh.loc
}
