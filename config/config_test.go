package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consilo/consilo-backend/model"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NotEmpty(t, cfg.RoleRates)
	assert.Contains(t, cfg.RoleRates, cfg.DefaultRole)
	assert.NotEmpty(t, cfg.CompiledBlockerPatterns())
	for _, cat := range model.AllBlockerCategories() {
		assert.NotEmpty(t, cfg.CompiledBlockerPatterns()[cat], "category %s has no patterns", cat)
	}
}

func TestRoleForNamePrecedence(t *testing.T) {
	cfg := Default()
	cfg.UserRoles["Priya"] = "Tech Lead"

	// Explicit mapping wins even when a rule would match.
	role, detected := cfg.RoleForName("Priya")
	assert.Equal(t, "Tech Lead", role)
	assert.False(t, detected)

	// Ordered rules, first match wins.
	role, detected = cfg.RoleForName("Senior Platform Engineer")
	assert.Equal(t, "Senior Engineer", role)
	assert.True(t, detected)

	// Nothing matches, default applies.
	role, detected = cfg.RoleForName("Morgan")
	assert.Equal(t, cfg.DefaultRole, role)
	assert.False(t, detected)
}

func TestRateAndLocationFallbacks(t *testing.T) {
	cfg := Default()

	assert.Equal(t, cfg.DefaultRate, cfg.RateForRole("No Such Role"))
	assert.Equal(t, cfg.DefaultLocation, cfg.LocationForName("Nobody"))
	assert.Equal(t, 1.0, cfg.MultiplierForLocation("Atlantis"))
	assert.Equal(t, 1.3, cfg.MultiplierForLocation("San Francisco"))
}

func TestBandForScore(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "low", cfg.BandForScore(0))
	assert.Equal(t, "low", cfg.BandForScore(29))
	assert.Equal(t, "medium", cfg.BandForScore(30))
	assert.Equal(t, "high", cfg.BandForScore(79))
	assert.Equal(t, "critical", cfg.BandForScore(80))
	assert.Equal(t, "critical", cfg.BandForScore(100))

	// Out-of-range scores clamp instead of failing.
	assert.Equal(t, "low", cfg.BandForScore(-5))
	assert.Equal(t, "critical", cfg.BandForScore(140))
}

func TestValidateRejectsBrokenSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown default role", func(c *Config) { c.DefaultRole = "Ghost" }},
		{"user mapped to unknown role", func(c *Config) { c.UserRoles["X"] = "Ghost" }},
		{"rule with unknown role", func(c *Config) {
			c.RoleRules = append(c.RoleRules, RoleRule{Pattern: "x", Role: "Ghost"})
		}},
		{"negative multiplier", func(c *Config) { c.LocationMultipliers["Oslo"] = -1 }},
		{"inverted business hours", func(c *Config) { c.BusinessHours.StartHour = 20; c.BusinessHours.EndHour = 8 }},
		{"band gap", func(c *Config) {
			c.SeverityBands = []SeverityBand{{Name: "low", Min: 0, Max: 50}, {Name: "high", Min: 60, Max: 100}}
		}},
		{"bands not covering 100", func(c *Config) {
			c.SeverityBands = []SeverityBand{{Name: "low", Min: 0, Max: 90}}
		}},
		{"unknown blocker category", func(c *Config) { c.BlockerPatterns["mystery"] = []string{"x"} }},
		{"bad pattern", func(c *Config) { c.BlockerPatterns["testing"] = []string{"(unclosed"} }},
		{"bad timezone", func(c *Config) { c.BusinessHours.Timezone = "Mars/Olympus" }},
		{"zero workers", func(c *Config) { c.MaxWorkers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Finalize())
		})
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consilo.yaml")
	body := `
default_role: "Senior Engineer"
location_multipliers:
  San Francisco: 1.4
  New York: 1.2
  Austin: 1.0
  Bangalore: 0.4
  Warsaw: 0.5
  Remote: 1.0
max_workers: 8
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Senior Engineer", cfg.DefaultRole)
	assert.Equal(t, 1.4, cfg.MultiplierForLocation("San Francisco"))
	assert.Equal(t, 8, cfg.MaxWorkers)

	// Untouched sections keep their defaults.
	assert.Equal(t, 2.0, cfg.WeekendMultiplier)
	assert.NotEmpty(t, cfg.CompiledBlockerPatterns())
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_role: \"Ghost\"\n"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
