package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldside/squadforge/internal/squad"
)

func validConfig() *Config {
	return &Config{
		Port:                   "8080",
		Env:                    "development",
		Budget:                 300_000_000,
		SquadSize:              25,
		QuotaGoalkeepers:       3,
		QuotaDefenders:         8,
		QuotaMidfielders:       8,
		QuotaForwards:          6,
		SolverTimeLimitSeconds: 30,
		FallbackEnabled:        true,
		SameClubBonus:          3,
		SameNationalityBonus:   1,
		ChemistryMultiplier:    1,
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero budget", func(c *Config) { c.Budget = 0 }},
		{"negative budget", func(c *Config) { c.Budget = -100 }},
		{"zero time limit", func(c *Config) { c.SolverTimeLimitSeconds = 0 }},
		{"quotas not summing to squad size", func(c *Config) { c.SquadSize = 20 }},
		{"zero squad size", func(c *Config) { c.SquadSize = 0 }},
		{"zero quota", func(c *Config) { c.QuotaGoalkeepers = 0; c.SquadSize = 22 }},
		{"negative chemistry bonus", func(c *Config) { c.SameClubBonus = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), squad.ErrInvalidConfiguration)
		})
	}
}

func TestConfigQuotas(t *testing.T) {
	quotas := validConfig().Quotas()
	assert.Equal(t, 3, quotas[squad.Goalkeeper])
	assert.Equal(t, 8, quotas[squad.Defender])
	assert.Equal(t, 8, quotas[squad.Midfielder])
	assert.Equal(t, 6, quotas[squad.Forward])
	assert.Equal(t, 25, quotas.TotalPlayers())
}

func TestConfigOptimizerConfig(t *testing.T) {
	cfg := validConfig()
	optCfg := cfg.OptimizerConfig()

	assert.InDelta(t, 300_000_000, optCfg.Budget, 1e-9)
	assert.Equal(t, 25, optCfg.SquadSize)
	assert.Equal(t, 30*time.Second, optCfg.SolverTimeLimit)
	assert.True(t, optCfg.FallbackEnabled)
	require.NoError(t, optCfg.Validate())
}

func TestConfigChemistryConfig(t *testing.T) {
	chem := validConfig().ChemistryConfig()
	assert.InDelta(t, 3.0, chem.SameClubBonus, 1e-9)
	assert.InDelta(t, 1.0, chem.SameNationalityBonus, 1e-9)
	assert.InDelta(t, 1.0, chem.ImportanceMultiplier, 1e-9)
}

func TestConfigEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}
