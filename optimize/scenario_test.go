package optimize

import (
	"strings"
	"testing"
	"time"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optimizationScenario = `
[optimization]
objectives = ["minimize_fuel", "minimize_duration"]
population_size = 24
mutation = "polynomial"
timeout_seconds = 60
seed = 11

[parameters.0]
name = "flight_time_days"
min = 150
max = 400
description = "transfer duration"

[parameters.1]
name = "specific_impulse_s"
min = 250
max = 450
`

func scenario(t *testing.T, toml string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(toml)))
	return v
}

func engineDefaults() astroforge.Config {
	return astroforge.Config{
		Detailed: true, PopulationSize: 50, Generations: 100, CrossoverRate: 0.8, MutationRate: 0.1,
		ElitismRate: 0.1, TournamentSize: 3, Threshold: 1e-6, Stagnation: 20, TimeoutSeconds: 300,
	}
}

func TestReadConfig(t *testing.T) {
	m := marsMission()
	cfg, err := ReadConfig(scenario(t, optimizationScenario), m, engineDefaults())
	require.NoError(t, err)
	assert.Equal(t, []Objective{MinimizeFuel, MinimizeDuration}, cfg.Objectives)
	require.Len(t, cfg.Parameters, 2)
	assert.Equal(t, ParameterSpec{Parameter: FlightTime, Min: 150, Max: 400, Current: 259, Description: "transfer duration"}, cfg.Parameters[0])
	assert.Equal(t, 350.0, cfg.Parameters[1].Current)
	assert.Equal(t, 24, cfg.PopulationSize)
	assert.Equal(t, 100, cfg.Generations, "taken from the engine configuration")
	assert.Equal(t, genetic.PolynomialMutation, cfg.Mutation)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, uint64(11), cfg.Seed)
	assert.NotEmpty(t, cfg.Constraints)

	_, err = ReadConfig(scenario(t, "[optimization]\nobjectives = [\"minimize_boredom\"]"), m, engineDefaults())
	assert.Error(t, err)
	_, err = ReadConfig(scenario(t, "[optimization]\nobjectives = [\"minimize_fuel\"]\n[parameters.0]\nname = \"warp\"\nmin = 1\nmax = 2"), m, engineDefaults())
	assert.ErrorIs(t, err, ErrUnknownParameter)
	_, err = ReadConfig(scenario(t, "[optimization]\nobjectives = [\"minimize_fuel\"]\n[parameters.0]\nname = \"thrust_n\"\nmin = 1\nmax = 2"), m, engineDefaults())
	assert.Error(t, err, "the current thrust is outside of the bounds")
}

func TestEnvelopeConstraints(t *testing.T) {
	m := marsMission()
	cons := EnvelopeConstraints(astroforge.DefaultConstraints())
	names := make([]string, len(cons))
	for i, c := range cons {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"max_duration", "max_delta_v", "max_mass", "spacecraft_valid"}, names)
	for _, c := range cons {
		if c.Name == "max_mass" {
			assert.False(t, c.Check(m), "the reference mission is heavier than the default envelope")
			continue
		}
		assert.True(t, c.Check(m), c.Name)
	}
	heavy := m.Clone()
	heavy.Trajectory.FlightTime = 4000
	assert.False(t, cons[0].Check(heavy))
}
