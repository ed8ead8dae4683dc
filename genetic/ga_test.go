package genetic

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paraboloid() Evaluator {
	return EvaluatorFunc(func(ind *Individual) Outcome {
		x, y := ind.Genes["x"], ind.Genes["y"]
		return Outcome{Fitness: -(x-3)*(x-3) - (y+1)*(y+1)}
	})
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 40
	cfg.Generations = 60
	cfg.Seed = 42
	return cfg
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	for name, alter := range map[string]func(*Config){
		"population":  func(c *Config) { c.PopulationSize = 0 },
		"generations": func(c *Config) { c.Generations = -1 },
		"crossover":   func(c *Config) { c.CrossoverRate = 1.1 },
		"mutation":    func(c *Config) { c.MutationRate = -0.1 },
		"elitism":     func(c *Config) { c.ElitismRate = 2 },
		"tournament":  func(c *Config) { c.TournamentSize = 0 },
	} {
		cfg := DefaultConfig()
		alter(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestAlgorithmRejectsBadBounds(t *testing.T) {
	_, err := NewAlgorithm(smallConfig(), Bounds{}, paraboloid())
	assert.Error(t, err)
	_, err = NewAlgorithm(smallConfig(), Bounds{"x": {1, 1}}, paraboloid())
	assert.Error(t, err)
	_, err = NewAlgorithm(smallConfig(), Bounds{"x": {0, 1}}, nil)
	assert.Error(t, err)
}

func TestAlgorithmConverges(t *testing.T) {
	var hooked int
	ga, err := NewAlgorithm(smallConfig(), Bounds{"x": {-10, 10}, "y": {-10, 10}}, paraboloid(),
		WithHook(func(gen int, pop *Population) {
			assert.Equal(t, hooked, gen)
			hooked++
		}))
	require.NoError(t, err)
	best, stats, err := ga.Run(context.Background())
	require.NoError(t, err)
	fit, ok := best.Fitness()
	require.True(t, ok)
	assert.Greater(t, fit, -1.0)
	assert.InDelta(t, 3, best.Genes["x"], 1)
	assert.InDelta(t, -1, best.Genes["y"], 1)

	assert.LessOrEqual(t, stats.Generations, 60)
	assert.GreaterOrEqual(t, hooked, stats.Generations)
	assert.Len(t, stats.BestHistory, hooked)
	assert.Len(t, stats.ConvergenceHistory, hooked-1)
	for i := 1; i < len(stats.BestHistory); i++ {
		assert.GreaterOrEqual(t, stats.BestHistory[i], stats.BestHistory[i-1], "elites keep the best fitness")
	}
	assert.Equal(t, ga.Evaluations(), stats.Evaluations)
	assert.Greater(t, stats.Evaluations, 40)
	assert.Equal(t, 40, stats.Feasible)
	assert.Equal(t, 40, ga.Population().Len())
}

func TestAlgorithmStagnation(t *testing.T) {
	cfg := smallConfig()
	cfg.Stagnation = 3
	flat := EvaluatorFunc(func(*Individual) Outcome { return Outcome{Fitness: 1} })
	ga, err := NewAlgorithm(cfg, Bounds{"x": {0, 1}}, flat)
	require.NoError(t, err)
	_, stats, err := ga.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Generations, "a flat landscape stagnates immediately")
}

func TestAlgorithmEvaluationErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.Generations = 5
	ev := EvaluatorFunc(func(ind *Individual) Outcome {
		if ind.Genes["x"] > 0 {
			return Outcome{Err: errors.New("diverged")}
		}
		return Outcome{Fitness: ind.Genes["x"]}
	})
	ga, err := NewAlgorithm(cfg, Bounds{"x": {-1, 1}}, ev,
		WithConstraints(Constraint{Name: "never", Satisfied: func(*Individual) bool { return false }}))
	require.NoError(t, err)
	best, _, err := ga.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, best.Genes["x"], 0.0)
	for _, ind := range ga.Population().Members() {
		require.NotEmpty(t, ind.Violations)
		assert.Equal(t, "never", ind.Violations[0])
		if fit, _ := ind.Fitness(); math.IsInf(fit, -1) {
			assert.Len(t, ind.Violations, 2)
			assert.Contains(t, ind.Violations[1], EvaluationErrorPrefix)
		}
	}
}

func TestAlgorithmCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ga, err := NewAlgorithm(smallConfig(), Bounds{"x": {0, 1}}, paraboloid())
	require.NoError(t, err)
	_, stats, err := ga.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Generations)
}

func TestAlgorithmAdaptive(t *testing.T) {
	cfg := smallConfig()
	cfg.Mutation = AdaptiveMutation
	cfg.Crossover = TwoPointCrossover
	cfg.Selection = Roulette
	cfg.Generations = 10
	ga, err := NewAlgorithm(cfg, Bounds{"x": {-10, 10}, "y": {-10, 10}}, paraboloid())
	require.NoError(t, err)
	_, stats, err := ga.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Generations)
	ad, ok := ga.breeder.Mutator.(*Adaptive)
	require.True(t, ok)
	assert.Len(t, ad.history, 10)
}
