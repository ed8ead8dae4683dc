package pareto

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimizeBoth() []Objective {
	return []Objective{
		MetricObjective("f1", "f1", Minimize, 1),
		MetricObjective("f2", "f2", Minimize, 1),
	}
}

func point(f1, f2 float64) *genetic.Individual {
	ind := genetic.NewIndividual(map[string]float64{"x": f1})
	ind.Objectives["f1"], ind.Objectives["f2"] = f1, f2
	return ind
}

func TestDominanceRelation(t *testing.T) {
	objs := minimizeBoth()
	rng := genetic.NewRand(1)
	var cloud []*genetic.Individual
	for i := 0; i < 40; i++ {
		cloud = append(cloud, point(math.Round(rng.Float64()*5), math.Round(rng.Float64()*5)))
	}
	for _, a := range cloud {
		assert.False(t, Dominates(a, a, objs), "dominance must be irreflexive")
		for _, b := range cloud {
			if Dominates(a, b, objs) {
				assert.False(t, Dominates(b, a, objs), "dominance must be antisymmetric")
			}
		}
	}

	assert.True(t, Dominates(point(1, 1), point(1, 2), objs))
	assert.False(t, Dominates(point(1, 3), point(2, 2), objs))
	empty := genetic.NewIndividual(map[string]float64{"x": 0})
	assert.False(t, Dominates(empty, point(5, 5), objs))
	assert.False(t, Dominates(point(0, 0), empty, objs))

	// Objectives missing on either side are skipped.
	partial := genetic.NewIndividual(map[string]float64{"x": 0})
	partial.Objectives["f1"] = 0
	assert.True(t, Dominates(partial, point(1, -10), objs))

	maxed := []Objective{MetricObjective("f1", "f1", Maximize, 1), MetricObjective("f2", "f2", Minimize, 1)}
	assert.True(t, Dominates(point(2, 1), point(1, 1), maxed))
}

func TestSortSyntheticCloud(t *testing.T) {
	objs := minimizeBoth()
	rng := genetic.NewRand(2)
	optimal := map[*genetic.Individual]bool{}
	var all []*genetic.Individual
	for i := 0; i <= 10; i++ {
		p := point(float64(i), float64(10-i))
		optimal[p] = true
		all = append(all, p)
	}
	for i := 0; i < 60; i++ {
		x := rng.Float64() * 10
		all = append(all, point(x, 11-x+rng.Float64()*5))
	}
	unscored := genetic.NewIndividual(map[string]float64{"x": 0})
	all = append(all, unscored)

	fronts := Sort(all, objs)
	require.NotEmpty(t, fronts)
	assert.Len(t, fronts[0].Members, len(optimal))
	for _, ind := range fronts[0].Members {
		assert.True(t, optimal[ind], "%v is not Pareto optimal", ind.Objectives)
	}
	total := 0
	for rank, f := range fronts {
		assert.Equal(t, rank, f.Rank)
		total += f.Len()
		for _, a := range f.Members {
			assert.NotSame(t, unscored, a)
			for _, b := range f.Members {
				assert.False(t, Dominates(a, b, objs), "members of a front are mutually non-dominated")
			}
			if rank == 0 {
				continue
			}
			dominated := false
			for _, b := range fronts[rank-1].Members {
				dominated = dominated || Dominates(b, a, objs)
			}
			assert.True(t, dominated, "every member of front %d is dominated by front %d", rank, rank-1)
		}
	}
	assert.Equal(t, len(all)-1, total)
	assert.Nil(t, Sort(nil, objs))
}

func TestCrowdingDistance(t *testing.T) {
	objs := minimizeBoth()
	pair := Front{Members: []*genetic.Individual{point(0, 1), point(1, 0)}}
	for _, d := range CrowdingDistance(pair, objs) {
		assert.True(t, math.IsInf(d, 1))
	}

	line := Front{Members: []*genetic.Individual{point(2, 2), point(0, 4), point(4, 0), point(1, 3), point(3, 1)}}
	d := CrowdingDistance(line, objs)
	assert.True(t, math.IsInf(d[line.Members[1].ID], 1))
	assert.True(t, math.IsInf(d[line.Members[2].ID], 1))
	for _, i := range []int{0, 3, 4} {
		assert.InDelta(t, 1.0, d[line.Members[i].ID], 1e-12)
	}

	flat := Front{Members: []*genetic.Individual{point(0, 1), point(1, 1), point(2, 1)}}
	d = CrowdingDistance(flat, objs)
	assert.True(t, math.IsInf(d[flat.Members[0].ID], 1))
	assert.True(t, math.IsInf(d[flat.Members[2].ID], 1))
	assert.InDelta(t, 1.0, d[flat.Members[1].ID], 1e-12, "a single valued objective adds nothing")

	failed := point(math.Inf(1), math.Inf(1))
	mixed := Front{Members: []*genetic.Individual{point(0, 4), point(1, 3), point(3, 1), failed}}
	d = CrowdingDistance(mixed, objs)
	assert.True(t, math.IsInf(d[failed.ID], 1))
	assert.True(t, math.IsInf(d[mixed.Members[0].ID], 1))
	assert.True(t, math.IsInf(d[mixed.Members[2].ID], 1))
	assert.InDelta(t, 2.0, d[mixed.Members[1].ID], 1e-12, "spans ignore the failed member")
}

func TestSelect(t *testing.T) {
	objs := minimizeBoth()
	first := Front{Rank: 0, Members: []*genetic.Individual{point(0, 2), point(1, 1), point(2, 0)}}
	second := Front{Rank: 1, Members: []*genetic.Individual{point(1, 3), point(2, 2), point(3, 1)}}
	third := Front{Rank: 2, Members: []*genetic.Individual{point(9, 9)}}

	selected := Select([]Front{first, second, third}, 4, objs)
	require.Len(t, selected, 4)
	assert.Equal(t, first.Members, selected[:3])
	assert.NotSame(t, second.Members[1], selected[3], "the crowded middle member is dropped first")

	assert.Len(t, Select([]Front{first, second, third}, 10, objs), 7)
	assert.Len(t, Select([]Front{first}, 2, objs), 2)
}

func TestHypervolume(t *testing.T) {
	objs := minimizeBoth()
	f := Front{Members: []*genetic.Individual{point(1, 3), point(2, 2), point(3, 1)}}
	assert.InDelta(t, 2.29, f.Hypervolume(objs), 1e-9)
	ranges := f.Ranges(objs)
	assert.Equal(t, Range{Min: 1, Max: 3}, ranges["f1"])

	mixed := []Objective{MetricObjective("f1", "f1", Minimize, 1), MetricObjective("f2", "f2", Maximize, 1)}
	g := Front{Members: []*genetic.Individual{point(1, 1), point(2, 2)}}
	assert.InDelta(t, 0.32, g.Hypervolume(mixed), 1e-9)

	three := append(minimizeBoth(), MetricObjective("f3", "f3", Minimize, 1))
	assert.Equal(t, 3.0, f.Hypervolume(three), "front size placeholder beyond two objectives")
	assert.Zero(t, Front{}.Hypervolume(objs))
}

func TestSpacing(t *testing.T) {
	objs := minimizeBoth()
	even := Front{Members: []*genetic.Individual{point(0, 2), point(1, 1), point(2, 0)}}
	assert.InDelta(t, 0, Spacing(even, objs), 1e-12)
	uneven := Front{Members: []*genetic.Individual{point(0, 3), point(1, 2), point(3, 0)}}
	assert.Greater(t, Spacing(uneven, objs), 0.0)
	assert.Zero(t, Spacing(Front{Members: []*genetic.Individual{point(0, 0)}}, objs))
}

func schaffer() genetic.Evaluator {
	return genetic.EvaluatorFunc(func(ind *genetic.Individual) genetic.Outcome {
		x := ind.Genes["x"]
		return genetic.Outcome{Metrics: map[string]float64{"f1": x * x, "f2": (x - 2) * (x - 2)}}
	})
}

func nsgaConfig() genetic.Config {
	cfg := genetic.DefaultConfig()
	cfg.PopulationSize = 30
	cfg.Generations = 30
	cfg.Seed = 1
	return cfg
}

func TestNSGA2Schaffer(t *testing.T) {
	var hooked int
	n, err := NewNSGA2(nsgaConfig(), minimizeBoth(), genetic.Bounds{"x": {Min: -5, Max: 5}}, schaffer(),
		WithHook(func(gen int, pop *genetic.Population, fronts []Front) {
			assert.NotEmpty(t, fronts)
			hooked++
		}))
	require.NoError(t, err)
	front, stats, err := n.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, front)
	for _, a := range front {
		assert.True(t, a.Genes["x"] >= -1 && a.Genes["x"] <= 3, "x = %f", a.Genes["x"])
		for _, b := range front {
			assert.False(t, Dominates(a, b, n.objectives))
		}
	}
	assert.Equal(t, 30, n.Population().Len())
	assert.Len(t, n.History(), hooked)
	assert.Equal(t, n.Evaluations(), stats.Evaluations)

	metrics, ok := n.ConvergenceMetrics()
	require.True(t, ok)
	assert.Equal(t, len(front), metrics.FrontSize)
	assert.GreaterOrEqual(t, metrics.TotalFronts, 1)
	assert.Greater(t, metrics.Hypervolume, 0.0)
}

func TestNSGA2ObjectiveErrors(t *testing.T) {
	objs := append(minimizeBoth(), MetricObjective("f3", "missing", Minimize, 1))
	cfg := nsgaConfig()
	cfg.Generations = 2
	n, err := NewNSGA2(cfg, objs, genetic.Bounds{"x": {Min: -5, Max: 5}}, schaffer())
	require.NoError(t, err)
	_, _, err = n.Run(context.Background())
	require.NoError(t, err)
	for _, ind := range n.Population().Members() {
		fit, _ := ind.Fitness()
		assert.True(t, math.IsInf(fit, -1))
		require.NotEmpty(t, ind.Violations)
		assert.True(t, strings.HasPrefix(ind.Violations[0], ObjectiveErrorPrefix+"f3"), ind.Violations[0])
	}
}

func TestNSGA2Invalid(t *testing.T) {
	_, err := NewNSGA2(nsgaConfig(), nil, genetic.Bounds{"x": {Min: 0, Max: 1}}, schaffer())
	assert.Error(t, err)
	bad := []Objective{MetricObjective("f1", "f1", Minimize, 0)}
	_, err = NewNSGA2(nsgaConfig(), bad, genetic.Bounds{"x": {Min: 0, Max: 1}}, schaffer())
	assert.Error(t, err)
	_, err = DirectionFromString("sideways")
	assert.Error(t, err)
	dir, err := DirectionFromString("Maximize")
	require.NoError(t, err)
	assert.Equal(t, Maximize, dir)
}

func TestNSGA2Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := NewNSGA2(nsgaConfig(), minimizeBoth(), genetic.Bounds{"x": {Min: -5, Max: 5}}, schaffer())
	require.NoError(t, err)
	_, _, err = n.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := n.ConvergenceMetrics()
	assert.False(t, ok)
}
