package genetic

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluated(f float64, genes map[string]float64) *Individual {
	ind := NewIndividual(genes)
	ind.SetFitness(f)
	return ind
}

func TestIndividualCopy(t *testing.T) {
	ind := evaluated(3, map[string]float64{"x": 1, "y": 2})
	ind.Objectives["fuel"] = 10
	c := ind.Copy()
	assert.NotEqual(t, ind.ID, c.ID)
	assert.Equal(t, ind.ID, c.Parents[0])
	assert.Len(t, c.Parents, 1)
	fit, ok := c.Fitness()
	assert.True(t, ok)
	assert.Equal(t, 3.0, fit)

	c.Genes["x"] = 100
	c.Objectives["fuel"] = 0
	assert.Equal(t, 1.0, ind.Genes["x"])
	assert.Equal(t, 10.0, ind.Objectives["fuel"])

	assert.Panics(t, func() { NewIndividual(nil) })
}

func TestIndividualVector(t *testing.T) {
	ind := NewIndividual(map[string]float64{"b": 2, "a": 1})
	assert.Equal(t, []string{"a", "b"}, ind.GeneNames())
	assert.Equal(t, []float64{2, 1}, ind.Vector([]string{"b", "a"}))
	require.NoError(t, ind.SetVector([]string{"a", "b"}, []float64{5, 6}))
	assert.Equal(t, map[string]float64{"a": 5, "b": 6}, ind.Genes)
	assert.Error(t, ind.SetVector([]string{"a"}, []float64{1, 2}))
}

func TestPopulationCapacity(t *testing.T) {
	pop := NewPopulation(2)
	pop.Generation = 4
	require.NoError(t, pop.Add(NewIndividual(map[string]float64{"x": 1})))
	require.NoError(t, pop.Add(NewIndividual(map[string]float64{"x": 2})))
	assert.ErrorIs(t, pop.Add(NewIndividual(map[string]float64{"x": 3})), ErrPopulationFull)
	assert.Equal(t, 4, pop.At(1).Generation)

	removed, err := pop.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, removed.Genes["x"])
	assert.Equal(t, 1, pop.Len())
	_, err = pop.Remove(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	pop.Clear()
	assert.Zero(t, pop.Len())
	assert.Panics(t, func() { NewPopulation(0) })
}

func TestPopulationBestExcludesUnevaluated(t *testing.T) {
	pop := NewPopulation(5)
	require.NoError(t, pop.Add(NewIndividual(map[string]float64{"x": 1})))
	_, ok := pop.Best(true)
	assert.False(t, ok, "unevaluated individuals cannot be the best")

	low, high := evaluated(-2, map[string]float64{"x": 2}), evaluated(7, map[string]float64{"x": 3})
	require.NoError(t, pop.Add(low))
	require.NoError(t, pop.Add(high))
	best, ok := pop.Best(true)
	require.True(t, ok)
	assert.Same(t, high, best)
	best, _ = pop.Best(false)
	assert.Same(t, low, best)
}

func TestPopulationStats(t *testing.T) {
	pop := NewPopulation(10)
	for _, f := range []float64{4, 1, 3, 2} {
		require.NoError(t, pop.Add(evaluated(f, map[string]float64{"x": f})))
	}
	require.NoError(t, pop.Add(NewIndividual(map[string]float64{"x": 100})))
	s, ok := pop.Stats()
	require.True(t, ok)
	want := Stats{Mean: 2.5, Std: math.Sqrt(1.25), Min: 1, Max: 4, Median: 2.5}
	if diff := cmp.Diff(want, s, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	single := NewPopulation(1)
	require.NoError(t, single.Add(evaluated(3, map[string]float64{"x": 1})))
	s, _ = single.Stats()
	assert.Equal(t, Stats{Mean: 3, Min: 3, Max: 3, Median: 3}, s)

	_, ok = NewPopulation(1).Stats()
	assert.False(t, ok)
}

func TestPopulationSortStable(t *testing.T) {
	pop := NewPopulation(10)
	a := evaluated(1, map[string]float64{"x": 1})
	b := evaluated(5, map[string]float64{"x": 2})
	c := evaluated(1, map[string]float64{"x": 3})
	u := NewIndividual(map[string]float64{"x": 4})
	for _, ind := range []*Individual{u, a, b, c} {
		require.NoError(t, pop.Add(ind))
	}
	pop.SortByFitness(true)
	assert.Equal(t, []*Individual{b, a, c, u}, pop.Members())
	pop.SortByFitness(false)
	assert.Equal(t, []*Individual{a, c, b, u}, pop.Members())
}

func TestPopulationDiversity(t *testing.T) {
	pop := NewPopulation(3)
	assert.Zero(t, pop.Diversity([]string{"x", "y"}))
	require.NoError(t, pop.Add(NewIndividual(map[string]float64{"x": 0, "y": 0})))
	require.NoError(t, pop.Add(NewIndividual(map[string]float64{"x": 3, "y": 4})))
	assert.InDelta(t, 5, pop.Diversity([]string{"x", "y"}), 1e-12)
	require.NoError(t, pop.Add(NewIndividual(map[string]float64{"x": 0, "y": 0})))
	assert.InDelta(t, 10.0/3, pop.Diversity([]string{"x", "y"}), 1e-12)

	bounds := Bounds{"x": {0, 3}, "y": {0, 4}}
	assert.InDelta(t, 2*math.Sqrt2/3, pop.NormalizedDiversity(bounds), 1e-12)
}

func TestFeasible(t *testing.T) {
	pop := NewPopulation(2)
	ok := evaluated(1, map[string]float64{"x": 1})
	bad := evaluated(2, map[string]float64{"x": 2})
	bad.Violations = []string{"max_mass"}
	require.NoError(t, pop.Add(ok))
	require.NoError(t, pop.Add(bad))
	assert.Equal(t, []*Individual{ok}, pop.Feasible())
}
