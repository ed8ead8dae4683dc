package genetic

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MutationMethod names a mutation strategy.
type MutationMethod string

const (
	GaussianMutation   MutationMethod = "gaussian"
	UniformMutation    MutationMethod = "uniform"
	PolynomialMutation MutationMethod = "polynomial"
	AdaptiveMutation   MutationMethod = "adaptive"
)

// Bound is the closed interval a gene lives in.
type Bound struct {
	Min, Max float64
}

// Range returns Max - Min.
func (b Bound) Range() float64 { return b.Max - b.Min }

// Clamp returns v limited to the bound.
func (b Bound) Clamp(v float64) float64 { return math.Max(b.Min, math.Min(b.Max, v)) }

// Bounds maps gene names to their interval.
type Bounds map[string]Bound

// Validate returns an error if there are no bounds or if any is empty.
func (b Bounds) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("gene bounds must be specified")
	}
	for name, bound := range b {
		if !(bound.Min < bound.Max) {
			return fmt.Errorf("invalid bounds for gene %s: min %g >= max %g", name, bound.Min, bound.Max)
		}
	}
	return nil
}

// Names returns the sorted gene names.
func (b Bounds) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mutator perturbs each gene of an individual with probability rate. The input is not modified:
// the mutant is unevaluated and keeps the lineage of its input.
type Mutator interface {
	Mutate(ind *Individual, rate float64, rng *rand.Rand) *Individual
}

// NewMutator returns the mutator for the provided method with its default settings.
func NewMutator(method MutationMethod, bounds Bounds) (Mutator, error) {
	switch method {
	case GaussianMutation:
		return Gaussian{Sigma: 0.1, Bounds: bounds}, nil
	case UniformMutation:
		if len(bounds) == 0 {
			return nil, fmt.Errorf("uniform mutation requires gene bounds")
		}
		return UniformReset{Bounds: bounds}, nil
	case PolynomialMutation:
		return Polynomial{Eta: 20, Bounds: bounds}, nil
	case AdaptiveMutation:
		return NewAdaptive(0.1, bounds), nil
	default:
		return nil, fmt.Errorf("unknown mutation method %q", method)
	}
}

func mutant(ind *Individual) *Individual {
	return ind.offspring(ind.Parents...)
}

// Gaussian adds zero mean normal noise whose deviation is Sigma times the gene range,
// or Sigma itself for unbounded genes. Bounded genes are clamped.
type Gaussian struct {
	Sigma  float64
	Bounds Bounds
}

// Mutate implements Mutator.
func (m Gaussian) Mutate(ind *Individual, rate float64, rng *rand.Rand) *Individual {
	out := mutant(ind)
	for _, name := range ind.GeneNames() {
		if rng.Float64() >= rate {
			continue
		}
		bound, bounded := m.Bounds[name]
		σ := m.Sigma
		if bounded {
			σ *= bound.Range()
		}
		v := out.Genes[name] + distuv.Normal{Mu: 0, Sigma: σ, Src: rng}.Rand()
		if bounded {
			v = bound.Clamp(v)
		}
		out.Genes[name] = v
	}
	return out
}

// UniformReset redraws bounded genes uniformly within their bounds.
type UniformReset struct {
	Bounds Bounds
}

// Mutate implements Mutator.
func (m UniformReset) Mutate(ind *Individual, rate float64, rng *rand.Rand) *Individual {
	out := mutant(ind)
	for _, name := range ind.GeneNames() {
		bound, bounded := m.Bounds[name]
		if rng.Float64() >= rate || !bounded {
			continue
		}
		out.Genes[name] = distuv.Uniform{Min: bound.Min, Max: bound.Max, Src: rng}.Rand()
	}
	return out
}

// Polynomial applies the bounded polynomial mutation with distribution index Eta.
// Larger indices keep mutants closer to their input.
type Polynomial struct {
	Eta    float64
	Bounds Bounds
}

// Mutate implements Mutator.
func (m Polynomial) Mutate(ind *Individual, rate float64, rng *rand.Rand) *Individual {
	out := mutant(ind)
	for _, name := range ind.GeneNames() {
		bound, bounded := m.Bounds[name]
		if rng.Float64() >= rate || !bounded {
			continue
		}
		x := (out.Genes[name] - bound.Min) / bound.Range()
		u := rng.Float64()
		var δ float64
		if u <= 0.5 {
			δ = math.Pow(2*u, 1/(m.Eta+1)) - 1
		} else {
			δ = 1 - math.Pow(2*(1-u), 1/(m.Eta+1))
		}
		x = math.Max(0, math.Min(1, x+δ))
		out.Genes[name] = bound.Min + x*bound.Range()
	}
	return out
}

const (
	diversityMemory = 10
	diversityWindow = 5
	lowDiversity    = 0.1
	highDiversity   = 0.5
)

// Adaptive is a gaussian mutation whose strength follows the recent population diversity:
// doubled when diversity is low and halved when it is high.
type Adaptive struct {
	BaseSigma float64
	Bounds    Bounds
	history   []float64
}

// NewAdaptive returns an adaptive mutator without diversity history.
func NewAdaptive(baseSigma float64, bounds Bounds) *Adaptive {
	return &Adaptive{BaseSigma: baseSigma, Bounds: bounds}
}

// UpdateDiversity records the diversity of the latest generation.
func (m *Adaptive) UpdateDiversity(diversity float64) {
	m.history = append(m.history, diversity)
	if len(m.history) > diversityMemory {
		m.history = m.history[len(m.history)-diversityMemory:]
	}
}

// Sigma returns the current relative mutation strength.
func (m *Adaptive) Sigma() float64 {
	if len(m.history) < 2 {
		return m.BaseSigma
	}
	recent := m.history
	if len(recent) > diversityWindow {
		recent = recent[len(recent)-diversityWindow:]
	}
	switch mean := stat.Mean(recent, nil); {
	case mean < lowDiversity:
		return 2 * m.BaseSigma
	case mean > highDiversity:
		return 0.5 * m.BaseSigma
	default:
		return m.BaseSigma
	}
}

// Mutate implements Mutator.
func (m *Adaptive) Mutate(ind *Individual, rate float64, rng *rand.Rand) *Individual {
	return Gaussian{Sigma: m.Sigma(), Bounds: m.Bounds}.Mutate(ind, rate, rng)
}
