package genetic

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
)

// CrossoverMethod names a recombination strategy.
type CrossoverMethod string

const (
	UniformCrossover     CrossoverMethod = "uniform"
	SinglePointCrossover CrossoverMethod = "single_point"
	TwoPointCrossover    CrossoverMethod = "two_point"
	ArithmeticCrossover  CrossoverMethod = "arithmetic"
)

// Crossover recombines two parents into two offspring. The offspring are unevaluated
// and list both parents in their lineage.
type Crossover interface {
	Cross(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual)
}

// NewCrossover returns the crossover for the provided method with its default settings.
func NewCrossover(method CrossoverMethod) (Crossover, error) {
	switch method {
	case UniformCrossover:
		return Uniform{SwapProbability: 0.5}, nil
	case SinglePointCrossover:
		return SinglePoint{}, nil
	case TwoPointCrossover:
		return TwoPoint{}, nil
	case ArithmeticCrossover:
		return Arithmetic{Alpha: 0.5}, nil
	default:
		return nil, fmt.Errorf("unknown crossover method %q", method)
	}
}

// commonGenes returns the sorted names of the genes both parents carry.
func commonGenes(p1, p2 *Individual) []string {
	var names []string
	for name := range p1.Genes {
		if _, ok := p2.Genes[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func offspringOf(p1, p2 *Individual) (*Individual, *Individual) {
	return p1.offspring(p1.ID, p2.ID), p2.offspring(p1.ID, p2.ID)
}

// Uniform swaps each common gene with probability SwapProbability.
type Uniform struct {
	SwapProbability float64
}

// Cross implements Crossover.
func (c Uniform) Cross(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual) {
	o1, o2 := offspringOf(p1, p2)
	for _, name := range commonGenes(p1, p2) {
		if rng.Float64() < c.SwapProbability {
			o1.Genes[name], o2.Genes[name] = p2.Genes[name], p1.Genes[name]
		}
	}
	return o1, o2
}

// SinglePoint swaps the common genes after a random cut point.
type SinglePoint struct{}

// Cross implements Crossover.
func (SinglePoint) Cross(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual) {
	o1, o2 := offspringOf(p1, p2)
	names := commonGenes(p1, p2)
	if len(names) <= 1 {
		return o1, o2
	}
	cut := 1 + rng.Intn(len(names)-1)
	for _, name := range names[cut:] {
		o1.Genes[name], o2.Genes[name] = p2.Genes[name], p1.Genes[name]
	}
	return o1, o2
}

// TwoPoint swaps the common genes between two random cut points.
type TwoPoint struct{}

// Cross implements Crossover.
func (TwoPoint) Cross(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual) {
	names := commonGenes(p1, p2)
	if len(names) < 3 {
		return SinglePoint{}.Cross(p1, p2, rng)
	}
	o1, o2 := offspringOf(p1, p2)
	a, b := 1+rng.Intn(len(names)-1), 1+rng.Intn(len(names)-1)
	if a > b {
		a, b = b, a
	}
	if a == b {
		b = len(names)
	}
	for _, name := range names[a:b] {
		o1.Genes[name], o2.Genes[name] = p2.Genes[name], p1.Genes[name]
	}
	return o1, o2
}

// Arithmetic blends the common genes: Alpha weighs the first parent in the first offspring.
type Arithmetic struct {
	Alpha float64
}

// Cross implements Crossover.
func (c Arithmetic) Cross(p1, p2 *Individual, _ *rand.Rand) (*Individual, *Individual) {
	o1, o2 := offspringOf(p1, p2)
	for _, name := range commonGenes(p1, p2) {
		g1, g2 := p1.Genes[name], p2.Genes[name]
		o1.Genes[name] = c.Alpha*g1 + (1-c.Alpha)*g2
		o2.Genes[name] = (1-c.Alpha)*g1 + c.Alpha*g2
	}
	return o1, o2
}
