package genetic

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrPopulationFull is returned when adding to a population at capacity.
	ErrPopulationFull = errors.New("population at maximum size")
	// ErrIndexOutOfRange is returned when removing a member which does not exist.
	ErrIndexOutOfRange = errors.New("individual index out of range")
)

// Population is a bounded and ordered collection of individuals.
type Population struct {
	Generation int
	maxSize    int
	members    []*Individual
}

// NewPopulation returns an empty population. It panics if maxSize is not positive.
func NewPopulation(maxSize int) *Population {
	if maxSize <= 0 {
		panic("population max size must be positive")
	}
	return &Population{maxSize: maxSize, members: make([]*Individual, 0, maxSize)}
}

// Len returns the number of members.
func (p *Population) Len() int { return len(p.members) }

// MaxSize returns the capacity of the population.
func (p *Population) MaxSize() int { return p.maxSize }

// At returns the i-th member.
func (p *Population) At(i int) *Individual { return p.members[i] }

// Members returns the members in order. The slice is a copy, the individuals are not.
func (p *Population) Members() []*Individual {
	return append([]*Individual(nil), p.members...)
}

// Add appends ind and stamps it with the generation of the population.
func (p *Population) Add(ind *Individual) error {
	if len(p.members) >= p.maxSize {
		return fmt.Errorf("%w (%d)", ErrPopulationFull, p.maxSize)
	}
	ind.Generation = p.Generation
	p.members = append(p.members, ind)
	return nil
}

// Remove removes and returns the i-th member.
func (p *Population) Remove(i int) (*Individual, error) {
	if i < 0 || i >= len(p.members) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(p.members))
	}
	ind := p.members[i]
	p.members = append(p.members[:i], p.members[i+1:]...)
	return ind, nil
}

// Clear removes all members.
func (p *Population) Clear() {
	p.members = p.members[:0]
}

// Best returns the evaluated member with the highest (or lowest) fitness.
// Unevaluated members are never returned.
func (p *Population) Best(maximize bool) (*Individual, bool) {
	var best *Individual
	for _, ind := range p.members {
		if !ind.evaluated {
			continue
		}
		if best == nil || (maximize && ind.fitness > best.fitness) || (!maximize && ind.fitness < best.fitness) {
			best = ind
		}
	}
	return best, best != nil
}

// Feasible returns the members which violate no constraint.
func (p *Population) Feasible() []*Individual {
	var feasible []*Individual
	for _, ind := range p.members {
		if ind.Feasible() {
			feasible = append(feasible, ind)
		}
	}
	return feasible
}

// Evaluated returns the members which have a fitness.
func (p *Population) Evaluated() []*Individual {
	var evaluated []*Individual
	for _, ind := range p.members {
		if ind.evaluated {
			evaluated = append(evaluated, ind)
		}
	}
	return evaluated
}

// Stats summarizes the fitness of the evaluated members.
type Stats struct {
	Mean, Std, Min, Max, Median float64
}

// Stats returns the fitness statistics of the evaluated members, and false if there are none.
// Std is the population standard deviation.
func (p *Population) Stats() (Stats, bool) {
	var values []float64
	for _, ind := range p.members {
		if ind.evaluated {
			values = append(values, ind.fitness)
		}
	}
	if len(values) == 0 {
		return Stats{}, false
	}
	s := Stats{Min: floats.Min(values), Max: floats.Max(values)}
	n := float64(len(values))
	if len(values) == 1 {
		s.Mean = values[0]
	} else {
		var std float64
		s.Mean, std = stat.MeanStdDev(values, nil)
		s.Std = std * math.Sqrt((n-1)/n)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if mid := len(sorted) / 2; len(sorted)%2 == 1 {
		s.Median = sorted[mid]
	} else {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return s, true
}

// Diversity returns the mean pairwise Euclidean distance between the gene vectors
// of the members, where genes are taken in the order of names.
func (p *Population) Diversity(names []string) float64 {
	return p.diversity(func(ind *Individual) []float64 { return ind.Vector(names) })
}

// NormalizedDiversity is the diversity of the genes rescaled to [0, 1] by their bounds.
func (p *Population) NormalizedDiversity(bounds Bounds) float64 {
	names := bounds.Names()
	return p.diversity(func(ind *Individual) []float64 {
		v := ind.Vector(names)
		for i, name := range names {
			v[i] = (v[i] - bounds[name].Min) / bounds[name].Range()
		}
		return v
	})
}

func (p *Population) diversity(vector func(*Individual) []float64) float64 {
	if len(p.members) < 2 {
		return 0
	}
	vectors := make([][]float64, len(p.members))
	for i, ind := range p.members {
		vectors[i] = vector(ind)
	}
	var total float64
	var count int
	for i := range vectors {
		for j := i + 1; j < len(vectors); j++ {
			total += floats.Distance(vectors[i], vectors[j], 2)
			count++
		}
	}
	return total / float64(count)
}

// SortByFitness orders the evaluated members by fitness, followed by the unevaluated ones.
// The sort is stable.
func (p *Population) SortByFitness(maximize bool) {
	sort.SliceStable(p.members, func(i, j int) bool {
		a, b := p.members[i], p.members[j]
		if a.evaluated != b.evaluated {
			return a.evaluated
		}
		if !a.evaluated {
			return false
		}
		if maximize {
			return a.fitness > b.fitness
		}
		return a.fitness < b.fitness
	})
}
