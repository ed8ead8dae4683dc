package genetic

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// SelectionMethod names a parent selection strategy.
type SelectionMethod string

const (
	Tournament SelectionMethod = "tournament"
	Roulette   SelectionMethod = "roulette_wheel"
)

// Selector picks n parents among candidates. Only evaluated candidates are eligible,
// and the returned individuals are the candidates themselves, not copies.
type Selector interface {
	Select(candidates []*Individual, n int, rng *rand.Rand) []*Individual
}

// NewSelector returns the selector for the provided method.
func NewSelector(method SelectionMethod, tournamentSize int) (Selector, error) {
	switch method {
	case Tournament:
		if tournamentSize <= 0 {
			return nil, fmt.Errorf("tournament size must be positive, got %d", tournamentSize)
		}
		return TournamentSelector{Size: tournamentSize}, nil
	case Roulette:
		return RouletteSelector{Scaling: 1}, nil
	default:
		return nil, fmt.Errorf("unknown selection method %q", method)
	}
}

func evaluatedOnly(candidates []*Individual) []*Individual {
	var out []*Individual
	for _, c := range candidates {
		if c.evaluated {
			out = append(out, c)
		}
	}
	return out
}

// TournamentSelector returns the fittest of Size candidates drawn without replacement, for each parent.
type TournamentSelector struct {
	Size int
}

// Select implements Selector.
func (s TournamentSelector) Select(candidates []*Individual, n int, rng *rand.Rand) []*Individual {
	pool := evaluatedOnly(candidates)
	if len(pool) == 0 {
		return nil
	}
	size := s.Size
	if size > len(pool) {
		size = len(pool)
	}
	parents := make([]*Individual, 0, n)
	for i := 0; i < n; i++ {
		var winner *Individual
		for _, idx := range rng.Perm(len(pool))[:size] {
			if winner == nil || pool[idx].fitness > winner.fitness {
				winner = pool[idx]
			}
		}
		parents = append(parents, winner)
	}
	return parents
}

// RouletteSelector draws parents with a probability proportional to their shifted fitness
// raised to Scaling.
type RouletteSelector struct {
	Scaling float64
}

// Select implements Selector.
func (s RouletteSelector) Select(candidates []*Individual, n int, rng *rand.Rand) []*Individual {
	pool := evaluatedOnly(candidates)
	if len(pool) == 0 {
		return nil
	}
	minFit := math.Inf(1)
	for _, ind := range pool {
		minFit = math.Min(minFit, ind.fitness)
	}
	shift := 0.0
	if minFit < 0 {
		shift = -minFit
	}
	weights := make([]float64, len(pool))
	var total float64
	for i, ind := range pool {
		weights[i] = math.Pow(ind.fitness+shift+1e-6, s.Scaling)
		total += weights[i]
	}
	if total == 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		// Uniform draw without replacement.
		k := n
		if k > len(pool) {
			k = len(pool)
		}
		parents := make([]*Individual, 0, k)
		for _, idx := range rng.Perm(len(pool))[:k] {
			parents = append(parents, pool[idx])
		}
		return parents
	}
	parents := make([]*Individual, 0, n)
	for i := 0; i < n; i++ {
		r := rng.Float64() * total
		chosen := pool[len(pool)-1]
		var cumulative float64
		for j, w := range weights {
			cumulative += w
			if r <= cumulative {
				chosen = pool[j]
				break
			}
		}
		parents = append(parents, chosen)
	}
	return parents
}
