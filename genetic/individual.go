// Package genetic provides the population primitives and operators of the
// mission parameter optimizer, as well as a single objective genetic algorithm.
package genetic

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Individual is one candidate solution: a named vector of genes plus its evaluation.
type Individual struct {
	ID         uuid.UUID
	Genes      map[string]float64
	Objectives map[string]float64
	// Metrics are the raw measurements of the last evaluation.
	Metrics    map[string]float64
	Violations []string
	Generation int
	Parents    []uuid.UUID
	fitness    float64
	evaluated  bool
}

// NewIndividual returns an unevaluated individual. It panics when no genes are provided.
func NewIndividual(genes map[string]float64) *Individual {
	if len(genes) == 0 {
		panic("an individual must have at least one gene")
	}
	g := make(map[string]float64, len(genes))
	for k, v := range genes {
		g[k] = v
	}
	return &Individual{ID: uuid.New(), Genes: g, Objectives: make(map[string]float64), Metrics: make(map[string]float64)}
}

// Fitness returns the fitness and whether the individual was evaluated.
func (ind *Individual) Fitness() (float64, bool) {
	return ind.fitness, ind.evaluated
}

// SetFitness marks the individual as evaluated.
func (ind *Individual) SetFitness(f float64) {
	ind.fitness = f
	ind.evaluated = true
}

// Evaluated returns whether a fitness was assigned.
func (ind *Individual) Evaluated() bool {
	return ind.evaluated
}

// Feasible returns true if no constraint was violated.
func (ind *Individual) Feasible() bool {
	return len(ind.Violations) == 0
}

// Invalidate drops the evaluation so that the individual is evaluated again.
func (ind *Individual) Invalidate() {
	ind.fitness = 0
	ind.evaluated = false
	ind.Objectives = make(map[string]float64)
	ind.Metrics = make(map[string]float64)
	ind.Violations = nil
}

// Copy returns a deep copy with a fresh identity whose only parent is ind.
// The evaluation is carried over.
func (ind *Individual) Copy() *Individual {
	c := ind.clone()
	c.Parents = []uuid.UUID{ind.ID}
	return c
}

// offspring returns a copy whose lineage is the provided parents, and which needs to be evaluated.
func (ind *Individual) offspring(parents ...uuid.UUID) *Individual {
	c := ind.clone()
	c.Parents = append([]uuid.UUID(nil), parents...)
	c.Invalidate()
	return c
}

func (ind *Individual) clone() *Individual {
	c := &Individual{
		ID:         uuid.New(),
		Genes:      make(map[string]float64, len(ind.Genes)),
		Objectives: make(map[string]float64, len(ind.Objectives)),
		Metrics:    make(map[string]float64, len(ind.Metrics)),
		Violations: append([]string(nil), ind.Violations...),
		Generation: ind.Generation,
		fitness:    ind.fitness,
		evaluated:  ind.evaluated,
	}
	for k, v := range ind.Genes {
		c.Genes[k] = v
	}
	for k, v := range ind.Objectives {
		c.Objectives[k] = v
	}
	for k, v := range ind.Metrics {
		c.Metrics[k] = v
	}
	return c
}

// GeneNames returns the sorted gene names.
func (ind *Individual) GeneNames() []string {
	names := make([]string, 0, len(ind.Genes))
	for k := range ind.Genes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Vector returns the genes in the order of names. Missing genes are zero.
func (ind *Individual) Vector(names []string) []float64 {
	v := make([]float64, len(names))
	for i, name := range names {
		v[i] = ind.Genes[name]
	}
	return v
}

// SetVector sets the genes from values in the order of names.
func (ind *Individual) SetVector(names []string, values []float64) error {
	if len(names) != len(values) {
		return fmt.Errorf("%d gene names for %d values", len(names), len(values))
	}
	for i, name := range names {
		ind.Genes[name] = values[i]
	}
	return nil
}

func (ind *Individual) String() string {
	if !ind.evaluated {
		return fmt.Sprintf("%s gen=%d genes=%v (unevaluated)", ind.ID, ind.Generation, ind.Genes)
	}
	return fmt.Sprintf("%s gen=%d genes=%v fitness=%.6g", ind.ID, ind.Generation, ind.Genes, ind.fitness)
}
