package genetic

import (
	"context"
	"fmt"
	"math"
	"runtime"

	kitlog "github.com/go-kit/kit/log"
	"golang.org/x/exp/rand"
)

// Statistics summarizes a run.
type Statistics struct {
	Generations        int
	BestHistory        []float64
	MeanHistory        []float64
	ConvergenceHistory []float64
	Final              Stats
	Feasible           int
	Evaluations        int
}

// GenerationHook is called after every generation with the population which was just scored.
type GenerationHook func(generation int, pop *Population)

// Option customizes an Algorithm.
type Option func(*Algorithm)

// WithConstraints sets the feasibility constraints.
func WithConstraints(constraints ...Constraint) Option {
	return func(a *Algorithm) { a.constraints = append(a.constraints, constraints...) }
}

// WithLogger sets the logger.
func WithLogger(logger kitlog.Logger) Option {
	return func(a *Algorithm) { a.logger = logger }
}

// WithHook sets the generation hook.
func WithHook(hook GenerationHook) Option {
	return func(a *Algorithm) { a.hook = hook }
}

// WithOperators overrides the operators built from the configuration.
func WithOperators(sel Selector, cx Crossover, mut Mutator) Option {
	return func(a *Algorithm) {
		a.breeder.Selector, a.breeder.Crossover, a.breeder.Mutator = sel, cx, mut
	}
}

// Algorithm is a generational genetic algorithm which maximizes the fitness.
type Algorithm struct {
	cfg         Config
	bounds      Bounds
	evaluator   Evaluator
	constraints []Constraint
	breeder     Breeder
	rng         *rand.Rand
	logger      kitlog.Logger
	hook        GenerationHook

	pop         *Population
	generation  int
	stagnant    int
	evaluations int
	best        []float64
	mean        []float64
	convergence []float64
}

// NewAlgorithm returns a genetic algorithm for the provided configuration and gene bounds.
func NewAlgorithm(cfg Config, bounds Bounds, ev Evaluator, opts ...Option) (*Algorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, fmt.Errorf("no evaluator")
	}
	sel, cx, mut, err := cfg.Operators(bounds)
	if err != nil {
		return nil, err
	}
	breeder := Breeder{
		Selector:      sel,
		Crossover:     cx,
		Mutator:       mut,
		CrossoverRate: cfg.CrossoverRate,
		MutationRate:  cfg.MutationRate,
	}
	a := &Algorithm{
		cfg:       cfg,
		bounds:    bounds,
		evaluator: ev,
		breeder:   breeder,
		rng:       NewRand(cfg.Seed),
		logger:    kitlog.NewNopLogger(),
		pop:       NewPopulation(cfg.PopulationSize),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Population returns the current population.
func (a *Algorithm) Population() *Population { return a.pop }

// Generation returns the number of completed generations.
func (a *Algorithm) Generation() int { return a.generation }

// Evaluations returns the number of evaluator calls so far.
func (a *Algorithm) Evaluations() int { return a.evaluations }

// Initialize replaces the population with random individuals.
func (a *Algorithm) Initialize() {
	a.pop.Clear()
	for a.pop.Len() < a.pop.MaxSize() {
		if err := a.pop.Add(RandomIndividual(a.bounds, a.rng)); err != nil {
			panic(err)
		}
	}
}

func (a *Algorithm) evaluate(pop *Population) {
	for _, ind := range pop.members {
		if !ind.Evaluated() {
			Evaluate(ind, a.evaluator, a.constraints)
			a.evaluations++
		}
	}
}

func (a *Algorithm) record() {
	s, ok := a.pop.Stats()
	if !ok {
		return
	}
	a.best = append(a.best, s.Max)
	a.mean = append(a.mean, s.Mean)
	if n := len(a.best); n > 1 {
		Δ := math.Abs(s.Max - a.best[n-2])
		a.convergence = append(a.convergence, Δ)
		if Δ < a.cfg.Threshold {
			a.stagnant++
		} else {
			a.stagnant = 0
		}
	}
}

// Converged returns true once the generation budget is spent or the best fitness stagnates.
func (a *Algorithm) Converged() bool {
	return a.generation >= a.cfg.Generations || a.stagnant >= a.cfg.Stagnation
}

// Step evaluates the population, records its statistics and breeds the next generation
// unless the run converged. It returns whether the run converged.
func (a *Algorithm) Step() bool {
	a.evaluate(a.pop)
	a.record()
	if a.hook != nil {
		a.hook(a.generation, a.pop)
	}
	if a.Converged() {
		return true
	}
	if ad, ok := a.breeder.Mutator.(*Adaptive); ok {
		ad.UpdateDiversity(a.pop.NormalizedDiversity(a.bounds))
	}

	next := NewPopulation(a.cfg.PopulationSize)
	next.Generation = a.generation + 1
	if elites := int(a.cfg.ElitismRate * float64(a.cfg.PopulationSize)); elites > 0 {
		a.pop.SortByFitness(true)
		for i := 0; i < elites && i < a.pop.Len(); i++ {
			if err := next.Add(a.pop.At(i).Copy()); err != nil {
				panic(err)
			}
		}
	}
	for _, child := range a.breeder.Offspring(a.pop.members, next.MaxSize()-next.Len(), a.rng) {
		if err := next.Add(child); err != nil {
			panic(err)
		}
	}
	a.pop = next
	a.generation++
	return false
}

// Run evolves a random population until convergence and returns the best individual.
// The context is checked between generations, and its error is returned when it is done.
func (a *Algorithm) Run(ctx context.Context) (*Individual, Statistics, error) {
	a.Initialize()
	for !a.Converged() {
		if err := ctx.Err(); err != nil {
			a.logger.Log("level", "warning", "msg", "run interrupted", "generation", a.generation, "err", err)
			return nil, a.Statistics(), err
		}
		if a.Step() {
			break
		}
		runtime.Gosched()
	}
	a.evaluate(a.pop)
	best, ok := a.pop.Best(true)
	if !ok {
		return nil, a.Statistics(), fmt.Errorf("no evaluated individual after %d generations", a.generation)
	}
	fit, _ := best.Fitness()
	a.logger.Log("level", "info", "msg", "run converged", "generations", a.generation, "evaluations", a.evaluations, "best", fit)
	return best, a.Statistics(), nil
}

// Statistics returns the statistics of the run so far.
func (a *Algorithm) Statistics() Statistics {
	final, _ := a.pop.Stats()
	return Statistics{
		Generations:        a.generation,
		BestHistory:        append([]float64(nil), a.best...),
		MeanHistory:        append([]float64(nil), a.mean...),
		ConvergenceHistory: append([]float64(nil), a.convergence...),
		Final:              final,
		Feasible:           len(a.pop.Feasible()),
		Evaluations:        a.evaluations,
	}
}
