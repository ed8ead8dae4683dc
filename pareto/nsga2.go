package pareto

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	kitlog "github.com/go-kit/kit/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ObjectiveErrorPrefix prefixes the violation recorded when an objective cannot be read.
const ObjectiveErrorPrefix = "objective_error_"

// Hook is called after every generation with the scored population and its fronts.
type Hook func(generation int, pop *genetic.Population, fronts []Front)

// Option customizes an NSGA2 run.
type Option func(*NSGA2)

// WithConstraints sets the feasibility constraints.
func WithConstraints(constraints ...genetic.Constraint) Option {
	return func(n *NSGA2) { n.constraints = append(n.constraints, constraints...) }
}

// WithLogger sets the logger.
func WithLogger(logger kitlog.Logger) Option {
	return func(n *NSGA2) { n.logger = logger }
}

// WithHook sets the generation hook.
func WithHook(hook Hook) Option {
	return func(n *NSGA2) { n.hook = hook }
}

// NSGA2 is the elitist non-dominated sorting genetic algorithm. The evaluator measures an
// individual, and the objectives turn those measurements into objective values.
// The scalar fitness is the weighted signed sum of the objectives.
type NSGA2 struct {
	cfg         genetic.Config
	objectives  []Objective
	bounds      genetic.Bounds
	evaluator   genetic.Evaluator
	constraints []genetic.Constraint
	breeder     genetic.Breeder
	rng         *rand.Rand
	logger      kitlog.Logger
	hook        Hook

	pop         *genetic.Population
	fronts      []Front
	history     [][]Front
	generation  int
	stagnant    int
	evaluations int
	best        []float64
	mean        []float64
	convergence []float64
}

// NewNSGA2 returns a multi-objective run.
func NewNSGA2(cfg genetic.Config, objectives []Objective, bounds genetic.Bounds, ev genetic.Evaluator, opts ...Option) (*NSGA2, error) {
	if len(objectives) == 0 {
		return nil, fmt.Errorf("at least one objective must be provided")
	}
	for _, obj := range objectives {
		if err := obj.Validate(); err != nil {
			return nil, err
		}
	}
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
	n := &NSGA2{
		cfg:        cfg,
		objectives: objectives,
		bounds:     bounds,
		evaluator:  ev,
		breeder: genetic.Breeder{
			Selector:      sel,
			Crossover:     cx,
			Mutator:       mut,
			CrossoverRate: cfg.CrossoverRate,
			MutationRate:  cfg.MutationRate,
		},
		rng:    genetic.NewRand(cfg.Seed),
		logger: kitlog.NewNopLogger(),
		pop:    genetic.NewPopulation(cfg.PopulationSize),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Population returns the current population.
func (n *NSGA2) Population() *genetic.Population { return n.pop }

// Generation returns the number of completed generations.
func (n *NSGA2) Generation() int { return n.generation }

// Evaluations returns the number of evaluator calls so far.
func (n *NSGA2) Evaluations() int { return n.evaluations }

// Fronts returns the fronts of the last sorted population.
func (n *NSGA2) Fronts() []Front { return n.fronts }

// History returns the fronts of every generation.
func (n *NSGA2) History() [][]Front { return n.history }

// Front returns the front of the provided rank.
func (n *NSGA2) Front(rank int) (Front, bool) {
	if rank < 0 || rank >= len(n.fronts) {
		return Front{}, false
	}
	return n.fronts[rank], true
}

// ParetoOptimal returns the members of the first front.
func (n *NSGA2) ParetoOptimal() []*genetic.Individual {
	if f, ok := n.Front(0); ok {
		return f.Members
	}
	return nil
}

// score evaluates ind and derives its objective values and fitness.
func (n *NSGA2) score(ind *genetic.Individual) {
	genetic.Evaluate(ind, n.evaluator, n.constraints)
	n.evaluations++
	if fit, _ := ind.Fitness(); math.IsInf(fit, -1) {
		for _, obj := range n.objectives {
			ind.Objectives[obj.Name] = obj.Worst()
		}
		return
	}
	ind.Objectives = make(map[string]float64, len(n.objectives))
	var total float64
	for _, obj := range n.objectives {
		v, err := obj.Value(ind)
		if err != nil {
			ind.Objectives[obj.Name] = obj.Worst()
			ind.Violations = append(ind.Violations, fmt.Sprintf("%s%s: %s", ObjectiveErrorPrefix, obj.Name, err))
			ind.SetFitness(math.Inf(-1))
			return
		}
		ind.Objectives[obj.Name] = v
		total += obj.Signed(v)
	}
	ind.SetFitness(total)
}

func (n *NSGA2) evaluate(individuals []*genetic.Individual) {
	for _, ind := range individuals {
		if !ind.Evaluated() {
			n.score(ind)
		}
	}
}

func (n *NSGA2) record() {
	s, ok := n.pop.Stats()
	if !ok {
		return
	}
	n.best = append(n.best, s.Max)
	n.mean = append(n.mean, s.Mean)
	if k := len(n.best); k > 1 {
		Δ := math.Abs(s.Max - n.best[k-2])
		n.convergence = append(n.convergence, Δ)
		if Δ < n.cfg.Threshold {
			n.stagnant++
		} else {
			n.stagnant = 0
		}
	}
}

// Initialize replaces the population with random individuals.
func (n *NSGA2) Initialize() {
	n.pop.Clear()
	for n.pop.Len() < n.pop.MaxSize() {
		if err := n.pop.Add(genetic.RandomIndividual(n.bounds, n.rng)); err != nil {
			panic(err)
		}
	}
}

// Converged returns true once the generation budget is spent or the best fitness stagnates.
func (n *NSGA2) Converged() bool {
	return n.generation >= n.cfg.Generations || n.stagnant >= n.cfg.Stagnation
}

// Step scores and sorts the population, then unless the run converged, breeds offspring and
// keeps the best of parents and offspring. It returns whether the run converged.
func (n *NSGA2) Step() bool {
	n.evaluate(n.pop.Members())
	n.fronts = Sort(n.pop.Members(), n.objectives)
	n.history = append(n.history, n.fronts)
	n.record()
	if n.hook != nil {
		n.hook(n.generation, n.pop, n.fronts)
	}
	if n.Converged() {
		return true
	}

	var parents []*genetic.Individual
	for _, ind := range Select(n.fronts, n.cfg.PopulationSize, n.objectives) {
		parents = append(parents, ind.Copy())
	}
	offspring := n.breeder.Offspring(parents, n.cfg.PopulationSize, n.rng)
	combined := append(parents, offspring...)
	n.evaluate(combined)

	next := genetic.NewPopulation(n.cfg.PopulationSize)
	next.Generation = n.generation + 1
	for _, ind := range Select(Sort(combined, n.objectives), n.cfg.PopulationSize, n.objectives) {
		if err := next.Add(ind); err != nil {
			panic(err)
		}
	}
	n.pop = next
	n.generation++
	return false
}

// Run evolves a random population until convergence and returns the Pareto optimal individuals.
// The context is checked between generations, and its error is returned when it is done.
func (n *NSGA2) Run(ctx context.Context) ([]*genetic.Individual, genetic.Statistics, error) {
	n.Initialize()
	for !n.Converged() {
		if err := ctx.Err(); err != nil {
			n.logger.Log("level", "warning", "msg", "run interrupted", "generation", n.generation, "err", err)
			return nil, n.Statistics(), err
		}
		if n.Step() {
			break
		}
		runtime.Gosched()
	}
	n.evaluate(n.pop.Members())
	n.fronts = Sort(n.pop.Members(), n.objectives)
	front := n.ParetoOptimal()
	n.logger.Log("level", "info", "msg", "run converged", "generations", n.generation, "evaluations", n.evaluations, "front", len(front))
	return front, n.Statistics(), nil
}

// Statistics returns the statistics of the run so far.
func (n *NSGA2) Statistics() genetic.Statistics {
	final, _ := n.pop.Stats()
	return genetic.Statistics{
		Generations:        n.generation,
		BestHistory:        append([]float64(nil), n.best...),
		MeanHistory:        append([]float64(nil), n.mean...),
		ConvergenceHistory: append([]float64(nil), n.convergence...),
		Final:              final,
		Feasible:           len(n.pop.Feasible()),
		Evaluations:        n.evaluations,
	}
}

// Convergence describes the first front of the last sorted population.
type Convergence struct {
	FrontSize   int
	TotalFronts int
	Hypervolume float64
	// Spacing is the standard deviation of the distances between each member of the first
	// front and its nearest neighbor in objective space. Only set with at least two members.
	Spacing float64
}

// ConvergenceMetrics returns the convergence indicators, and false before the first sort.
func (n *NSGA2) ConvergenceMetrics() (Convergence, bool) {
	first, ok := n.Front(0)
	if !ok {
		return Convergence{}, false
	}
	return Convergence{
		FrontSize:   first.Len(),
		TotalFronts: len(n.fronts),
		Hypervolume: first.Hypervolume(n.objectives),
		Spacing:     Spacing(first, n.objectives),
	}, true
}

// Spacing returns the population standard deviation of the nearest neighbor distances of the
// front in objective space, using the objectives both individuals carry.
func Spacing(f Front, objectives []Objective) float64 {
	if f.Len() < 2 {
		return 0
	}
	var nearest []float64
	for i, a := range f.Members {
		best := math.Inf(1)
		for j, b := range f.Members {
			if i == j {
				continue
			}
			var va, vb []float64
			for _, obj := range objectives {
				x, okA := a.Objectives[obj.Name]
				y, okB := b.Objectives[obj.Name]
				if okA && okB {
					va, vb = append(va, x), append(vb, y)
				}
			}
			best = math.Min(best, floats.Distance(va, vb, 2))
		}
		if !math.IsInf(best, 1) {
			nearest = append(nearest, best)
		}
	}
	if len(nearest) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(nearest, nil)
	k := float64(len(nearest))
	return std * math.Sqrt((k-1)/k)
}
