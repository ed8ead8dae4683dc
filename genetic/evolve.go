package genetic

import (
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Outcome is the result of evaluating one individual. A non nil Err means the
// evaluation failed and the other fields are ignored.
type Outcome struct {
	Fitness    float64
	Objectives map[string]float64
	Metrics    map[string]float64
	Err        error
}

// Evaluator computes the outcome of an individual.
type Evaluator interface {
	Evaluate(ind *Individual) Outcome
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ind *Individual) Outcome

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(ind *Individual) Outcome { return f(ind) }

// Constraint is a named feasibility predicate.
type Constraint struct {
	Name      string
	Satisfied func(ind *Individual) bool
}

// check returns false if the predicate does not hold or panics.
func (c Constraint) check(ind *Individual) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return c.Satisfied(ind)
}

// EvaluationErrorPrefix prefixes the violation recorded for a failed evaluation.
const EvaluationErrorPrefix = "evaluation_error: "

// Evaluate checks the constraints of ind and then records the outcome of ev.
// A failed evaluation sets the fitness to -Inf and appends the error to the violations,
// after the names of the violated constraints.
func Evaluate(ind *Individual, ev Evaluator, constraints []Constraint) {
	ind.Violations = nil
	for _, c := range constraints {
		if !c.check(ind) {
			ind.Violations = append(ind.Violations, c.Name)
		}
	}
	out := ev.Evaluate(ind)
	ind.Objectives = make(map[string]float64, len(out.Objectives))
	ind.Metrics = make(map[string]float64, len(out.Metrics))
	if out.Err != nil {
		ind.SetFitness(math.Inf(-1))
		ind.Violations = append(ind.Violations, EvaluationErrorPrefix+out.Err.Error())
		return
	}
	for k, v := range out.Objectives {
		ind.Objectives[k] = v
	}
	for k, v := range out.Metrics {
		ind.Metrics[k] = v
	}
	ind.SetFitness(out.Fitness)
}

// RandomIndividual draws every gene uniformly within its bounds.
func RandomIndividual(bounds Bounds, rng *rand.Rand) *Individual {
	names := make([]string, 0, len(bounds))
	for name := range bounds {
		names = append(names, name)
	}
	sort.Strings(names)
	genes := make(map[string]float64, len(bounds))
	for _, name := range names {
		b := bounds[name]
		genes[name] = distuv.Uniform{Min: b.Min, Max: b.Max, Src: rng}.Rand()
	}
	return NewIndividual(genes)
}

// Breeder produces offspring from a set of parents.
type Breeder struct {
	Selector      Selector
	Crossover     Crossover
	Mutator       Mutator
	CrossoverRate float64
	MutationRate  float64
}

// Offspring returns up to n unevaluated offspring of parents. Fewer are returned when
// the selector cannot provide two parents.
func (b Breeder) Offspring(parents []*Individual, n int, rng *rand.Rand) []*Individual {
	if b.Selector == nil || b.Crossover == nil || b.Mutator == nil {
		panic(fmt.Sprintf("incomplete breeder %+v", b))
	}
	offspring := make([]*Individual, 0, n)
	for len(offspring) < n {
		pair := b.Selector.Select(parents, 2, rng)
		if len(pair) < 2 {
			break
		}
		var o1, o2 *Individual
		if rng.Float64() < b.CrossoverRate {
			o1, o2 = b.Crossover.Cross(pair[0], pair[1], rng)
		} else {
			o1, o2 = pair[0].Copy(), pair[1].Copy()
		}
		offspring = append(offspring, b.Mutator.Mutate(o1, b.MutationRate, rng))
		if len(offspring) < n {
			offspring = append(offspring, b.Mutator.Mutate(o2, b.MutationRate, rng))
		}
	}
	return offspring
}

// NewRand returns a random source seeded with seed, or with the clock if seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}
