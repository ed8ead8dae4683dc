package optimize

import (
	"fmt"
	"time"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	"github.com/Yashgit1728/AstroForge-sub000/pareto"
)

// Constraint is a feasibility check on a candidate mission.
type Constraint struct {
	Name        string
	Description string
	Weight      float64
	Check       func(m *astroforge.Mission) bool
}

// Config describes an optimization job.
type Config struct {
	Objectives  []Objective
	Parameters  []ParameterSpec
	Constraints []Constraint

	PopulationSize int
	Generations    int
	CrossoverRate  float64
	MutationRate   float64
	ElitismRate    float64
	TournamentSize int
	Threshold      float64
	Stagnation     int
	Selection      genetic.SelectionMethod
	Crossover      genetic.CrossoverMethod
	Mutation       genetic.MutationMethod
	Seed           uint64

	Detailed bool
	// Timeout of the whole job, zero means none.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration for those objectives and parameters.
func DefaultConfig(objectives []Objective, params []ParameterSpec) Config {
	return Config{
		Objectives:     objectives,
		Parameters:     params,
		PopulationSize: 50,
		Generations:    100,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		ElitismRate:    0.1,
		TournamentSize: 3,
		Threshold:      1e-6,
		Stagnation:     20,
		Selection:      genetic.Tournament,
		Crossover:      genetic.UniformCrossover,
		Mutation:       genetic.GaussianMutation,
		Detailed:       true,
	}
}

// FromEngine returns the default configuration using the hyperparameters of the engine configuration.
func FromEngine(conf astroforge.Config, objectives []Objective, params []ParameterSpec) Config {
	c := DefaultConfig(objectives, params)
	c.PopulationSize = conf.PopulationSize
	c.Generations = conf.Generations
	c.CrossoverRate = conf.CrossoverRate
	c.MutationRate = conf.MutationRate
	c.ElitismRate = conf.ElitismRate
	c.TournamentSize = conf.TournamentSize
	c.Threshold = conf.Threshold
	c.Stagnation = conf.Stagnation
	c.Detailed = conf.Detailed
	c.Timeout = time.Duration(conf.TimeoutSeconds * float64(time.Second))
	return c
}

// Validate returns the first problem of the configuration.
func (c Config) Validate() error {
	if len(c.Objectives) == 0 {
		return fmt.Errorf("at least one objective must be provided")
	}
	for _, o := range c.Objectives {
		if !o.Valid() {
			return fmt.Errorf("unknown optimization objective '%s'", o)
		}
	}
	if len(c.Parameters) == 0 {
		return fmt.Errorf("at least one parameter must be provided")
	}
	seen := make(map[Parameter]bool, len(c.Parameters))
	for _, p := range c.Parameters {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Parameter] {
			return fmt.Errorf("parameter %s is listed twice", p.Parameter)
		}
		seen[p.Parameter] = true
	}
	for _, cons := range c.Constraints {
		if cons.Check == nil {
			return fmt.Errorf("constraint %s has no check", cons.Name)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return c.genetic().Validate()
}

func (c Config) genetic() genetic.Config {
	return genetic.Config{
		PopulationSize: c.PopulationSize,
		Generations:    c.Generations,
		Selection:      c.Selection,
		Crossover:      c.Crossover,
		Mutation:       c.Mutation,
		CrossoverRate:  c.CrossoverRate,
		MutationRate:   c.MutationRate,
		ElitismRate:    c.ElitismRate,
		TournamentSize: c.TournamentSize,
		Threshold:      c.Threshold,
		Stagnation:     c.Stagnation,
		Seed:           c.Seed,
	}
}

func (c Config) bounds() genetic.Bounds {
	b := make(genetic.Bounds, len(c.Parameters))
	for _, p := range c.Parameters {
		b[string(p.Parameter)] = genetic.Bound{Min: p.Min, Max: p.Max}
	}
	return b
}

func (c Config) paretoObjectives() []pareto.Objective {
	objs := make([]pareto.Objective, len(c.Objectives))
	for i, o := range c.Objectives {
		objs[i] = o.Pareto()
	}
	return objs
}

// geneticConstraints checks every constraint on the mission materialized from the genes.
func (c Config) geneticConstraints(base *astroforge.Mission) []genetic.Constraint {
	out := make([]genetic.Constraint, len(c.Constraints))
	for i, cons := range c.Constraints {
		check := cons.Check
		out[i] = genetic.Constraint{
			Name: cons.Name,
			Satisfied: func(ind *genetic.Individual) bool {
				m, err := Materialize(base, ind.Genes)
				if err != nil {
					return false
				}
				return check(m)
			},
		}
	}
	return out
}
