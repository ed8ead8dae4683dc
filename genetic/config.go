package genetic

import "fmt"

// Config holds the hyperparameters of a genetic run.
type Config struct {
	PopulationSize int
	Generations    int
	Selection      SelectionMethod
	Crossover      CrossoverMethod
	Mutation       MutationMethod
	CrossoverRate  float64
	MutationRate   float64
	ElitismRate    float64
	TournamentSize int
	// Threshold is the smallest change of the best fitness which is not stagnation.
	Threshold float64
	// Stagnation is the number of stagnant generations after which the run stops.
	Stagnation int
	// Seed of the random source, zero picks one from the clock.
	Seed uint64
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 100,
		Generations:    100,
		Selection:      Tournament,
		Crossover:      UniformCrossover,
		Mutation:       GaussianMutation,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		ElitismRate:    0.1,
		TournamentSize: 3,
		Threshold:      1e-6,
		Stagnation:     20,
	}
}

// Validate returns an error describing the first invalid hyperparameter.
func (c Config) Validate() error {
	switch {
	case c.PopulationSize <= 0:
		return fmt.Errorf("population size must be positive, got %d", c.PopulationSize)
	case c.Generations <= 0:
		return fmt.Errorf("max generations must be positive, got %d", c.Generations)
	case c.CrossoverRate < 0 || c.CrossoverRate > 1:
		return fmt.Errorf("crossover rate must be in [0, 1], got %g", c.CrossoverRate)
	case c.MutationRate < 0 || c.MutationRate > 1:
		return fmt.Errorf("mutation rate must be in [0, 1], got %g", c.MutationRate)
	case c.ElitismRate < 0 || c.ElitismRate > 1:
		return fmt.Errorf("elitism rate must be in [0, 1], got %g", c.ElitismRate)
	case c.TournamentSize <= 0:
		return fmt.Errorf("tournament size must be positive, got %d", c.TournamentSize)
	case c.Stagnation <= 0:
		return fmt.Errorf("stagnation limit must be positive, got %d", c.Stagnation)
	}
	return nil
}

// Operators builds the selection, crossover and mutation operators of the configuration.
func (c Config) Operators(bounds Bounds) (Selector, Crossover, Mutator, error) {
	sel, err := NewSelector(c.Selection, c.TournamentSize)
	if err != nil {
		return nil, nil, nil, err
	}
	cx, err := NewCrossover(c.Crossover)
	if err != nil {
		return nil, nil, nil, err
	}
	mut, err := NewMutator(c.Mutation, bounds)
	if err != nil {
		return nil, nil, nil, err
	}
	return sel, cx, mut, nil
}
