// Package pareto implements the multi-objective side of the optimizer: Pareto dominance,
// non-dominated sorting, crowding distance and an NSGA-II loop on top of the genetic package.
package pareto

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Yashgit1728/AstroForge-sub000/genetic"
)

// Direction tells whether an objective is minimized or maximized.
type Direction uint8

const (
	Minimize Direction = iota + 1
	Maximize
)

func (d Direction) String() string {
	switch d {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		panic(fmt.Errorf("unknown direction %d", d))
	}
}

// DirectionFromString returns the direction from its name.
func DirectionFromString(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "minimize":
		return Minimize, nil
	case "maximize":
		return Maximize, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// ErrNoValue is returned by objective accessors when the individual does not carry the measurement.
var ErrNoValue = errors.New("objective value not available")

// Objective is one scored criterion. Value extracts the criterion from an evaluated individual.
type Objective struct {
	Name      string
	Direction Direction
	Weight    float64
	Value     func(ind *genetic.Individual) (float64, error)
}

// MetricObjective returns an objective which reads the provided metric of the individual.
func MetricObjective(name, metric string, dir Direction, weight float64) Objective {
	return Objective{
		Name:      name,
		Direction: dir,
		Weight:    weight,
		Value: func(ind *genetic.Individual) (float64, error) {
			v, ok := ind.Metrics[metric]
			if !ok {
				return 0, fmt.Errorf("%w: %s", ErrNoValue, metric)
			}
			return v, nil
		},
	}
}

// Validate returns an error if the objective cannot be used.
func (o Objective) Validate() error {
	switch {
	case o.Name == "":
		return errors.New("objective name cannot be empty")
	case o.Weight <= 0:
		return fmt.Errorf("objective %s: weight must be positive, got %g", o.Name, o.Weight)
	case o.Direction != Minimize && o.Direction != Maximize:
		return fmt.Errorf("objective %s: invalid direction", o.Name)
	case o.Value == nil:
		return fmt.Errorf("objective %s: no accessor", o.Name)
	}
	return nil
}

// Worst returns the worst possible value of the objective.
func (o Objective) Worst() float64 {
	if o.Direction == Maximize {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// Better returns whether a is strictly better than b.
func (o Objective) Better(a, b float64) bool {
	if o.Direction == Maximize {
		return a > b
	}
	return a < b
}

// Signed returns the weighted contribution of v to a fitness which is maximized.
func (o Objective) Signed(v float64) float64 {
	if o.Direction == Maximize {
		return o.Weight * v
	}
	return -o.Weight * v
}

func (o Objective) String() string {
	return fmt.Sprintf("%s %s (w=%g)", o.Direction, o.Name, o.Weight)
}
