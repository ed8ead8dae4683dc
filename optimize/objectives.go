package optimize

import (
	"fmt"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/pareto"
)

// Objective is what an optimization job optimizes for.
type Objective string

const (
	MinimizeFuel     Objective = "minimize_fuel"
	MinimizeDuration Objective = "minimize_duration"
	MinimizeCost     Objective = "minimize_cost"
	MaximizeSuccess  Objective = "maximize_success_probability"
	MinimizeΔv       Objective = "minimize_delta_v"
	MinimizeRisk     Objective = "minimize_risk"
)

// Measurements stored on every evaluated individual.
const (
	MetricFuel     = "fuel_consumption_kg"
	MetricDuration = "total_duration_days"
	MetricCost     = "cost_estimate_usd"
	MetricSuccess  = "success_probability"
	MetricΔv       = "total_delta_v"
	MetricRisk     = "risk_score"
)

type objectiveDef struct {
	name   string
	metric string
	dir    pareto.Direction
	// scale normalizes the measurement in the composite fitness.
	scale float64
}

var objectives = map[Objective]objectiveDef{
	MinimizeFuel:     {"fuel_consumption", MetricFuel, pareto.Minimize, 1000},
	MinimizeDuration: {"mission_duration", MetricDuration, pareto.Minimize, 365},
	MinimizeCost:     {"mission_cost", MetricCost, pareto.Minimize, 1e9},
	MaximizeSuccess:  {"success_probability", MetricSuccess, pareto.Maximize, 1},
	MinimizeΔv:       {"total_delta_v", MetricΔv, pareto.Minimize, 10000},
	MinimizeRisk:     {"risk_score", MetricRisk, pareto.Minimize, 1},
}

// ObjectiveFromString returns the objective of that name.
func ObjectiveFromString(name string) (Objective, error) {
	o := Objective(name)
	if !o.Valid() {
		return "", fmt.Errorf("unknown optimization objective '%s'", name)
	}
	return o, nil
}

// Valid returns whether the objective is known.
func (o Objective) Valid() bool {
	_, ok := objectives[o]
	return ok
}

// Pareto returns the multi-objective criterion which reads the measurement of o.
func (o Objective) Pareto() pareto.Objective {
	def := objectives[o]
	return pareto.MetricObjective(def.name, def.metric, def.dir, 1)
}

// objectiveValues keys the measurement of every objective by its criterion name.
func objectiveValues(objs []Objective, measurements map[string]float64) map[string]float64 {
	values := make(map[string]float64, len(objs))
	for _, o := range objs {
		def := objectives[o]
		values[def.name] = measurements[def.metric]
	}
	return values
}

// contribution returns the signed and normalized share of o in the composite fitness.
func (o Objective) contribution(measurements map[string]float64) float64 {
	def := objectives[o]
	v := measurements[def.metric] / def.scale
	if def.dir == pareto.Maximize {
		return v
	}
	return -v
}

// RiskScore grows with the failure probability and with every identified risk.
func RiskScore(res astroforge.SimulationResult) float64 {
	return 10*(1-res.Success) + 5*res.TotalRiskProbability()
}

// measure extracts the measurements of a simulation of m.
func measure(m *astroforge.Mission, res astroforge.SimulationResult) map[string]float64 {
	return map[string]float64{
		MetricFuel:     res.Fuel,
		MetricDuration: res.DurationDays,
		MetricCost:     res.Cost,
		MetricSuccess:  res.Success,
		MetricΔv:       m.Trajectory.TotalΔv,
		MetricRisk:     RiskScore(res),
	}
}

// Fitness is the composite signed sum of the objectives, higher being better.
func Fitness(objs []Objective, measurements map[string]float64) float64 {
	var f float64
	for _, o := range objs {
		f += o.contribution(measurements)
	}
	return f
}
