package optimize

import (
	"errors"
	"fmt"
	"sort"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
)

// ErrUnknownParameter is returned for a parameter name outside of the registry.
var ErrUnknownParameter = errors.New("unknown optimization parameter")

// Parameter names a tunable field of a mission.
type Parameter string

const (
	SpacecraftMass Parameter = "spacecraft_mass_kg"
	FuelCapacity   Parameter = "fuel_capacity_kg"
	Thrust         Parameter = "thrust_n"
	Isp            Parameter = "specific_impulse_s"
	PayloadMass    Parameter = "payload_mass_kg"
	Power          Parameter = "power_w"
	FlightTime     Parameter = "flight_time_days"
	TotalΔv        Parameter = "total_delta_v"
)

type binding struct {
	kind string
	get  func(*astroforge.Mission) float64
	set  func(*astroforge.Mission, float64)
}

var registry = map[Parameter]binding{
	SpacecraftMass: {"spacecraft",
		func(m *astroforge.Mission) float64 { return m.Spacecraft.Mass },
		func(m *astroforge.Mission, v float64) { m.Spacecraft.Mass = v }},
	FuelCapacity: {"spacecraft",
		func(m *astroforge.Mission) float64 { return m.Spacecraft.FuelCapacity },
		func(m *astroforge.Mission, v float64) { m.Spacecraft.FuelCapacity = v }},
	Thrust: {"spacecraft",
		func(m *astroforge.Mission) float64 { return m.Spacecraft.Thrust },
		func(m *astroforge.Mission, v float64) { m.Spacecraft.Thrust = v }},
	Isp: {"spacecraft",
		func(m *astroforge.Mission) float64 { return m.Spacecraft.Isp },
		func(m *astroforge.Mission, v float64) { m.Spacecraft.Isp = v }},
	PayloadMass: {"spacecraft",
		func(m *astroforge.Mission) float64 { return m.Spacecraft.PayloadMass },
		func(m *astroforge.Mission, v float64) { m.Spacecraft.PayloadMass = v }},
	Power: {"spacecraft",
		func(m *astroforge.Mission) float64 { return m.Spacecraft.Power },
		func(m *astroforge.Mission, v float64) { m.Spacecraft.Power = v }},
	FlightTime: {"trajectory",
		func(m *astroforge.Mission) float64 { return m.Trajectory.FlightTime },
		func(m *astroforge.Mission, v float64) { m.Trajectory.FlightTime = v }},
	TotalΔv: {"trajectory",
		func(m *astroforge.Mission) float64 { return m.Trajectory.TotalΔv },
		func(m *astroforge.Mission, v float64) { m.Trajectory.TotalΔv = v }},
}

// ParameterFromString returns the registered parameter of that name.
func ParameterFromString(name string) (Parameter, error) {
	p := Parameter(name)
	if _, ok := registry[p]; !ok {
		return "", fmt.Errorf("%w '%s'", ErrUnknownParameter, name)
	}
	return p, nil
}

// Parameters returns every registered parameter, sorted by name.
func Parameters() []Parameter {
	params := make([]Parameter, 0, len(registry))
	for p := range registry {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool { return params[i] < params[j] })
	return params
}

// Kind returns the mission section the parameter belongs to.
func (p Parameter) Kind() string { return registry[p].kind }

// Value reads the parameter from the mission.
func (p Parameter) Value(m *astroforge.Mission) (float64, error) {
	b, ok := registry[p]
	if !ok {
		return 0, fmt.Errorf("%w '%s'", ErrUnknownParameter, p)
	}
	return b.get(m), nil
}

// Apply writes v into the mission.
func (p Parameter) Apply(m *astroforge.Mission, v float64) error {
	b, ok := registry[p]
	if !ok {
		return fmt.Errorf("%w '%s'", ErrUnknownParameter, p)
	}
	b.set(m, v)
	return nil
}

// ParameterSpec bounds one parameter of the search.
type ParameterSpec struct {
	Parameter   Parameter
	Min, Max    float64
	Current     float64
	Description string
}

// SpecFromMission returns a spec whose current value is read from the mission.
func SpecFromMission(p Parameter, min, max float64, m *astroforge.Mission) (ParameterSpec, error) {
	v, err := p.Value(m)
	if err != nil {
		return ParameterSpec{}, err
	}
	return ParameterSpec{Parameter: p, Min: min, Max: max, Current: v}, nil
}

// Validate checks the parameter is registered and its bounds are consistent.
func (s ParameterSpec) Validate() error {
	if _, err := ParameterFromString(string(s.Parameter)); err != nil {
		return err
	}
	if !(s.Min < s.Max) {
		return fmt.Errorf("invalid bounds for parameter %s: min %g >= max %g", s.Parameter, s.Min, s.Max)
	}
	if s.Current < s.Min || s.Current > s.Max {
		return fmt.Errorf("current value %g of %s is outside [%g, %g]", s.Current, s.Parameter, s.Min, s.Max)
	}
	return nil
}

// Materialize returns a copy of base with the genes applied as parameter overrides.
// The copy keeps the identity of base.
func Materialize(base *astroforge.Mission, genes map[string]float64) (*astroforge.Mission, error) {
	m := base.Clone()
	names := make([]string, 0, len(genes))
	for name := range genes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := Parameter(name).Apply(m, genes[name]); err != nil {
			return nil, err
		}
	}
	return m, nil
}
