package optimize

import (
	"fmt"
	"time"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	"github.com/spf13/viper"
)

// ReadConfig reads the optimization and parameters sections of a scenario. Hyperparameters
// missing from the scenario are taken from the engine configuration, and the current value
// of every parameter is read from base.
func ReadConfig(v *viper.Viper, base *astroforge.Mission, engine astroforge.Config) (Config, error) {
	var objectives []Objective
	for _, name := range v.GetStringSlice("optimization.objectives") {
		o, err := ObjectiveFromString(name)
		if err != nil {
			return Config{}, err
		}
		objectives = append(objectives, o)
	}

	var params []ParameterSpec
	for no := 0; v.IsSet(fmt.Sprintf("parameters.%d", no)); no++ {
		key := fmt.Sprintf("parameters.%d", no)
		p, err := ParameterFromString(v.GetString(key + ".name"))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", key, err)
		}
		spec, err := SpecFromMission(p, v.GetFloat64(key+".min"), v.GetFloat64(key+".max"), base)
		if err != nil {
			return Config{}, err
		}
		spec.Description = v.GetString(key + ".description")
		params = append(params, spec)
	}

	cfg := FromEngine(engine, objectives, params)
	for key, field := range map[string]*int{
		"optimization.population_size":        &cfg.PopulationSize,
		"optimization.generations":            &cfg.Generations,
		"optimization.tournament_size":        &cfg.TournamentSize,
		"optimization.stagnation_generations": &cfg.Stagnation,
	} {
		if v.IsSet(key) {
			*field = v.GetInt(key)
		}
	}
	for key, field := range map[string]*float64{
		"optimization.crossover_rate":        &cfg.CrossoverRate,
		"optimization.mutation_rate":         &cfg.MutationRate,
		"optimization.elitism_rate":          &cfg.ElitismRate,
		"optimization.convergence_threshold": &cfg.Threshold,
	} {
		if v.IsSet(key) {
			*field = v.GetFloat64(key)
		}
	}
	if v.IsSet("optimization.selection") {
		cfg.Selection = genetic.SelectionMethod(v.GetString("optimization.selection"))
	}
	if v.IsSet("optimization.crossover") {
		cfg.Crossover = genetic.CrossoverMethod(v.GetString("optimization.crossover"))
	}
	if v.IsSet("optimization.mutation") {
		cfg.Mutation = genetic.MutationMethod(v.GetString("optimization.mutation"))
	}
	if v.IsSet("optimization.timeout_seconds") {
		cfg.Timeout = time.Duration(v.GetFloat64("optimization.timeout_seconds") * float64(time.Second))
	}
	if v.IsSet("optimization.detailed") {
		cfg.Detailed = v.GetBool("optimization.detailed")
	}
	cfg.Seed = uint64(v.GetInt64("optimization.seed"))
	cfg.Constraints = EnvelopeConstraints(base.Constraints)
	return cfg, cfg.Validate()
}

// EnvelopeConstraints turns the mission envelope into optimization constraints.
func EnvelopeConstraints(env astroforge.MissionConstraints) []Constraint {
	var cons []Constraint
	if env.MaxDuration > 0 {
		cons = append(cons, Constraint{
			Name:        "max_duration",
			Description: fmt.Sprintf("flight time of at most %.0f days", env.MaxDuration),
			Weight:      1,
			Check:       func(m *astroforge.Mission) bool { return m.Trajectory.FlightTime <= env.MaxDuration },
		})
	}
	if env.MaxΔv > 0 {
		cons = append(cons, Constraint{
			Name:        "max_delta_v",
			Description: fmt.Sprintf("total delta-v of at most %.0f m/s", env.MaxΔv),
			Weight:      1,
			Check:       func(m *astroforge.Mission) bool { return m.Trajectory.TotalΔv <= env.MaxΔv },
		})
	}
	if env.MaxMass > 0 {
		cons = append(cons, Constraint{
			Name:        "max_mass",
			Description: fmt.Sprintf("spacecraft mass of at most %.0f kg", env.MaxMass),
			Weight:      1,
			Check:       func(m *astroforge.Mission) bool { return m.Spacecraft.Mass <= env.MaxMass },
		})
	}
	cons = append(cons, Constraint{
		Name:        "spacecraft_valid",
		Description: "the spacecraft configuration is within its physical bounds",
		Weight:      1,
		Check:       func(m *astroforge.Mission) bool { return m.Spacecraft.Validate() == nil },
	})
	return cons
}
