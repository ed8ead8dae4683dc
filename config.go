package astroforge

import (
	"fmt"
	"io"
	"os"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the directory of conf.toml.
const ConfigEnv = "ASTROFORGE_CONFIG"

// Config is the engine configuration.
type Config struct {
	FuelEfficiency float64
	Detailed       bool
	LogFormat      string // logfmt or json
	OutputDir      string

	// Default genetic algorithm hyperparameters.
	PopulationSize int
	Generations    int
	CrossoverRate  float64
	MutationRate   float64
	ElitismRate    float64
	TournamentSize int
	Threshold      float64
	Stagnation     int
	TimeoutSeconds float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.fuel_efficiency", DefaultEfficiency)
	v.SetDefault("simulation.detailed", true)
	v.SetDefault("general.log_format", "logfmt")
	v.SetDefault("general.output_path", os.TempDir())
	v.SetDefault("optimization.population_size", 50)
	v.SetDefault("optimization.generations", 100)
	v.SetDefault("optimization.crossover_rate", 0.8)
	v.SetDefault("optimization.mutation_rate", 0.1)
	v.SetDefault("optimization.elitism_rate", 0.1)
	v.SetDefault("optimization.tournament_size", 3)
	v.SetDefault("optimization.convergence_threshold", 1e-6)
	v.SetDefault("optimization.stagnation_generations", 20)
	v.SetDefault("optimization.timeout_seconds", 0)
}

// LoadConfig reads conf.toml from dir, or from $ASTROFORGE_CONFIG when dir is empty.
// Without any directory the defaults are returned.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("astroforge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if dir == "" {
		dir = os.Getenv(ConfigEnv)
	}
	if dir != "" {
		v.SetConfigName("conf")
		v.SetConfigType("toml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s/conf.toml: %w", dir, err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	conf := Config{
		FuelEfficiency: v.GetFloat64("simulation.fuel_efficiency"),
		Detailed:       v.GetBool("simulation.detailed"),
		LogFormat:      v.GetString("general.log_format"),
		OutputDir:      v.GetString("general.output_path"),
		PopulationSize: v.GetInt("optimization.population_size"),
		Generations:    v.GetInt("optimization.generations"),
		CrossoverRate:  v.GetFloat64("optimization.crossover_rate"),
		MutationRate:   v.GetFloat64("optimization.mutation_rate"),
		ElitismRate:    v.GetFloat64("optimization.elitism_rate"),
		TournamentSize: v.GetInt("optimization.tournament_size"),
		Threshold:      v.GetFloat64("optimization.convergence_threshold"),
		Stagnation:     v.GetInt("optimization.stagnation_generations"),
		TimeoutSeconds: v.GetFloat64("optimization.timeout_seconds"),
	}
	if conf.FuelEfficiency <= 0 || conf.FuelEfficiency > 1 {
		return conf, fmt.Errorf("simulation.fuel_efficiency must be in (0, 1], got %f", conf.FuelEfficiency)
	}
	switch conf.LogFormat {
	case "logfmt", "json":
	default:
		return conf, fmt.Errorf("unknown log format '%s'", conf.LogFormat)
	}
	return conf, nil
}

// NewLogger returns a logger writing to w in the configured format, tagged with the subsystem.
func (c Config) NewLogger(w io.Writer, subsys string) kitlog.Logger {
	var l kitlog.Logger
	if c.LogFormat == "json" {
		l = kitlog.NewJSONLogger(kitlog.NewSyncWriter(w))
	} else {
		l = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	}
	return kitlog.With(l, "ts", kitlog.DefaultTimestampUTC, "subsys", subsys)
}

// NewLogger returns the default logfmt logger on stdout for the provided subsystem.
func NewLogger(subsys string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(klog, "subsys", subsys)
}
