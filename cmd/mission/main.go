package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/pflag"
)

// This tool reads a scenario, simulates its mission and optionally exports the result.

const defaultScenario = "~~unset~~"

var (
	scenario string
	confDir  string
	export   bool
	verbose  bool
)

func init() {
	pflag.StringVarP(&scenario, "scenario", "s", defaultScenario, "mission scenario TOML file")
	pflag.StringVar(&confDir, "config", "", "directory of conf.toml (defaults to $"+astroforge.ConfigEnv+")")
	pflag.BoolVar(&export, "export", false, "export the fuel timeline and the trajectory as CSV")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "log every simulation")
}

func main() {
	pflag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	conf, err := astroforge.LoadConfig(confDir)
	if err != nil {
		log.Fatal(err)
	}
	logger := conf.NewLogger(os.Stdout, "mission")

	v, err := astroforge.OpenScenario(scenario)
	if err != nil {
		log.Fatal(err)
	}
	m, err := astroforge.ReadMission(v)
	if err != nil {
		log.Fatalf("%s: %s", scenario, err)
	}
	var verrs astroforge.ValidationErrors
	if err := m.Validate(); errors.As(err, &verrs) {
		for _, verr := range verrs {
			logger.Log("level", "warning", "field", verr.Field, "msg", verr.Message)
		}
	}
	if issues := m.FeasibilityIssues(); len(issues) > 0 {
		for _, issue := range issues {
			logger.Log("level", "warning", "feasibility", issue)
		}
	}
	if lw, err := astroforge.NewLaunchWindow(m.Trajectory.Departure, m.Trajectory.Target, m.Trajectory.LaunchWindow.Start); err == nil {
		logger.Log("level", "info", "msg", "launch window", "optimal", lw.Optimal.Format(astroforge.ScenarioDateFormat),
			"JDE", lw.OptimalJD, "duration", lw.Duration, "synodic", lw.Synodic, "recurring", lw.Recurring)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	simLogger := kitlog.NewNopLogger()
	if verbose {
		simLogger = conf.NewLogger(os.Stdout, "simulator")
	}
	sim := astroforge.NewSimulator(astroforge.FuelModel{Efficiency: conf.FuelEfficiency}, simLogger)
	res, err := sim.Simulate(ctx, m, conf.Detailed || export)
	if err != nil {
		log.Fatal(err)
	}
	logger.Log("level", "info", "mission", m.Name, "success", res.Success, "fuel(kg)", res.Fuel,
		"duration(days)", res.DurationDays, "cost(USD)", res.Cost, "risks", len(res.RiskFactors()))
	for _, risk := range res.RiskFactors() {
		logger.Log("level", "notice", "risk", risk.Category, "impact", risk.Impact, "probability", risk.Probability, "mitigation", risk.Mitigation)
	}
	if !export {
		return
	}
	name := strings.TrimSuffix(filepath.Base(scenario), ".toml")
	paths, err := astroforge.ExportResult(conf.OutputDir, name, res, m.Trajectory.LaunchWindow.Start)
	if err != nil {
		log.Fatal(err)
	}
	for _, path := range paths {
		logger.Log("level", "info", "msg", "exported", "file", path)
	}
}
