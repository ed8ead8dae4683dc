package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/optimize"
	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

var (
	confDir     string
	metricsAddr string
	report      time.Duration
	export      bool
)

func init() {
	pflag.StringVar(&confDir, "config", "", "directory of conf.toml (defaults to $"+astroforge.ConfigEnv+")")
	pflag.StringVar(&metricsAddr, "metrics", "", "serve the Prometheus metrics on this address, e.g. :9100")
	pflag.DurationVar(&report, "report", 5*time.Second, "interval between progress reports")
	pflag.BoolVar(&export, "export", true, "export the best solutions and the simulation of the best mission as CSV")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] scenario.toml [scenario.toml ...]\n", os.Args[0])
		pflag.PrintDefaults()
	}
}

func main() {
	pflag.Parse()
	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}
	conf, err := astroforge.LoadConfig(confDir)
	if err != nil {
		log.Fatal(err)
	}
	logger := conf.NewLogger(os.Stdout, "designer")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := optimize.NewMetrics(reg)
	if metricsAddr != "" {
		go func() {
			err := http.ListenAndServe(metricsAddr, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			logger.Log("level", "error", "msg", "metrics server stopped", "err", err)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	sim := astroforge.NewSimulator(astroforge.FuelModel{Efficiency: conf.FuelEfficiency}, nil)
	orch := optimize.New(sim, optimize.WithLogger(conf.NewLogger(os.Stdout, "optimizer")), optimize.WithMetrics(metrics))

	g, ctx := errgroup.WithContext(ctx)
	for _, path := range pflag.Args() {
		path := path
		g.Go(func() error {
			d, err := readDesign(path, conf)
			if err != nil {
				return err
			}
			logger.Log("level", "info", "msg", "designing", "design", d)
			return run(ctx, orch, sim, d, conf, kitlog.With(logger, "design", d.name))
		})
	}
	err = g.Wait()
	if werr := orch.Wait(); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		log.Fatal(err)
	}
	logger.Log("level", "info", "msg", "done")
}

// run optimizes one design, reporting its progress until the job finishes.
func run(ctx context.Context, orch *optimize.Orchestrator, sim *astroforge.Simulator, d design, conf astroforge.Config, logger kitlog.Logger) error {
	id, err := orch.Start(ctx, d.mission, d.cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", d.name, err)
	}
	ticker := time.NewTicker(report)
	defer ticker.Stop()
	for {
		res, ok := orch.Status(id)
		if !ok {
			return fmt.Errorf("%s: job %s vanished", d.name, id)
		}
		if res.Status.Terminal() {
			return finish(ctx, sim, d, res, conf, logger)
		}
		p := res.Progress
		logger.Log("level", "info", "status", res.Status, "generation", p.Generation, "best", p.BestFitness,
			"mean", p.MeanFitness, "diversity", p.Diversity, "front", p.FrontSize, "evaluations", p.Evaluations)
		select {
		case <-ticker.C:
		case <-ctx.Done():
			orch.Cancel(id)
			<-ticker.C
		}
	}
}

func finish(ctx context.Context, sim *astroforge.Simulator, d design, res optimize.Result, conf astroforge.Config, logger kitlog.Logger) error {
	if res.Status != optimize.Completed {
		logger.Log("level", "warning", "status", res.Status, "err", res.Error)
		if res.Status == optimize.Failed {
			return fmt.Errorf("%s: %s", d.name, res.Error)
		}
		return nil
	}
	stats := res.Statistics
	logger.Log("level", "info", "msg", "optimized", "generations", stats.Generations, "evaluations", stats.Evaluations,
		"feasible", stats.Feasible, "front", stats.FrontSize, "took", res.CompletedAt.Sub(res.StartedAt))
	if stats.HasConvergence {
		logger.Log("level", "info", "hypervolume", stats.Convergence.Hypervolume, "spacing", stats.Convergence.Spacing,
			"fronts", stats.Convergence.TotalFronts)
	}
	for _, p := range d.cfg.Parameters {
		v, _ := p.Parameter.Value(res.BestMission)
		logger.Log("level", "info", "parameter", p.Parameter, "initial", p.Current, "best", v)
	}
	if !export {
		return nil
	}
	front := res.Progress.ParetoOptimal
	if len(front) == 0 && res.Progress.Best != nil {
		front = []optimize.Solution{*res.Progress.Best}
	}
	path, err := writeFront(conf.OutputDir, d.name, front)
	if err != nil {
		return err
	}
	logger.Log("level", "info", "msg", "exported", "file", path)

	best, err := sim.Simulate(context.WithoutCancel(ctx), res.BestMission, true)
	if err != nil {
		return err
	}
	paths, err := astroforge.ExportResult(conf.OutputDir, d.name+"-best", best, res.BestMission.Trajectory.LaunchWindow.Start)
	for _, p := range paths {
		logger.Log("level", "info", "msg", "exported", "file", p)
	}
	return err
}
