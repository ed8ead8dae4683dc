// Package optimize tunes the parameters of a mission with genetic optimization jobs.
//
// A job searches the parameter space of a base mission. Every candidate is materialized
// into a copy of the base mission, simulated, and scored on the configured objectives.
// A single objective runs the genetic algorithm, several run NSGA-II. Jobs run in their
// own goroutine and are tracked by an Orchestrator until cleaned up.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	"github.com/Yashgit1728/AstroForge-sub000/pareto"
	kitlog "github.com/go-kit/kit/log"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger kitlog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// Orchestrator starts optimization jobs and keeps track of them. It is safe for concurrent use.
type Orchestrator struct {
	sim     *astroforge.Simulator
	logger  kitlog.Logger
	metrics *Metrics
	group   errgroup.Group
	// waiting serializes Wait with the goroutines started by Start.
	waiting sync.RWMutex

	mu     sync.Mutex
	jobs   map[uuid.UUID]*job
	caches map[uuid.UUID]*cache.Cache
}

// New returns an orchestrator evaluating candidates with the simulator.
func New(sim *astroforge.Simulator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sim:    sim,
		logger: kitlog.NewNopLogger(),
		jobs:   make(map[uuid.UUID]*job),
		caches: make(map[uuid.UUID]*cache.Cache),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}
	return o
}

// Start validates the configuration and starts optimizing the parameters of base in the
// background. The job stops when ctx is done, when it is cancelled or when it times out.
// Start does not return while Wait is in progress.
func (o *Orchestrator) Start(ctx context.Context, base *astroforge.Mission, cfg Config) (uuid.UUID, error) {
	if base == nil {
		return uuid.Nil, fmt.Errorf("no mission to optimize")
	}
	if err := cfg.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("invalid optimization config: %w", err)
	}
	base = base.Clone()
	cfg.Objectives = append([]Objective(nil), cfg.Objectives...)
	cfg.Parameters = append([]ParameterSpec(nil), cfg.Parameters...)
	cfg.Constraints = append([]Constraint(nil), cfg.Constraints...)

	jobCtx, cancel := context.WithCancel(ctx)
	if cfg.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		jobCtx, cancelTimeout = context.WithTimeout(jobCtx, cfg.Timeout)
		parent := cancel
		cancel = func() {
			cancelTimeout()
			parent()
		}
	}
	j := &job{
		base:   base,
		cancel: cancel,
		result: Result{
			JobID:     uuid.New(),
			MissionID: base.ID,
			Status:    Pending,
			Config:    cfg,
			CreatedAt: time.Now().UTC(),
		},
	}
	o.mu.Lock()
	o.jobs[j.result.JobID] = j
	o.mu.Unlock()

	o.logger.Log("level", "info", "msg", "job created", "job", j.result.JobID, "mission", base.Name,
		"objectives", len(cfg.Objectives), "parameters", len(cfg.Parameters))
	o.waiting.RLock()
	o.group.Go(func() error { return o.run(jobCtx, j) })
	o.waiting.RUnlock()
	return j.result.JobID, nil
}

// Status returns a snapshot of the job.
func (o *Orchestrator) Status(id uuid.UUID) (Result, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	j, ok := o.jobs[id]
	if !ok {
		return Result{}, false
	}
	return j.result.clone(), true
}

// Cancel stops a pending or running job at its next generation boundary. It returns false
// for unknown or already finished jobs.
func (o *Orchestrator) Cancel(id uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	j, ok := o.jobs[id]
	if !ok || j.result.Status.Terminal() {
		return false
	}
	j.cancelled = true
	j.result.Status = Cancelled
	j.result.CompletedAt = time.Now().UTC()
	j.cancel()
	o.metrics.finished(Cancelled)
	o.logger.Log("level", "info", "msg", "job cancelled", "job", id)
	return true
}

// Active returns a snapshot of every tracked job, oldest first.
func (o *Orchestrator) Active() []Result {
	o.mu.Lock()
	results := make([]Result, 0, len(o.jobs))
	for _, j := range o.jobs {
		results = append(results, j.result.clone())
	}
	o.mu.Unlock()
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.Before(results[j].CreatedAt) })
	return results
}

// Cleanup forgets the jobs which finished more than maxAge ago and returns how many were removed.
func (o *Orchestrator) Cleanup(maxAge time.Duration) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now().UTC()
	removed := 0
	for id, j := range o.jobs {
		if j.result.CompletedAt.IsZero() || now.Sub(j.result.CompletedAt) <= maxAge {
			continue
		}
		delete(o.jobs, id)
		removed++
	}
	if removed > 0 {
		o.logger.Log("level", "info", "msg", "jobs cleaned up", "removed", removed)
	}
	return removed
}

// ClearSimulationCache drops the memoized simulations of every running job.
func (o *Orchestrator) ClearSimulationCache() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, c := range o.caches {
		c.Flush()
	}
}

// Wait blocks until every started job returns. Its error reports a job which panicked.
// A Start concurrent with Wait blocks until Wait returns.
func (o *Orchestrator) Wait() error {
	o.waiting.Lock()
	defer o.waiting.Unlock()
	return o.group.Wait()
}

// finish records the final state of a job unless it was cancelled.
func (o *Orchestrator) finish(j *job, status Status, update func(*Result)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.caches, j.result.JobID)
	if j.cancelled {
		return
	}
	j.result.Status = status
	j.result.CompletedAt = time.Now().UTC()
	if update != nil {
		update(&j.result)
	}
	o.metrics.finished(status)
}

func (o *Orchestrator) progress(j *job, p Progress) {
	o.mu.Lock()
	j.result.Progress = p
	o.mu.Unlock()
}

// outcome is what a finished search hands back to the runner.
type outcome struct {
	best   *genetic.Individual
	pareto []*genetic.Individual
	stats  Statistics
}

func (o *Orchestrator) run(ctx context.Context, j *job) (err error) {
	defer j.cancel()
	id := j.result.JobID
	store := cache.New(cache.NoExpiration, 0)

	o.mu.Lock()
	if j.cancelled {
		o.mu.Unlock()
		return nil
	}
	j.result.Status = Running
	j.result.StartedAt = time.Now().UTC()
	o.caches[id] = store
	cfg := j.result.Config
	o.mu.Unlock()

	o.metrics.active.Inc()
	defer o.metrics.active.Dec()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Log("level", "critical", "msg", "job panicked", "job", id, "panic", r, "stack", string(debug.Stack()))
			o.finish(j, Failed, func(res *Result) { res.Error = fmt.Sprintf("panic: %v", r) })
			err = fmt.Errorf("optimization job %s panicked: %v", id, r)
		}
	}()

	logger := kitlog.With(o.logger, "job", id)
	logger.Log("level", "info", "msg", "job started", "population", cfg.PopulationSize, "generations", cfg.Generations)
	ev := newOracle(ctx, o.sim, j.base, cfg, store, o.metrics)
	tracker := &tracker{orch: o, job: j, genes: cfg.bounds().Names(), started: time.Now()}

	var out outcome
	var runErr error
	if len(cfg.Objectives) == 1 {
		out, runErr = o.single(ctx, cfg, j.base, ev, tracker, logger)
	} else {
		out, runErr = o.multi(ctx, cfg, j.base, ev, tracker, logger)
	}

	switch {
	case runErr == nil:
		best, front, mapErr := materializeAll(j.base, out)
		if mapErr != nil {
			o.finish(j, Failed, func(res *Result) { res.Error = mapErr.Error() })
			return nil
		}
		o.finish(j, Completed, func(res *Result) {
			res.BestMission = best
			res.ParetoMissions = front
			res.Statistics = out.stats
		})
		logger.Log("level", "info", "msg", "job completed", "generations", out.stats.Generations, "evaluations", out.stats.Evaluations)
	case errors.Is(runErr, context.DeadlineExceeded):
		o.finish(j, Failed, func(res *Result) {
			res.Error = fmt.Sprintf("optimization timed out after %s", cfg.Timeout)
			res.Statistics = out.stats
		})
		logger.Log("level", "warning", "msg", "job timed out", "timeout", cfg.Timeout)
	case errors.Is(runErr, context.Canceled):
		o.finish(j, Cancelled, func(res *Result) { res.Statistics = out.stats })
		logger.Log("level", "info", "msg", "job stopped", "err", runErr)
	default:
		o.finish(j, Failed, func(res *Result) { res.Error = runErr.Error() })
		logger.Log("level", "error", "msg", "job failed", "err", runErr)
	}
	return nil
}

func (o *Orchestrator) single(ctx context.Context, cfg Config, base *astroforge.Mission, ev genetic.Evaluator, t *tracker, logger kitlog.Logger) (outcome, error) {
	var alg *genetic.Algorithm
	alg, err := genetic.NewAlgorithm(cfg.genetic(), cfg.bounds(), ev,
		genetic.WithConstraints(cfg.geneticConstraints(base)...),
		genetic.WithLogger(logger),
		genetic.WithHook(func(gen int, pop *genetic.Population) {
			t.generation(gen, pop, alg.Evaluations(), nil)
		}))
	if err != nil {
		return outcome{}, err
	}
	best, stats, err := alg.Run(ctx)
	return outcome{best: best, stats: Statistics{Statistics: stats}}, err
}

func (o *Orchestrator) multi(ctx context.Context, cfg Config, base *astroforge.Mission, ev genetic.Evaluator, t *tracker, logger kitlog.Logger) (outcome, error) {
	var n *pareto.NSGA2
	n, err := pareto.NewNSGA2(cfg.genetic(), cfg.paretoObjectives(), cfg.bounds(), ev,
		pareto.WithConstraints(cfg.geneticConstraints(base)...),
		pareto.WithLogger(logger),
		pareto.WithHook(func(gen int, pop *genetic.Population, fronts []pareto.Front) {
			var first []*genetic.Individual
			if len(fronts) > 0 {
				first = fronts[0].Members
			}
			t.generation(gen, pop, n.Evaluations(), first)
		}))
	if err != nil {
		return outcome{}, err
	}
	front, stats, err := n.Run(ctx)
	out := outcome{pareto: front, stats: Statistics{Statistics: stats, FrontSize: len(front)}}
	out.stats.Convergence, out.stats.HasConvergence = n.ConvergenceMetrics()
	out.best = fittest(front)
	return out, err
}

// fittest returns the individual with the highest composite fitness.
func fittest(individuals []*genetic.Individual) *genetic.Individual {
	var best *genetic.Individual
	bestFit := math.Inf(-1)
	for _, ind := range individuals {
		if fit, ok := ind.Fitness(); ok && (best == nil || fit > bestFit) {
			best, bestFit = ind, fit
		}
	}
	return best
}

func materializeAll(base *astroforge.Mission, out outcome) (*astroforge.Mission, []*astroforge.Mission, error) {
	if out.best == nil {
		return nil, nil, fmt.Errorf("no solution found")
	}
	best, err := Materialize(base, out.best.Genes)
	if err != nil {
		return nil, nil, err
	}
	var front []*astroforge.Mission
	for _, ind := range out.pareto {
		m, err := Materialize(base, ind.Genes)
		if err != nil {
			return nil, nil, err
		}
		front = append(front, m)
	}
	return best, front, nil
}

// tracker publishes the progress of a job after each generation.
type tracker struct {
	orch     *Orchestrator
	job      *job
	genes    []string
	started  time.Time
	last     time.Time
	prevBest float64
	seen     bool
}

func (t *tracker) generation(gen int, pop *genetic.Population, evaluations int, front []*genetic.Individual) {
	now := time.Now()
	if t.last.IsZero() {
		t.last = t.started
	}
	t.orch.metrics.genDuration.Observe(now.Sub(t.last).Seconds())
	t.orch.metrics.generations.Inc()
	t.last = now

	p := Progress{
		Generation:  gen + 1,
		Evaluations: evaluations,
		Elapsed:     now.Sub(t.started),
		Diversity:   pop.Diversity(t.genes),
		FrontSize:   len(front),
	}
	if s, ok := pop.Stats(); ok {
		p.BestFitness, p.MeanFitness = s.Max, s.Mean
		if t.seen {
			p.Convergence = math.Abs(s.Max - t.prevBest)
		}
		t.prevBest, t.seen = s.Max, true
	}
	if best, ok := pop.Best(true); ok {
		s := snapshot(best)
		p.Best = &s
	}
	for _, ind := range front {
		p.ParetoOptimal = append(p.ParetoOptimal, snapshot(ind))
	}
	t.orch.progress(t.job, p)
}
