package optimize

import (
	"context"
	"sort"
	"strconv"
	"strings"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	"github.com/patrickmn/go-cache"
)

// oracle evaluates individuals by simulating the mission they describe.
// Simulations are memoized by gene values for the lifetime of a job.
type oracle struct {
	ctx        context.Context
	sim        *astroforge.Simulator
	base       *astroforge.Mission
	objectives []Objective
	detailed   bool
	cache      *cache.Cache
	metrics    *Metrics
}

type measurement struct {
	values map[string]float64
	err    error
}

func newOracle(ctx context.Context, sim *astroforge.Simulator, base *astroforge.Mission, cfg Config, store *cache.Cache, metrics *Metrics) *oracle {
	return &oracle{
		// A generation in flight always completes, cancellation is seen between generations.
		ctx:        context.WithoutCancel(ctx),
		sim:        sim,
		base:       base,
		objectives: cfg.Objectives,
		detailed:   cfg.Detailed,
		cache:      store,
		metrics:    metrics,
	}
}

// cacheKey is the gene tuple sorted by name.
func cacheKey(genes map[string]float64) string {
	names := make([]string, 0, len(genes))
	for name := range genes {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(genes[name], 'g', -1, 64))
		b.WriteByte(';')
	}
	return b.String()
}

func (o *oracle) measure(genes map[string]float64) measurement {
	key := cacheKey(genes)
	if v, found := o.cache.Get(key); found {
		o.metrics.evaluated(true)
		return v.(measurement)
	}
	o.metrics.evaluated(false)
	var meas measurement
	m, err := Materialize(o.base, genes)
	if err != nil {
		meas.err = err
	} else if res, err := o.sim.Simulate(o.ctx, m, o.detailed); err != nil {
		meas.err = err
	} else {
		meas.values = measure(m, res)
	}
	o.cache.Set(key, meas, cache.NoExpiration)
	return meas
}

// Evaluate implements genetic.Evaluator.
func (o *oracle) Evaluate(ind *genetic.Individual) genetic.Outcome {
	meas := o.measure(ind.Genes)
	if meas.err != nil {
		return genetic.Outcome{Err: meas.err}
	}
	return genetic.Outcome{
		Fitness:    Fitness(o.objectives, meas.values),
		Objectives: objectiveValues(o.objectives, meas.values),
		Metrics:    meas.values,
	}
}
