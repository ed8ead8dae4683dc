package optimize

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the Prometheus collectors of an orchestrator.
type Metrics struct {
	jobs        *prometheus.CounterVec
	active      prometheus.Gauge
	generations prometheus.Counter
	evaluations *prometheus.CounterVec
	genDuration prometheus.Histogram
}

// NewMetrics builds the collectors and registers them with reg, unless reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroforge_optimization_jobs_total",
				Help: "Optimization jobs by final status.",
			},
			[]string{"status"},
		),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "astroforge_optimization_jobs_active",
			Help: "Optimization jobs currently running.",
		}),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "astroforge_optimization_generations_total",
			Help: "Generations evolved across all jobs.",
		}),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroforge_optimization_evaluations_total",
				Help: "Fitness evaluations, by simulation cache outcome.",
			},
			[]string{"cache"},
		),
		genDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "astroforge_optimization_generation_seconds",
			Help:    "Wall time of one generation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.jobs, m.active, m.generations, m.evaluations, m.genDuration)
	}
	return m
}

func (m *Metrics) finished(s Status) {
	m.jobs.WithLabelValues(string(s)).Inc()
}

func (m *Metrics) evaluated(hit bool) {
	if hit {
		m.evaluations.WithLabelValues("hit").Inc()
	} else {
		m.evaluations.WithLabelValues("miss").Inc()
	}
}
