package optimize

import (
	"time"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	"github.com/Yashgit1728/AstroForge-sub000/pareto"
	"github.com/google/uuid"
)

// Status of an optimization job.
type Status string

const (
	Pending   Status = "pending"
	Running   Status = "running"
	Completed Status = "completed"
	Failed    Status = "failed"
	Cancelled Status = "cancelled"
)

// Terminal returns whether the job can no longer change status.
func (s Status) Terminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

// Solution is a snapshot of an evaluated individual.
type Solution struct {
	ID         uuid.UUID
	Genes      map[string]float64
	Objectives map[string]float64
	Metrics    map[string]float64
	Fitness    float64
	Feasible   bool
	Generation int
}

func (s Solution) clone() Solution {
	s.Genes = copyMap(s.Genes)
	s.Objectives = copyMap(s.Objectives)
	s.Metrics = copyMap(s.Metrics)
	return s
}

func snapshot(ind *genetic.Individual) Solution {
	fit, _ := ind.Fitness()
	return Solution{
		ID:         ind.ID,
		Genes:      copyMap(ind.Genes),
		Objectives: copyMap(ind.Objectives),
		Metrics:    copyMap(ind.Metrics),
		Fitness:    fit,
		Feasible:   ind.Feasible(),
		Generation: ind.Generation,
	}
}

func copyMap(m map[string]float64) map[string]float64 {
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Progress is the state of a job after its last generation.
type Progress struct {
	// Generation counts the generations scored so far.
	Generation  int
	BestFitness float64
	MeanFitness float64
	// Diversity is the mean pairwise Euclidean distance between the gene vectors.
	Diversity   float64
	Evaluations int
	Elapsed     time.Duration
	// Convergence is the change of the best fitness since the previous generation.
	Convergence float64
	FrontSize   int
	Best        *Solution
	// ParetoOptimal is only set for multi-objective jobs.
	ParetoOptimal []Solution
}

func (p Progress) clone() Progress {
	if p.Best != nil {
		b := p.Best.clone()
		p.Best = &b
	}
	if p.ParetoOptimal != nil {
		front := make([]Solution, len(p.ParetoOptimal))
		for i, s := range p.ParetoOptimal {
			front[i] = s.clone()
		}
		p.ParetoOptimal = front
	}
	return p
}

// Statistics of a finished job.
type Statistics struct {
	genetic.Statistics
	FrontSize      int
	Convergence    pareto.Convergence
	HasConvergence bool
}

// Result is the state of a job. BestMission and ParetoMissions are only set once completed.
type Result struct {
	JobID          uuid.UUID
	MissionID      uuid.UUID
	Status         Status
	Config         Config
	BestMission    *astroforge.Mission
	ParetoMissions []*astroforge.Mission
	Statistics     Statistics
	Progress       Progress
	CreatedAt      time.Time
	StartedAt      time.Time
	CompletedAt    time.Time
	Error          string
}

func (r Result) clone() Result {
	if r.BestMission != nil {
		r.BestMission = r.BestMission.Clone()
	}
	if r.ParetoMissions != nil {
		missions := make([]*astroforge.Mission, len(r.ParetoMissions))
		for i, m := range r.ParetoMissions {
			missions[i] = m.Clone()
		}
		r.ParetoMissions = missions
	}
	r.Progress = r.Progress.clone()
	return r
}

// job is a registry entry. Its fields are guarded by the orchestrator mutex.
type job struct {
	result Result
	base   *astroforge.Mission
	cancel func()
	// cancelled is set by Cancel so the runner does not overwrite the status.
	cancelled bool
}
