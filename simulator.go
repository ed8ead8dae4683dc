package astroforge

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/google/uuid"
)

// Simulation phases, in order.
const (
	PhaseInitializing = "initializing"
	PhaseValidation   = "validation"
	PhaseTrajectory   = "trajectory_calculation"
	PhaseFuel         = "fuel_analysis"
	PhasePerformance  = "performance_metrics"
	PhaseRisk         = "risk_assessment"
	PhaseFinalization = "finalization"
	PhaseCompleted    = "completed"
	PhaseError        = "error"
)

// Performance metric keys of a SimulationResult.
const (
	MetricTotalΔv            = "total_delta_v"
	MetricEfficiency         = "efficiency_score"
	MetricRisk               = "risk_score"
	MetricTrajectoryAccuracy = "trajectory_accuracy"
	MetricReliability        = "system_reliability"
	MetricCommCoverage       = "communication_coverage"
	MetricPowerMargin        = "power_margin"
	MetricThermalMargin      = "thermal_margin"
)

const (
	baseSuccess      = 0.95
	minSuccess       = 0.5
	baseCost         = 50e6
	costPerKg        = 15000.0
	costPerΔv        = 8000.0
	costPerDay       = 150000.0
	costPerManeuver  = 2e6
	progressHistory  = 256
	lowTWRWarning    = 0.05
	lowFuelMargin    = 0.1
	longMissionDays  = 1000
	manyManeuvers    = 10
	highΔv           = 12000
	powerUtilization = 0.7
	commEfficiency   = 0.85
)

// ValidationReport is the non fatal outcome of the validation phase.
type ValidationReport struct {
	Valid       bool
	Warnings    []string
	Errors      []string
	Feasibility float64
}

// ManeuverDetail is the burn breakdown of one maneuver.
type ManeuverDetail struct {
	Index     int
	Name      string
	Δv        float64
	BurnTime  float64 // s
	Timestamp float64 // days
	Fuel      float64 // kg
}

// AccuracyMetrics is the navigation error budget of a trajectory.
type AccuracyMetrics struct {
	PositionKm  float64
	VelocityMs  float64
	TimingS     float64
	ErrorBudget float64
}

// TrajectoryData is the detailed output of the trajectory phase.
type TrajectoryData struct {
	TransferProfile
	// TransferOrbit is the heliocentric orbit recovered from the state of the first waypoint.
	TransferOrbit *Orbit
	Maneuvers     []ManeuverDetail
	Accuracy      AccuracyMetrics
}

// ManeuverFuel is the fuel accounting of one maneuver.
type ManeuverFuel struct {
	Maneuver  string
	FuelUsed  float64
	BurnTime  float64
	Remaining float64
}

// FuelSample is one point of the fuel timeline.
type FuelSample struct {
	TimeDays   float64
	Remaining  float64
	Cumulative float64
}

// FuelAnalysis is the output of the fuel phase.
type FuelAnalysis struct {
	Total             float64
	ByManeuver        []ManeuverFuel
	Margin            float64
	Timeline          []FuelSample
	ThrustUtilization float64
}

// Performance holds the aggregate mission performance.
type Performance struct {
	TotalΔv            float64
	Fuel               float64
	DurationDays       float64
	Success            float64
	Cost               float64
	Efficiency         float64
	Risk               float64
	TrajectoryAccuracy float64
	Reliability        float64
	CommCoverage       float64
	PowerMargin        float64
	ThermalMargin      float64
}

// RiskFactor is one identified mission risk.
type RiskFactor struct {
	Category    string
	Description string
	Probability float64
	Impact      RiskLevel
	Mitigation  string
}

// Progress is a snapshot of a simulation in flight.
type Progress struct {
	SimulationID uuid.UUID
	Percent      float64
	Phase        string
	Completed    []string
	Validation   *ValidationReport
	Trajectory   *TrajectoryData
	Fuel         *FuelAnalysis
	Performance  *Performance
	Risks        []RiskFactor
	Errors       []string
	Started      time.Time
}

func (p *Progress) enter(phase string, pct float64) {
	p.Phase = phase
	p.Percent = pct
}

func (p *Progress) done(phase string) {
	p.Completed = append(p.Completed, phase)
}

func (p Progress) snapshot() Progress {
	p.Completed = append([]string(nil), p.Completed...)
	p.Risks = append([]RiskFactor(nil), p.Risks...)
	p.Errors = append([]string(nil), p.Errors...)
	return p
}

// Simulator runs the six phase mission simulation. It is safe for concurrent use.
type Simulator struct {
	fuel   FuelModel
	logger kitlog.Logger

	mu       sync.RWMutex
	progress map[uuid.UUID]*Progress
	order    []uuid.UUID // finished simulations, oldest first
}

// NewSimulator returns a simulator using the provided fuel model. A nil logger disables logging.
func NewSimulator(fuel FuelModel, logger kitlog.Logger) *Simulator {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Simulator{fuel: fuel, logger: logger, progress: make(map[uuid.UUID]*Progress)}
}

// Progress returns the progress of an in flight or recently finished simulation.
func (s *Simulator) Progress(id uuid.UUID) (Progress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[id]
	if !ok {
		return Progress{}, false
	}
	return p.snapshot(), true
}

func (s *Simulator) track(p *Progress) {
	s.mu.Lock()
	s.progress[p.SimulationID] = p
	s.mu.Unlock()
}

// update applies f to the progress under the lock.
func (s *Simulator) update(p *Progress, f func(*Progress)) {
	s.mu.Lock()
	f(p)
	s.mu.Unlock()
}

// retire keeps at most progressHistory finished simulations.
func (s *Simulator) retire(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, id)
	for len(s.order) > progressHistory {
		delete(s.progress, s.order[0])
		s.order = s.order[1:]
	}
}

// Simulate runs the full simulation of the mission. Trajectory waypoints are only
// kept in the result when detailed is set. A PhysicsError aborts the simulation.
func (s *Simulator) Simulate(ctx context.Context, m *Mission, detailed bool) (SimulationResult, error) {
	p := &Progress{SimulationID: uuid.New(), Phase: PhaseInitializing, Started: time.Now().UTC()}
	s.track(p)
	defer s.retire(p.SimulationID)

	res, err := s.run(ctx, m, detailed, p)
	if err != nil {
		s.update(p, func(p *Progress) {
			p.Errors = append(p.Errors, err.Error())
			p.Phase = PhaseError
		})
		s.logger.Log("level", "error", "mission", m.Name, "simulation", p.SimulationID, "err", err)
		return SimulationResult{}, fmt.Errorf("simulate %s: %w", m.Name, err)
	}
	return res, nil
}

func (s *Simulator) run(ctx context.Context, m *Mission, detailed bool, p *Progress) (SimulationResult, error) {
	var (
		report ValidationReport
		traj   TrajectoryData
		fuel   FuelAnalysis
		perf   Performance
		risks  []RiskFactor
	)
	phases := []struct {
		name string
		pct  float64
		run  func() error
	}{
		{PhaseValidation, 10, func() error {
			report = s.validate(m)
			s.update(p, func(p *Progress) { p.Validation = &report })
			return nil
		}},
		{PhaseTrajectory, 30, func() (err error) {
			if traj, err = s.trajectory(m); err != nil {
				return err
			}
			s.update(p, func(p *Progress) { p.Trajectory = &traj })
			return nil
		}},
		{PhaseFuel, 50, func() error {
			fuel = analyzeFuel(m, traj)
			s.update(p, func(p *Progress) { p.Fuel = &fuel })
			return nil
		}},
		{PhasePerformance, 70, func() error {
			perf = s.performance(m, traj, fuel)
			s.update(p, func(p *Progress) { p.Performance = &perf })
			return nil
		}},
		{PhaseRisk, 85, func() error {
			risks = assessRisks(m, perf)
			s.update(p, func(p *Progress) { p.Risks = risks })
			return nil
		}},
	}
	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			return SimulationResult{}, err
		}
		s.update(p, func(p *Progress) { p.enter(ph.name, ph.pct) })
		if err := ph.run(); err != nil {
			return SimulationResult{}, err
		}
		s.update(p, func(p *Progress) { p.done(ph.name) })
	}

	s.update(p, func(p *Progress) { p.enter(PhaseFinalization, 95) })
	res := newSimulationResult(m, p.SimulationID, report, traj, fuel, perf, risks, detailed)
	s.update(p, func(p *Progress) {
		p.enter(PhaseCompleted, 100)
		p.done(PhaseFinalization)
	})
	s.logger.Log("level", "debug", "mission", m.Name, "simulation", p.SimulationID,
		"success", perf.Success, "fuel(kg)", perf.Fuel, "cost", perf.Cost)
	return res, nil
}

func (s *Simulator) validate(m *Mission) ValidationReport {
	r := ValidationReport{Valid: true, Feasibility: 1}
	sc, traj := m.Spacecraft, m.Trajectory
	if have := sc.TheoreticalΔv(); have < traj.TotalΔv {
		r.Errors = append(r.Errors, fmt.Sprintf("Insufficient delta-v: need %.0f m/s, have %.0f m/s", traj.TotalΔv, have))
		r.Valid = false
		r.Feasibility *= 0.3
	}
	if sc.ThrustToWeight() < lowTWRWarning {
		r.Warnings = append(r.Warnings, "Very low thrust-to-weight ratio may cause extended burn times")
		r.Feasibility *= 0.8
	}
	if traj.FlightTime > m.Constraints.MaxDuration {
		r.Errors = append(r.Errors, fmt.Sprintf("Mission duration exceeds constraints: %.0f > %.0f days", traj.FlightTime, m.Constraints.MaxDuration))
		r.Valid = false
		r.Feasibility *= 0.5
	}
	if !traj.Chronological() {
		r.Errors = append(r.Errors, "Maneuvers are not in chronological order")
		r.Valid = false
	}
	return r
}

func (s *Simulator) trajectory(m *Mission) (TrajectoryData, error) {
	dep, err := m.Trajectory.Departure.Object()
	if err != nil {
		return TrajectoryData{}, err
	}
	tgt, err := m.Trajectory.Target.Object()
	if err != nil {
		return TrajectoryData{}, err
	}
	var start float64
	if len(m.Trajectory.Maneuvers) > 0 {
		start = m.Trajectory.Maneuvers[0].Timestamp
	}
	data := TrajectoryData{
		TransferProfile: StrategyFor(m.Trajectory.Transfer).Profile(dep.a, tgt.a, start),
		Accuracy:        AccuracyMetrics{PositionKm: 10, VelocityMs: 0.1, TimingS: 60, ErrorBudget: 0.05},
	}
	if len(data.Waypoints) > 0 {
		wp := data.Waypoints[0]
		o, err := NewOrbitFromRV(meters(wp.Position), meters(wp.Velocity), Sun)
		if err != nil {
			return TrajectoryData{}, err
		}
		data.TransferOrbit = o
	}
	for i, mnvr := range m.Trajectory.Maneuvers {
		data.Maneuvers = append(data.Maneuvers, ManeuverDetail{
			Index:     i,
			Name:      mnvr.Name,
			Δv:        mnvr.Δv,
			BurnTime:  BurnTime(mnvr.Δv, m.Spacecraft),
			Timestamp: mnvr.Timestamp,
			Fuel:      s.fuel.Consumption(mnvr.Δv, m.Spacecraft),
		})
	}
	return data, nil
}

// analyzeFuel never draws more than the fuel left in the tanks.
func analyzeFuel(m *Mission, traj TrajectoryData) FuelAnalysis {
	capacity := m.Spacecraft.FuelCapacity
	current := capacity
	var fa FuelAnalysis
	var burn float64
	for _, md := range traj.Maneuvers {
		used := math.Min(md.Fuel, current)
		fa.ByManeuver = append(fa.ByManeuver, ManeuverFuel{md.Name, used, md.BurnTime, current - used})
		fa.Timeline = append(fa.Timeline, FuelSample{md.Timestamp, current - used, fa.Total + used})
		current -= used
		fa.Total += used
		burn += md.BurnTime
	}
	if capacity > 0 {
		fa.Margin = current / capacity
	}
	if seconds := m.Trajectory.FlightTime * day; seconds > 0 {
		fa.ThrustUtilization = burn / seconds
	}
	return fa
}

func (s *Simulator) performance(m *Mission, traj TrajectoryData, fa FuelAnalysis) Performance {
	n := float64(len(m.Trajectory.Maneuvers))
	Δv := m.Trajectory.TotalΔv
	days := m.Trajectory.FlightTime

	success := baseSuccess - math.Min(n*0.02, 0.2) - math.Min(Δv/10000*0.2, 0.4) - math.Min(days/1000*0.05, 0.1)
	success = math.Max(success, minSuccess)

	cost := baseCost + m.Spacecraft.Mass*costPerKg + Δv*costPerΔv + days*costPerDay + n*costPerManeuver

	efficiency := 1.0
	if fa.Total > 0 {
		ideal := FuelModel{Efficiency: 1}.Consumption(Δv, m.Spacecraft)
		efficiency = math.Min(ideal/fa.Total, 1)
	}
	risk := 1 - success
	return Performance{
		TotalΔv:            Δv,
		Fuel:               fa.Total,
		DurationDays:       days,
		Success:            success,
		Cost:               cost,
		Efficiency:         efficiency,
		Risk:               risk,
		TrajectoryAccuracy: traj.Accuracy.ErrorBudget,
		Reliability:        0.90 - risk*0.1,
		CommCoverage:       0.85,
		PowerMargin:        0.20,
		ThermalMargin:      0.15,
	}
}

func assessRisks(m *Mission, perf Performance) []RiskFactor {
	var risks []RiskFactor
	var margin float64
	if capacity := m.Spacecraft.FuelCapacity; capacity > 0 {
		margin = (capacity - perf.Fuel) / capacity
	}
	if margin < lowFuelMargin {
		risks = append(risks, RiskFactor{
			Category:    "Fuel Management",
			Description: fmt.Sprintf("Low fuel margin (%.1f%%), limited contingency capability", margin*100),
			Probability: 0.3,
			Impact:      RiskHigh,
			Mitigation:  "Consider reducing mission scope or increasing fuel capacity",
		})
	}
	if perf.DurationDays > longMissionDays {
		risks = append(risks, RiskFactor{
			Category:    "Mission Duration",
			Description: "Extended mission duration increases system degradation risk",
			Probability: 0.2,
			Impact:      RiskMedium,
			Mitigation:  "Implement robust system health monitoring and redundancy",
		})
	}
	if len(m.Trajectory.Maneuvers) > manyManeuvers {
		risks = append(risks, RiskFactor{
			Category:    "Mission Complexity",
			Description: "High number of maneuvers increases operational risk",
			Probability: 0.25,
			Impact:      RiskMedium,
			Mitigation:  "Simplify trajectory or improve navigation accuracy",
		})
	}
	if perf.TotalΔv > highΔv {
		risks = append(risks, RiskFactor{
			Category:    "Propulsion",
			Description: "High delta-v requirement stresses propulsion system",
			Probability: 0.15,
			Impact:      RiskHigh,
			Mitigation:  "Consider alternative trajectory or upgraded propulsion",
		})
	}
	if t := m.Trajectory.Target; t == BodyJupiter || t == BodySaturn {
		risks = append(risks, RiskFactor{
			Category:    "Communication",
			Description: "Long communication delays and reduced signal strength",
			Probability: 0.4,
			Impact:      RiskMedium,
			Mitigation:  "Implement autonomous operation capabilities",
		})
	}
	return risks
}
