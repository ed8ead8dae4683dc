package astroforge

import (
	"time"

	"github.com/google/uuid"
)

// SimulationResult is the immutable outcome of one simulation.
type SimulationResult struct {
	MissionID    uuid.UUID
	SimulationID uuid.UUID
	Success      float64
	DurationDays float64
	Fuel         float64 // kg
	Cost         float64 // USD
	Timestamp    time.Time

	validation ValidationReport
	risks      []RiskFactor
	metrics    map[string]float64
	trajectory *TrajectoryData
	timeline   []FuelSample
	system     map[string]float64
}

func newSimulationResult(m *Mission, id uuid.UUID, report ValidationReport, traj TrajectoryData, fa FuelAnalysis, perf Performance, risks []RiskFactor, detailed bool) SimulationResult {
	res := SimulationResult{
		MissionID:    m.ID,
		SimulationID: id,
		Success:      perf.Success,
		DurationDays: perf.DurationDays,
		Fuel:         perf.Fuel,
		Cost:         perf.Cost,
		Timestamp:    time.Now().UTC(),
		validation:   report,
		risks:        append([]RiskFactor(nil), risks...),
		metrics: map[string]float64{
			MetricTotalΔv:            perf.TotalΔv,
			MetricEfficiency:         perf.Efficiency,
			MetricRisk:               perf.Risk,
			MetricTrajectoryAccuracy: perf.TrajectoryAccuracy,
			MetricReliability:        perf.Reliability,
			MetricCommCoverage:       perf.CommCoverage,
			MetricPowerMargin:        perf.PowerMargin,
			MetricThermalMargin:      perf.ThermalMargin,
		},
		timeline: append([]FuelSample(nil), fa.Timeline...),
		system: map[string]float64{
			"thrust_utilization":       fa.ThrustUtilization,
			"power_utilization":        powerUtilization,
			"communication_efficiency": commEfficiency,
		},
	}
	if detailed {
		t := traj
		t.Waypoints = append([]Waypoint(nil), traj.Waypoints...)
		t.Maneuvers = append([]ManeuverDetail(nil), traj.Maneuvers...)
		res.trajectory = &t
	}
	return res
}

// Validation returns the report of the validation phase.
func (r SimulationResult) Validation() ValidationReport {
	v := r.validation
	v.Warnings = append([]string(nil), v.Warnings...)
	v.Errors = append([]string(nil), v.Errors...)
	return v
}

// RiskFactors returns the identified risks.
func (r SimulationResult) RiskFactors() []RiskFactor {
	return append([]RiskFactor(nil), r.risks...)
}

// Metric returns the performance metric of that key.
func (r SimulationResult) Metric(key string) (float64, bool) {
	v, ok := r.metrics[key]
	return v, ok
}

// Metrics returns a copy of all performance metrics.
func (r SimulationResult) Metrics() map[string]float64 {
	return copyMap(r.metrics)
}

// SystemPerformance returns a copy of the system utilization figures.
func (r SimulationResult) SystemPerformance() map[string]float64 {
	return copyMap(r.system)
}

// Trajectory returns the detailed trajectory, only available for detailed simulations.
func (r SimulationResult) Trajectory() (TrajectoryData, bool) {
	if r.trajectory == nil {
		return TrajectoryData{}, false
	}
	t := *r.trajectory
	t.Waypoints = append([]Waypoint(nil), t.Waypoints...)
	t.Maneuvers = append([]ManeuverDetail(nil), t.Maneuvers...)
	return t, true
}

// FuelTimeline returns the remaining and cumulative fuel after each maneuver.
func (r SimulationResult) FuelTimeline() []FuelSample {
	return append([]FuelSample(nil), r.timeline...)
}

// TotalRiskProbability returns the sum of all risk factor probabilities.
func (r SimulationResult) TotalRiskProbability() (total float64) {
	for _, rf := range r.risks {
		total += rf.Probability
	}
	return
}

func copyMap(m map[string]float64) map[string]float64 {
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
