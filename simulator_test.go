package astroforge

import (
	"context"
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSimulateEarthToMars(t *testing.T) {
	sim := NewSimulator(NewFuelModel(), nil)
	m := earthToMars()
	res, err := sim.Simulate(context.Background(), m, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success < 0.5 || res.Success > 1 {
		t.Fatalf("success probability %f outside [0.5, 1]", res.Success)
	}
	if res.Fuel > m.Spacecraft.FuelCapacity {
		t.Fatalf("consumed %f kg out of %f kg", res.Fuel, m.Spacecraft.FuelCapacity)
	}
	expSuccess := 0.95 - 2*0.02 - 4700.0/10000*0.2 - 259.0/1000*0.05
	if !scalar.EqualWithinAbs(res.Success, expSuccess, 1e-9) {
		t.Fatalf("success %f != %f", res.Success, expSuccess)
	}
	expCost := 50e6 + 5000*15000 + 4700*8000 + 259*150000 + 2*2e6
	if !scalar.EqualWithinAbs(res.Cost, expCost, 1e-3) {
		t.Fatalf("cost %f != %f", res.Cost, expCost)
	}
	if res.DurationDays != 259 || res.MissionID != m.ID {
		t.Fatalf("unexpected result header %+v", res)
	}
	if risk, _ := res.Metric(MetricRisk); !scalar.EqualWithinAbs(risk, 1-expSuccess, 1e-12) {
		t.Fatalf("risk score %f", risk)
	}

	report := res.Validation()
	if report.Valid || len(report.Errors) != 1 || !scalar.EqualWithinAbs(report.Feasibility, 0.3, 1e-12) {
		t.Fatalf("unexpected validation report %+v", report)
	}

	traj, ok := res.Trajectory()
	if !ok {
		t.Fatal("detailed simulation without trajectory")
	}
	if len(traj.Waypoints) != 51 || traj.Type != Hohmann {
		t.Fatalf("%d waypoints for a %s transfer", len(traj.Waypoints), traj.Type)
	}
	// The first waypoint sits at the periapsis of the recovered transfer orbit.
	if traj.TransferOrbit == nil || traj.TransferOrbit.Eccentricity() >= 1 {
		t.Fatalf("unexpected transfer orbit %v", traj.TransferOrbit)
	}
	expRp := 0.9 * (Earth.OrbitalRadius() + Mars.OrbitalRadius()) / 2
	if !scalar.EqualWithinRel(traj.TransferOrbit.Periapsis(), expRp, 1e-9) {
		t.Fatalf("transfer periapsis %f != %f", traj.TransferOrbit.Periapsis(), expRp)
	}
	if len(traj.Maneuvers) != 2 || traj.Maneuvers[1].Name != "Mars orbit insertion" {
		t.Fatalf("maneuver details %+v", traj.Maneuvers)
	}
	timeline := res.FuelTimeline()
	if len(timeline) != 2 {
		t.Fatalf("fuel timeline %+v", timeline)
	}
	for _, s := range timeline {
		if s.Remaining < 0 || s.Cumulative > m.Spacecraft.FuelCapacity {
			t.Fatalf("fuel sample out of bounds %+v", s)
		}
	}

	categories := map[string]bool{}
	for _, rf := range res.RiskFactors() {
		categories[rf.Category] = true
	}
	if !categories["Fuel Management"] || len(categories) != 1 {
		t.Fatalf("unexpected risks %v", categories)
	}

	p, ok := sim.Progress(res.SimulationID)
	if !ok {
		t.Fatal("finished simulation progress not retained")
	}
	if p.Phase != PhaseCompleted || p.Percent != 100 || len(p.Completed) != 6 {
		t.Fatalf("unexpected progress %+v", p)
	}
}

func TestSimulateNotDetailed(t *testing.T) {
	sim := NewSimulator(NewFuelModel(), nil)
	res, err := sim.Simulate(context.Background(), earthToMars(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Trajectory(); ok {
		t.Fatal("trajectory returned for a summary simulation")
	}
	if len(res.FuelTimeline()) == 0 {
		t.Fatal("fuel timeline is always included")
	}
}

func TestSimulateStrategies(t *testing.T) {
	sim := NewSimulator(NewFuelModel(), nil)
	for tt, n := range map[TransferType]int{Hohmann: 51, BiElliptic: 51, Direct: 31, GravityAssist: 31} {
		m := earthToMars()
		m.Trajectory.Transfer = tt
		res, err := sim.Simulate(context.Background(), m, true)
		if err != nil {
			t.Fatal(err)
		}
		traj, _ := res.Trajectory()
		if len(traj.Waypoints) != n {
			t.Fatalf("%s: %d waypoints instead of %d", tt, len(traj.Waypoints), n)
		}
		for i := 1; i < len(traj.Waypoints); i++ {
			if traj.Waypoints[i].TimeDays <= traj.Waypoints[i-1].TimeDays {
				t.Fatalf("%s: waypoints not time ordered at %d", tt, i)
			}
		}
	}
}

func TestSimulateRisks(t *testing.T) {
	sim := NewSimulator(NewFuelModel(), nil)
	m := earthToMars()
	m.Trajectory.Target = BodyJupiter
	m.Trajectory.FlightTime = 1200
	m.Trajectory.TotalΔv = 12800
	m.Trajectory.Maneuvers = nil
	for i := 0; i < 11; i++ {
		m.Trajectory.Maneuvers = append(m.Trajectory.Maneuvers, Maneuver{Name: "TCM", Δv: 0, Timestamp: float64(i)})
	}
	res, err := sim.Simulate(context.Background(), m, false)
	if err != nil {
		t.Fatal(err)
	}
	categories := map[string]bool{}
	for _, rf := range res.RiskFactors() {
		categories[rf.Category] = true
	}
	for _, c := range []string{"Mission Duration", "Mission Complexity", "Propulsion", "Communication"} {
		if !categories[c] {
			t.Fatalf("missing %s risk in %v", c, categories)
		}
	}
	if categories["Fuel Management"] {
		t.Fatal("no fuel was used")
	}
	if !scalar.EqualWithinAbs(res.TotalRiskProbability(), 0.2+0.25+0.15+0.4, 1e-12) {
		t.Fatalf("total risk probability %f", res.TotalRiskProbability())
	}
	if res.Success != 0.5 {
		t.Fatalf("success should be floored at 0.5, got %f", res.Success)
	}
}

func TestSimulateUnsupportedBody(t *testing.T) {
	sim := NewSimulator(NewFuelModel(), nil)
	m := earthToMars()
	m.Trajectory.Target = BodyAsteroidBelt
	_, err := sim.Simulate(context.Background(), m, true)
	var perr *PhysicsError
	if !errors.As(err, &perr) || !errors.Is(err, ErrUnsupportedBody) {
		t.Fatalf("expected an unsupported body physics error, got %v", err)
	}
}

func TestSimulateCancelled(t *testing.T) {
	sim := NewSimulator(NewFuelModel(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Simulate(ctx, earthToMars(), true); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
