package astroforge

import (
	"fmt"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !scalar.EqualWithinAbs(a[i], b[i], 1e-6) && !scalar.EqualWithinRel(a[i], b[i], 1e-6) {
			return false
		}
	}
	return true
}

func anglesEqual(a, b float64) (bool, error) {
	if scalar.EqualWithinAbs(angleDiff(a, b), 0, 1e-6) {
		return true, nil
	}
	return false, fmt.Errorf("%f != %f", a, b)
}

// earthToMars is the reference Earth to Mars Hohmann mission.
func earthToMars() *Mission {
	launch := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	sc := SpacecraftConfig{
		Vehicle:      Probe,
		Name:         "Red Pathfinder",
		Mass:         5000,
		FuelCapacity: 3000,
		Thrust:       4000,
		Isp:          350,
		PayloadMass:  800,
		Power:        2500,
	}
	traj := TrajectoryPlan{
		LaunchWindow: DateRange{launch, launch.Add(30 * 24 * time.Hour)},
		Departure:    BodyEarth,
		Target:       BodyMars,
		Transfer:     Hohmann,
		Maneuvers: []Maneuver{
			{Name: "Trans-Mars injection", Δv: 3600, Duration: 1800, Timestamp: 0},
			{Name: "Mars orbit insertion", Δv: 1100, Duration: 900, Timestamp: 259},
		},
		TotalΔv:    4700,
		FlightTime: 259,
	}
	m := NewMission("Earth to Mars", sc, traj)
	m.Description = "Reference Hohmann transfer to Mars"
	m.Objectives = []string{"Reach Mars orbit", "Relay surface data"}
	return m
}

func withinPct(a, b, pct float64) bool {
	return math.Abs(a-b) <= math.Abs(b)*pct/100
}
