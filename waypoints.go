package astroforge

import (
	"math"
)

// Waypoint is one sample of a heliocentric transfer. Positions are in km and
// velocities in km/s.
type Waypoint struct {
	TimeDays float64
	Position [3]float64
	Velocity [3]float64
}

// TransferProfile is the sampled transfer arc produced by a TransferStrategy.
type TransferProfile struct {
	Type          TransferType
	Waypoints     []Waypoint
	TransferDays  float64
	TotalDistance float64 // m
}

// TransferStrategy generates the waypoints of a transfer between two
// heliocentric radii, starting at startDays.
type TransferStrategy interface {
	Profile(r1, r2, startDays float64) TransferProfile
}

// StrategyFor returns the waypoint strategy of the transfer type.
// Gravity assists are flown as direct transfers.
func StrategyFor(tt TransferType) TransferStrategy {
	switch tt {
	case Hohmann:
		return hohmannArc{}
	case BiElliptic:
		return biEllipticArc{}
	default:
		return directArc{}
	}
}

// meters returns a waypoint vector in SI units.
func meters(v [3]float64) []float64 {
	return []float64{v[0] * 1000, v[1] * 1000, v[2] * 1000}
}

// conicArc samples n+1 points along a conic of semi major axis a and
// eccentricity e, sweeping sweep·t radians for t in [0, 1].
// When skipFirst is set, the t=0 sample is omitted.
func conicArc(a, e, sweep, t0, tof float64, n int, skipFirst bool) []Waypoint {
	μ := Sun.μ
	vScale := math.Sqrt(μ/a) / 1000
	first := 0
	if skipFirst {
		first = 1
	}
	wps := make([]Waypoint, 0, n+1-first)
	for i := first; i <= n; i++ {
		tFrac := float64(i) / float64(n)
		θ := sweep * tFrac
		sθ, cθ := math.Sincos(θ)
		r := a * (1 - e*e) / (1 + e*cθ)
		wps = append(wps, Waypoint{
			TimeDays: t0 + tof/day*tFrac,
			Position: [3]float64{r * cθ / 1000, r * sθ / 1000, 0},
			Velocity: [3]float64{-vScale * sθ, vScale * (e + cθ), 0},
		})
	}
	return wps
}

type hohmannArc struct{}

func (hohmannArc) Profile(r1, r2, t0 float64) TransferProfile {
	a, _ := Radii2ae(math.Max(r1, r2), math.Min(r1, r2))
	tof := transferSeconds(r1, r2, Hohmann, Sun.μ)
	return TransferProfile{
		Type:          Hohmann,
		Waypoints:     conicArc(a, 0.1, math.Pi, t0, tof, 50, false),
		TransferDays:  tof / day,
		TotalDistance: math.Pi * a,
	}
}

type biEllipticArc struct{}

func (biEllipticArc) Profile(r1, r2, t0 float64) TransferProfile {
	rB := biEllipticRadiusFac * math.Max(r1, r2)
	a1, _ := Radii2ae(rB, r1)
	a2, _ := Radii2ae(rB, r2)
	t1 := math.Pi * math.Sqrt(a1*a1*a1/Sun.μ)
	t2 := math.Pi * math.Sqrt(a2*a2*a2/Sun.μ)
	wps := conicArc(a1, 0.1, math.Pi, t0, t1, 25, false)
	wps = append(wps, conicArc(a2, 0.1, math.Pi, t0+t1/day, t2, 25, true)...)
	return TransferProfile{
		Type:          BiElliptic,
		Waypoints:     wps,
		TransferDays:  (t1 + t2) / day,
		TotalDistance: math.Pi * (a1 + a2),
	}
}

type directArc struct{}

func (directArc) Profile(r1, r2, t0 float64) TransferProfile {
	a := 0.8 * (r1 + r2) / 2
	tof := 0.7 * math.Pi * math.Sqrt(a*a*a/Sun.μ)
	return TransferProfile{
		Type:          Direct,
		Waypoints:     conicArc(a, 0.2, 0.7*math.Pi, t0, tof, 30, false),
		TransferDays:  tof / day,
		TotalDistance: 0.7 * math.Pi * a,
	}
}
