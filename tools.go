package astroforge

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// TransferType defines the kind of orbit transfer of a trajectory.
type TransferType uint8

const (
	// Hohmann is the two burn minimum energy transfer.
	Hohmann TransferType = iota + 1
	// BiElliptic is the three burn transfer through an intermediate apoapsis.
	BiElliptic
	// Direct is a faster, more expensive transfer.
	Direct
	// GravityAssist is flown with the direct strategy.
	GravityAssist
)

const (
	parkingAltitude     = 200e3
	biEllipticRatio     = 11.94
	biEllipticRadiusFac = 3
	maxWindowDuration   = 30 * day
)

func (t TransferType) String() string {
	switch t {
	case Hohmann:
		return "hohmann"
	case BiElliptic:
		return "bi_elliptic"
	case Direct:
		return "direct"
	case GravityAssist:
		return "gravity_assist"
	default:
		return fmt.Sprintf("transfer(%d)", uint8(t))
	}
}

// TransferTypeFromString returns the transfer type from its name.
func TransferTypeFromString(name string) (TransferType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hohmann":
		return Hohmann, nil
	case "bi_elliptic", "bi-elliptic", "bielliptic":
		return BiElliptic, nil
	case "direct":
		return Direct, nil
	case "gravity_assist", "gravity-assist":
		return GravityAssist, nil
	}
	return 0, fmt.Errorf("unknown transfer type '%s'", name)
}

// HohmannΔv computes the two burns of a Hohmann transfer between circular orbits of radii r1 and r2.
func HohmannΔv(r1, r2 float64, body CelestialObject) (Δv1, Δv2, total float64) {
	μ := body.μ
	v1 := math.Sqrt(μ / r1)
	v2 := math.Sqrt(μ / r2)
	aT := (r1 + r2) / 2
	vT1 := math.Sqrt(μ * (2/r1 - 1/aT))
	vT2 := math.Sqrt(μ * (2/r2 - 1/aT))
	Δv1 = math.Abs(vT1 - v1)
	Δv2 = math.Abs(v2 - vT2)
	return Δv1, Δv2, Δv1 + Δv2
}

// BiEllipticΔv computes the three burns of a bi-elliptic transfer through rB.
// A non positive rB defaults to three times the larger radius.
func BiEllipticΔv(r1, r2, rB float64, body CelestialObject) (Δv1, Δv2, Δv3, total float64) {
	if rB <= 0 {
		rB = biEllipticRadiusFac * math.Max(r1, r2)
	}
	μ := body.μ
	v1 := math.Sqrt(μ / r1)
	v2 := math.Sqrt(μ / r2)
	a1 := (r1 + rB) / 2
	a2 := (rB + r2) / 2
	vT1 := math.Sqrt(μ * (2/r1 - 1/a1))
	vB1 := math.Sqrt(μ * (2/rB - 1/a1))
	vB2 := math.Sqrt(μ * (2/rB - 1/a2))
	vT2 := math.Sqrt(μ * (2/r2 - 1/a2))
	Δv1 = math.Abs(vT1 - v1)
	Δv2 = math.Abs(vB2 - vB1)
	Δv3 = math.Abs(v2 - vT2)
	return Δv1, Δv2, Δv3, Δv1 + Δv2 + Δv3
}

// PlaneChangeΔv returns the cost of rotating the orbit plane by Δi at velocity v.
func PlaneChangeΔv(v, Δi float64) float64 {
	return 2 * v * math.Sin(Δi/2)
}

// EscapeVelocity returns the escape velocity at radius r.
func EscapeVelocity(r float64, body CelestialObject) float64 {
	return math.Sqrt(2 * body.μ / r)
}

// InterplanetaryBudget is a patched conic Δv estimate.
type InterplanetaryBudget struct {
	Escape, Helio1, Helio2, Capture float64
}

// Total returns the sum of all the legs.
func (b InterplanetaryBudget) Total() float64 {
	return b.Escape + b.Helio1 + b.Helio2 + b.Capture
}

// InterplanetaryΔv estimates the Δv to go from a 200 km parking orbit around dep to
// a 200 km orbit around tgt, with a heliocentric Hohmann leg between both orbital radii.
func InterplanetaryΔv(dep, tgt CelestialBody) (InterplanetaryBudget, error) {
	depObj, err := dep.Object()
	if err != nil {
		return InterplanetaryBudget{}, err
	}
	tgtObj, err := tgt.Object()
	if err != nil {
		return InterplanetaryBudget{}, err
	}
	var b InterplanetaryBudget
	b.Helio1, b.Helio2, _ = HohmannΔv(depObj.a, tgtObj.a, Sun)
	b.Escape = hyperbolicExcess(depObj)
	b.Capture = hyperbolicExcess(tgtObj)
	return b, nil
}

func hyperbolicExcess(body CelestialObject) float64 {
	r := body.Radius + parkingAltitude
	return EscapeVelocity(r, body) - math.Sqrt(body.μ/r)
}

// TransferTime returns the time of flight of the transfer between r1 and r2.
// Unknown transfer types are timed as Hohmann transfers.
func TransferTime(r1, r2 float64, tt TransferType, body CelestialObject) time.Duration {
	return time.Duration(transferSeconds(r1, r2, tt, body.μ) * float64(time.Second))
}

func transferSeconds(r1, r2 float64, tt TransferType, μ float64) float64 {
	halfPeriod := func(a float64) float64 {
		return math.Pi * math.Sqrt(a*a*a/μ)
	}
	switch tt {
	case BiElliptic:
		rB := biEllipticRadiusFac * math.Max(r1, r2)
		return halfPeriod((r1+rB)/2) + halfPeriod((rB+r2)/2)
	case Direct:
		return 0.7 * halfPeriod((r1+r2)/2)
	default:
		return halfPeriod((r1 + r2) / 2)
	}
}

// OptimalTransfer returns the cheapest of Hohmann and bi-elliptic between r1 and r2.
// Bi-elliptic is only considered past the classical radius ratio of 11.94.
func OptimalTransfer(r1, r2 float64, body CelestialObject) (TransferType, float64) {
	_, _, hohmann := HohmannΔv(r1, r2, body)
	ratio := r2 / r1
	if r1 > r2 {
		ratio = r1 / r2
	}
	if ratio > biEllipticRatio {
		if _, _, _, bi := BiEllipticΔv(r1, r2, 0, body); bi < hohmann {
			return BiElliptic, bi
		}
	}
	return Hohmann, hohmann
}

// LaunchWindow is a heuristic estimate of the next departure opportunity.
type LaunchWindow struct {
	Synodic   time.Duration // zero when the periods are equal (no recurrence)
	Optimal   time.Time
	OptimalJD float64
	Duration  time.Duration
	Recurring bool
}

// NewLaunchWindow estimates the launch window from the synodic period of both bodies.
// The optimal launch is a quarter synodic period after start and the window lasts the
// smaller of 30 days and a tenth of the synodic period.
func NewLaunchWindow(dep, tgt CelestialBody, start time.Time) (LaunchWindow, error) {
	depObj, err := dep.Object()
	if err != nil {
		return LaunchWindow{}, err
	}
	tgtObj, err := tgt.Object()
	if err != nil {
		return LaunchWindow{}, err
	}
	T1, T2 := depObj.period*day, tgtObj.period*day
	if T1 == T2 {
		// Infinite synodic period: no recurrence, the window never reopens.
		return LaunchWindow{Optimal: start, OptimalJD: julian.TimeToJD(start), Duration: maxWindowDuration * time.Second}, nil
	}
	synodic := math.Abs(1 / (1/T1 - 1/T2))
	duration := math.Min(maxWindowDuration, 0.1*synodic)
	optimal := start.Add(time.Duration(0.25 * synodic * float64(time.Second)))
	return LaunchWindow{
		Synodic:   time.Duration(synodic * float64(time.Second)),
		Optimal:   optimal,
		OptimalJD: julian.TimeToJD(optimal),
		Duration:  time.Duration(duration * float64(time.Second)),
		Recurring: true,
	}, nil
}
