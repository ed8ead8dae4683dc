package astroforge

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	nodeε         = 1e-10
	eccentricityε = 1e-10
)

// Orbit defines an orbit via its classical orbital elements. Distances are in
// meters and angles in radians.
type Orbit struct {
	a, e, i, Ω, ω, ν float64
	Origin           CelestialObject // Orbit origin
}

// NewOrbitFromOE creates an orbit from the orbital elements.
func NewOrbitFromOE(a, e, i, Ω, ω, ν float64, c CelestialObject) (*Orbit, error) {
	if a <= 0 || e < 0 || e >= 1 || math.IsNaN(a) || math.IsNaN(e) {
		return nil, physicsErr("orbit from elements", fmt.Errorf("%w: a=%g e=%g", ErrDegenerateOrbit, a, e))
	}
	return &Orbit{a, e, i, Ω, ω, ν, c}, nil
}

// NewOrbitFromRV returns orbital elements from the R and V vectors.
func NewOrbitFromRV(R, V []float64, c CelestialObject) (*Orbit, error) {
	r := norm(R)
	v := norm(V)
	if r == 0 {
		return nil, physicsErr("orbit from state", fmt.Errorf("%w: zero radius", ErrDegenerateOrbit))
	}
	ξ := v*v/2 - c.μ/r
	a := -c.μ / (2 * ξ)
	hVec := cross(R, V)
	h := norm(hVec)
	if h == 0 {
		return nil, physicsErr("orbit from state", fmt.Errorf("%w: rectilinear motion", ErrDegenerateOrbit))
	}
	eVec := make([]float64, 3)
	vxh := cross(V, hVec)
	for j := 0; j < 3; j++ {
		eVec[j] = vxh[j]/c.μ - R[j]/r
	}
	e := norm(eVec)
	i := math.Acos(hVec[2] / h)

	nVec := cross([]float64{0, 0, 1}, hVec)
	n := norm(nVec)

	var Ω, ω, ν float64
	if n > nodeε {
		Ω = math.Acos(nVec[0] / n)
		if nVec[1] < 0 {
			Ω = 2*math.Pi - Ω
		}
	}
	if n > nodeε && e > eccentricityε {
		ω = math.Acos(clamp(dot(nVec, eVec)/(n*e), -1, 1))
		if eVec[2] < 0 {
			ω = 2*math.Pi - ω
		}
	}
	if e > eccentricityε {
		ν = math.Acos(clamp(dot(eVec, R)/(e*r), -1, 1))
		if dot(R, V) < 0 {
			ν = 2*math.Pi - ν
		}
	}
	return NewOrbitFromOE(a, e, i, Ω, ω, ν, c)
}

// Elements returns the six classical elements.
func (o Orbit) Elements() (a, e, i, Ω, ω, ν float64) {
	return o.a, o.e, o.i, o.Ω, o.ω, o.ν
}

// SemiMajorAxis returns a.
func (o Orbit) SemiMajorAxis() float64 {
	return o.a
}

// Eccentricity returns e.
func (o Orbit) Eccentricity() float64 {
	return o.e
}

// Energyξ returns the specific mechanical energy ξ.
func (o Orbit) Energyξ() float64 {
	return -o.Origin.μ / (2 * o.a)
}

// SemiParameter returns the semi parameter p.
func (o Orbit) SemiParameter() float64 {
	return o.a * (1 - o.e*o.e)
}

// SemiMinorAxis returns b.
func (o Orbit) SemiMinorAxis() float64 {
	return o.a * math.Sqrt(1-o.e*o.e)
}

// Apoapsis returns the apoapsis.
func (o Orbit) Apoapsis() float64 {
	return o.a * (1 + o.e)
}

// Periapsis returns the periapsis.
func (o Orbit) Periapsis() float64 {
	return o.a * (1 - o.e)
}

// PeriodSeconds returns the period of this orbit in seconds.
func (o Orbit) PeriodSeconds() float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.Origin.μ)
}

// Period returns the period of this orbit.
func (o Orbit) Period() time.Duration {
	return time.Duration(o.PeriodSeconds() * float64(time.Second))
}

// VelocityAt returns the vis-viva velocity at the provided radius.
func (o Orbit) VelocityAt(r float64) float64 {
	return math.Sqrt(o.Origin.μ * (2/r - 1/o.a))
}

// RNorm returns the norm of the radius vector, but without computing the radius vector.
func (o Orbit) RNorm() float64 {
	return o.SemiParameter() / (1 + o.e*math.Cos(o.ν))
}

// RV returns the inertial position and velocity vectors.
func (o Orbit) RV() ([]float64, []float64) {
	p := o.SemiParameter()
	sinν, cosν := math.Sincos(o.ν)
	r := p / (1 + o.e*cosν)
	R := PQW2ECI(o.i, o.ω, o.Ω, []float64{r * cosν, r * sinν, 0})
	vp := math.Sqrt(o.Origin.μ / p)
	V := PQW2ECI(o.i, o.ω, o.Ω, []float64{-vp * sinν, vp * (o.e + cosν), 0})
	return R, V
}

// Equals returns whether two orbits are identical within the provided tolerances.
func (o Orbit) Equals(o1 Orbit, distanceε, angleε float64) (bool, error) {
	if !o.Origin.Equals(o1.Origin) {
		return false, fmt.Errorf("different origin: %s != %s", o.Origin, o1.Origin)
	}
	if !scalar.EqualWithinAbs(o.a, o1.a, distanceε) {
		return false, fmt.Errorf("semi major axis invalid: %f != %f", o.a, o1.a)
	}
	if !scalar.EqualWithinAbs(o.e, o1.e, 1e-6) {
		return false, fmt.Errorf("eccentricity invalid: %f != %f", o.e, o1.e)
	}
	angles := []struct {
		name string
		a, b float64
	}{{"inclination", o.i, o1.i}, {"RAAN", o.Ω, o1.Ω}, {"argument of periapsis", o.ω, o1.ω}, {"true anomaly", o.ν, o1.ν}}
	for _, ang := range angles {
		if !scalar.EqualWithinAbs(angleDiff(ang.a, ang.b), 0, angleε) {
			return false, fmt.Errorf("%s invalid: %f != %f", ang.name, ang.a, ang.b)
		}
	}
	return true, nil
}

// String implements the stringer interface.
func (o Orbit) String() string {
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), Rad2deg(o.ν))
}

// Radii2ae returns the semi major axis and the eccentricty from the radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}

// angleDiff returns a-b wrapped to [-π, π).
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+math.Pi, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
