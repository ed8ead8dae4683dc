package astroforge

import (
	"fmt"
	"strings"
	"time"
)

const (
	// AU is one astronomical unit in meters.
	AU = 1.496e11
	// G is the gravitational constant in m^3/(kg s^2).
	G = 6.67430e-11
	// g0 is the standard gravity used by the rocket equation.
	g0 = 9.81
	day = 86400.0
)

// CelestialObject defines a celestial object. All distances are in meters.
type CelestialObject struct {
	Name   string
	Mass   float64
	Radius float64
	a      float64 // heliocentric (or planetocentric for the Moon) orbital radius
	μ      float64
	SOI    float64
	period float64 // orbital period in days
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialObject) GM() float64 {
	return c.μ
}

// OrbitalRadius returns the mean radius of the orbit around its primary.
func (c CelestialObject) OrbitalRadius() float64 {
	return c.a
}

// OrbitalPeriod returns the sidereal period around its primary.
func (c CelestialObject) OrbitalPeriod() time.Duration {
	return time.Duration(c.period * day * float64(time.Second))
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.a == b.a && c.μ == b.μ && c.SOI == b.SOI
}

// CelestialBody is the closed set of bodies a trajectory may reference.
type CelestialBody string

// Supported trajectory endpoints.
const (
	BodyEarth        CelestialBody = "earth"
	BodyMoon         CelestialBody = "moon"
	BodyMars         CelestialBody = "mars"
	BodyVenus        CelestialBody = "venus"
	BodyJupiter      CelestialBody = "jupiter"
	BodySaturn       CelestialBody = "saturn"
	BodyAsteroidBelt CelestialBody = "asteroid_belt"
)

// Valid returns whether this is one of the enumerated bodies.
func (b CelestialBody) Valid() bool {
	switch b {
	case BodyEarth, BodyMoon, BodyMars, BodyVenus, BodyJupiter, BodySaturn, BodyAsteroidBelt:
		return true
	}
	return false
}

// Object returns the physical data of this body. The asteroid belt is a valid
// destination name but has no physical data, which is a PhysicsError.
func (b CelestialBody) Object() (CelestialObject, error) {
	obj, err := CelestialObjectFromString(string(b))
	if err != nil {
		return CelestialObject{}, physicsErr("resolve body", err)
	}
	return obj, nil
}

// CelestialObjectFromString returns the object from its name
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "earth":
		return Earth, nil
	case "moon":
		return Moon, nil
	case "venus":
		return Venus, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	case "saturn":
		return Saturn, nil
	default:
		return CelestialObject{}, fmt.Errorf("%w '%s'", ErrUnsupportedBody, name)
	}
}

/* Definitions */

// Sun is our closest star.
var Sun = CelestialObject{"Sun", 1.989e30, 6.957e8, 0, 1.32712440018e20, -1, 0}

// Earth is home.
var Earth = CelestialObject{"Earth", 5.972e24, 6.371e6, AU, 3.986004418e14, 9.24e8, 365.25}

// Moon is Earth's natural satellite; its orbital radius is geocentric.
var Moon = CelestialObject{"Moon", 7.342e22, 1.737e6, 3.844e8, 4.9048695e12, 6.61e7, 27.3}

// Venus is poisonous.
var Venus = CelestialObject{"Venus", 4.867e24, 6.052e6, 0.723 * AU, 3.24859e14, 6.16e8, 225}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 6.39e23, 3.390e6, 1.524 * AU, 4.282837e13, 5.77e8, 687}

// Jupiter is big.
var Jupiter = CelestialObject{"Jupiter", 1.898e27, 6.9911e7, 5.204 * AU, 1.26686534e17, 4.82e10, 4333}

// Saturn has rings.
var Saturn = CelestialObject{"Saturn", 5.683e26, 5.8232e7, 9.573 * AU, 3.7931187e16, 5.48e10, 10759}
