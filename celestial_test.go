package astroforge

import (
	"errors"
	"testing"
	"time"
)

func TestCelestialObjectFromString(t *testing.T) {
	for _, name := range []string{"Sun", "earth", "MOON", "Venus", "mars", "Jupiter", "saturn"} {
		obj, err := CelestialObjectFromString(name)
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if obj.GM() <= 0 || obj.Radius <= 0 {
			t.Fatalf("%s has no physical data", obj)
		}
	}
	if _, err := CelestialObjectFromString("pluto"); !errors.Is(err, ErrUnsupportedBody) {
		t.Fatalf("pluto should not be supported: %v", err)
	}
}

func TestCelestialBody(t *testing.T) {
	for _, b := range []CelestialBody{BodyEarth, BodyMoon, BodyMars, BodyVenus, BodyJupiter, BodySaturn} {
		if !b.Valid() {
			t.Fatalf("%s should be valid", b)
		}
		if _, err := b.Object(); err != nil {
			t.Fatalf("%s: %s", b, err)
		}
	}
	if !BodyAsteroidBelt.Valid() {
		t.Fatal("the asteroid belt is a valid destination")
	}
	_, err := BodyAsteroidBelt.Object()
	var perr *PhysicsError
	if !errors.As(err, &perr) {
		t.Fatalf("asteroid belt should be a physics error, got %v", err)
	}
	if CelestialBody("vulcan").Valid() {
		t.Fatal("vulcan is not a body")
	}
}

func TestCelestialPeriods(t *testing.T) {
	if Earth.OrbitalPeriod() != time.Duration(365.25*24*float64(time.Hour)) {
		t.Fatalf("Earth period %s", Earth.OrbitalPeriod())
	}
	if !Mars.Equals(Mars) || Mars.Equals(Earth) {
		t.Fatal("equality is broken")
	}
}
