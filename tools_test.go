package astroforge

import (
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestHohmannLEO2GEO(t *testing.T) {
	Δv1, Δv2, total := HohmannΔv(6678e3, 42164e3, Earth)
	if !withinPct(total, 3893, 0.5) {
		t.Fatalf("LEO to GEO total Δv=%f", total)
	}
	if !scalar.EqualWithinAbs(Δv1+Δv2, total, 1e-9) {
		t.Fatal("burns do not sum to the total")
	}
	// Symmetric when flying the other way.
	_, _, back := HohmannΔv(42164e3, 6678e3, Earth)
	if !scalar.EqualWithinRel(back, total, 1e-9) {
		t.Fatalf("descending transfer %f != %f", back, total)
	}
}

func TestHohmannVanishes(t *testing.T) {
	r1 := 7000e3
	prev := math.Inf(1)
	for _, δ := range []float64{1e-1, 1e-2, 1e-3, 1e-4, 1e-6} {
		_, _, total := HohmannΔv(r1, r1*(1+δ), Earth)
		if total >= prev {
			t.Fatalf("Δv did not decrease: %f >= %f", total, prev)
		}
		prev = total
	}
	if prev > 5 {
		t.Fatalf("Δv=%f for nearly identical orbits", prev)
	}
	if _, _, total := HohmannΔv(r1, r1, Earth); !scalar.EqualWithinAbs(total, 0, 1e-9) {
		t.Fatalf("same orbit Δv=%f", total)
	}
}

func TestBiElliptic(t *testing.T) {
	r1, r2 := 7000e3, 105000e3
	_, _, _, auto := BiEllipticΔv(r1, r2, 0, Earth)
	_, _, _, explicit := BiEllipticΔv(r1, r2, 3*r2, Earth)
	if auto != explicit {
		t.Fatalf("default intermediate radius not applied: %f != %f", auto, explicit)
	}
	Δv1, Δv2, Δv3, total := BiEllipticΔv(r1, r2, 0, Earth)
	if !scalar.EqualWithinAbs(Δv1+Δv2+Δv3, total, 1e-9) {
		t.Fatal("burns do not sum to the total")
	}
}

func TestOptimalTransfer(t *testing.T) {
	if tt, _ := OptimalTransfer(7000e3, 42000e3, Earth); tt != Hohmann {
		t.Fatalf("small ratio should be Hohmann, got %s", tt)
	}
	tt, Δv := OptimalTransfer(7000e3, 700000e3, Earth)
	if tt != BiElliptic {
		t.Fatalf("ratio of 100 should be bi-elliptic, got %s", tt)
	}
	if _, _, hohmann := HohmannΔv(7000e3, 700000e3, Earth); Δv >= hohmann {
		t.Fatalf("bi-elliptic %f not cheaper than Hohmann %f", Δv, hohmann)
	}
}

func TestPlaneChangeAndEscape(t *testing.T) {
	if Δv := PlaneChangeΔv(7500, math.Pi/3); !scalar.EqualWithinAbs(Δv, 7500, 1e-9) {
		t.Fatalf("60 degree plane change Δv=%f", Δv)
	}
	if Δv := PlaneChangeΔv(7500, 0); Δv != 0 {
		t.Fatalf("no plane change Δv=%f", Δv)
	}
	r := 7000e3
	if !scalar.EqualWithinRel(EscapeVelocity(r, Earth), math.Sqrt2*math.Sqrt(Earth.GM()/r), 1e-12) {
		t.Fatal("escape velocity is not √2 the circular velocity")
	}
}

func TestInterplanetary(t *testing.T) {
	b, err := InterplanetaryΔv(BodyEarth, BodyMars)
	if err != nil {
		t.Fatal(err)
	}
	if !withinPct(b.Escape, 3226, 1) || !withinPct(b.Capture, 1431, 1) {
		t.Fatalf("escape=%f capture=%f", b.Escape, b.Capture)
	}
	if !withinPct(b.Helio1+b.Helio2, 5594, 1) {
		t.Fatalf("heliocentric Δv=%f", b.Helio1+b.Helio2)
	}
	if !scalar.EqualWithinAbs(b.Total(), b.Escape+b.Helio1+b.Helio2+b.Capture, 1e-9) {
		t.Fatal("invalid total")
	}
	_, err = InterplanetaryΔv(BodyEarth, BodyAsteroidBelt)
	var perr *PhysicsError
	if !errors.As(err, &perr) || !errors.Is(err, ErrUnsupportedBody) {
		t.Fatalf("expected unsupported body physics error, got %v", err)
	}
}

func TestTransferTime(t *testing.T) {
	r1, r2 := Earth.OrbitalRadius(), Mars.OrbitalRadius()
	hohmann := TransferTime(r1, r2, Hohmann, Sun)
	if days := hohmann.Hours() / 24; !withinPct(days, 259, 1) {
		t.Fatalf("Earth to Mars Hohmann took %f days", days)
	}
	if direct := TransferTime(r1, r2, Direct, Sun); !withinPct(direct.Seconds(), 0.7*hohmann.Seconds(), 1e-6) {
		t.Fatalf("direct transfer %s", direct)
	}
	if bi := TransferTime(r1, r2, BiElliptic, Sun); bi <= hohmann {
		t.Fatalf("bi-elliptic %s faster than Hohmann %s", bi, hohmann)
	}
	if other := TransferTime(r1, r2, GravityAssist, Sun); other != hohmann {
		t.Fatalf("unknown strategies should be timed as Hohmann: %s != %s", other, hohmann)
	}
}

func TestLaunchWindow(t *testing.T) {
	start := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	lw, err := NewLaunchWindow(BodyEarth, BodyMars, start)
	if err != nil {
		t.Fatal(err)
	}
	if days := lw.Synodic.Hours() / 24; !withinPct(days, 779.9, 0.1) {
		t.Fatalf("synodic period of %f days", days)
	}
	if lw.Duration != 30*24*time.Hour {
		t.Fatalf("window duration %s", lw.Duration)
	}
	if offset := lw.Optimal.Sub(start); !withinPct(offset.Seconds(), 0.25*lw.Synodic.Seconds(), 1e-6) {
		t.Fatalf("optimal launch offset %s", offset)
	}
	if !lw.Recurring {
		t.Fatal("Earth to Mars window should recur")
	}

	same, err := NewLaunchWindow(BodyEarth, BodyEarth, start)
	if err != nil {
		t.Fatal(err)
	}
	if same.Recurring || same.Synodic != 0 {
		t.Fatalf("equal periods should not recur: %+v", same)
	}
	if !scalar.EqualWithinAbs(same.OptimalJD, 2451545.0, 1e-9) {
		t.Fatalf("J2000 JD=%f", same.OptimalJD)
	}

	// The Moon's short period gives a window shorter than 30 days.
	moon, err := NewLaunchWindow(BodyEarth, BodyMoon, start)
	if err != nil {
		t.Fatal(err)
	}
	if moon.Duration >= 30*24*time.Hour {
		t.Fatalf("lunar window %s", moon.Duration)
	}
	if _, err := NewLaunchWindow(BodyAsteroidBelt, BodyMars, start); err == nil {
		t.Fatal("asteroid belt has no period")
	}
}

func TestTransferTypeStrings(t *testing.T) {
	for _, tt := range []TransferType{Hohmann, BiElliptic, Direct, GravityAssist} {
		back, err := TransferTypeFromString(tt.String())
		if err != nil || back != tt {
			t.Fatalf("%s did not round trip: %v", tt, err)
		}
	}
	if _, err := TransferTypeFromString("warp"); err == nil {
		t.Fatal("unknown transfer accepted")
	}
}
