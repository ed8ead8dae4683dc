package astroforge

import "math"

const (
	keplerTolerance = 1e-8
	keplerMaxIter   = 100
)

// SolveKepler solves M = E - e sin(E) for the eccentric anomaly E.
func SolveKepler(M, e float64) float64 {
	return SolveKeplerTol(M, e, keplerTolerance, keplerMaxIter)
}

// SolveKeplerTol solves Kepler's equation by Newton-Raphson. Running out of
// iterations returns the last estimate.
func SolveKeplerTol(M, e, tol float64, maxIter int) float64 {
	E := M
	if e >= 0.8 {
		E = math.Pi
	}
	for iter := 0; iter < maxIter; iter++ {
		f := E - e*math.Sin(E) - M
		df := 1 - e*math.Cos(E)
		if math.Abs(df) < 1e-12 {
			break
		}
		Enew := E - f/df
		if math.Abs(Enew-E) < tol {
			return Enew
		}
		E = Enew
	}
	return E
}

// MeanAnomalyFromEccentric returns M for the provided eccentric anomaly.
func MeanAnomalyFromEccentric(E, e float64) float64 {
	return E - e*math.Sin(E)
}

// TrueAnomalyFromEccentric converts the eccentric anomaly to the true anomaly.
func TrueAnomalyFromEccentric(E, e float64) float64 {
	sinE, cosE := math.Sincos(E)
	denom := 1 - e*cosE
	cosν := (cosE - e) / denom
	sinν := math.Sqrt(1-e*e) * sinE / denom
	return math.Atan2(sinν, cosν)
}

// EccentricAnomalyFromTrue converts the true anomaly to the eccentric anomaly.
func EccentricAnomalyFromTrue(ν, e float64) float64 {
	sinν, cosν := math.Sincos(ν)
	denom := 1 + e*cosν
	return math.Atan2(math.Sqrt(1-e*e)*sinν/denom, (e+cosν)/denom)
}
