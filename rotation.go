package astroforge

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PQW2ECI converts a perifocal vector to the inertial frame of the origin.
func PQW2ECI(i, ω, Ω float64, vI []float64) []float64 {
	return MxV33(R3R1R3(Ω, i, ω), vI)
}

// R3R1R3 performs the perifocal to inertial 3-1-3 rotation, i.e. R3(-Ω)R1(-i)R3(-ω).
func R3R1R3(Ω, i, ω float64) *mat.Dense {
	sΩ, cΩ := math.Sincos(Ω)
	si, ci := math.Sincos(i)
	sω, cω := math.Sincos(ω)
	return mat.NewDense(3, 3, []float64{
		cω*cΩ - sω*ci*sΩ, -(sω*cΩ + cω*ci*sΩ), si * sΩ,
		cω*sΩ + sω*ci*cΩ, cω*ci*cΩ - sω*sΩ, -si * cΩ,
		sω * si, cω * si, ci})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v []float64) (o []float64) {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(len(v), v))
	return []float64{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}
