// SPDX-License-Identifier: MIT

package derive

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ErrNoRoots is returned for polynomials of degree zero and failed
// eigendecompositions.
var ErrNoRoots = errors.New("derive: polynomial has no roots")

// tieTol is the relative tolerance under which two roots count as equally real.
const tieTol = 1e-9

// PolyRoots returns the roots of c[0]·x^n + ... + c[n] as the eigenvalues of
// the companion matrix. Leading zero coefficients are ignored.
func PolyRoots(c []float64) ([]complex128, error) {
	for len(c) > 0 && c[0] == 0 {
		c = c[1:]
	}
	n := len(c) - 1
	if n < 1 {
		return nil, ErrNoRoots
	}
	comp := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		comp.Set(0, j, -c[j+1]/c[0])
	}
	for i := 1; i < n; i++ {
		comp.Set(i, i-1, 1)
	}
	var eig mat.Eigen
	if !eig.Factorize(comp, mat.EigenNone) {
		return nil, ErrNoRoots
	}
	return eig.Values(nil), nil
}

// CubicRoots solves a3·x³ + a2·x² + a1·x + a0 = 0.
func CubicRoots(a3, a2, a1, a0 float64) ([]complex128, error) {
	return PolyRoots([]float64{a3, a2, a1, a0})
}

// SelectPhysicalRoot picks the root with the smallest imaginary magnitude.
// Roots whose imaginary magnitudes agree within a relative 1e-9 are ordered
// by |Re|, then by Re, so the choice does not depend on the solver's root
// order.
func SelectPhysicalRoot(roots []complex128) complex128 {
	best := roots[0]
	for _, r := range roots[1:] {
		bi, ri := math.Abs(imag(best)), math.Abs(imag(r))
		scale := math.Max(1, math.Max(cmplx.Abs(best), cmplx.Abs(r)))
		switch {
		case ri < bi-tieTol*scale:
			best = r
		case ri <= bi+tieTol*scale:
			br, rr := math.Abs(real(best)), math.Abs(real(r))
			if rr < br || (rr == br && real(r) < real(best)) {
				best = r
			}
		}
	}
	return best
}
