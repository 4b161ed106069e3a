// SPDX-License-Identifier: MIT

package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// maxCond is the largest covariance condition number still accepted.
const maxCond = 1e14

// whitening returns Lᵀ where L·Lᵀ = C⁻¹ and C is the covariance of the
// columns of y over its rows.
func whitening(y mat.Matrix, uncorrelated bool) (*mat.Dense, error) {
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, y, nil)
	n := cov.SymmetricDim()
	if uncorrelated {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				cov.SetSym(i, j, 0)
			}
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(&cov) {
		return nil, fmt.Errorf("%w: covariance not positive definite", ErrDegenerateFit)
	}
	if c := chol.Cond(); c > maxCond {
		return nil, fmt.Errorf("%w: covariance condition number %.3g", ErrDegenerateFit, c)
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}

	var cinv mat.Cholesky
	if !cinv.Factorize(&inv) {
		return nil, fmt.Errorf("%w: inverse covariance not positive definite", ErrDegenerateFit)
	}
	var l mat.TriDense
	cinv.LTo(&l)
	return mat.DenseCopyOf(l.T()), nil
}
