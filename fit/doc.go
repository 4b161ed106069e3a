// SPDX-License-Identifier: MIT

// Package fit implements the correlated non-linear least-squares fitter that
// is run once per bootstrap sample.
//
// For a data matrix y (samples × points) the fitter
//
//  1. estimates the points × points covariance C over the sample axis
//     (all samples, N−1 normalisation; diagonal only in uncorrelated mode),
//  2. inverts C and takes the Cholesky factor L of C⁻¹ = L·Lᵀ, so that
//     χ² = rᵀ·C⁻¹·r = |Lᵀ·r|² for a residual r,
//  3. minimises |Lᵀ·(y_b − f(p))|² for every sample b with a
//     Levenberg–Marquardt solver started from the same point,
//  4. reports χ² and the p-value 1 − CDF_χ²(χ², dof) per sample.
//
// C and Lᵀ are computed once per call and shared read-only by the per-sample
// workers. A sample whose solver does not converge yields a NaN parameter row
// and Converged[b] == false; it never aborts the fit.
//
// Errors:
//   - ErrDegenerateFit: dof ≤ 0, fewer than two samples, or a covariance
//     that is not positive definite.
//   - ErrDimensionMismatch: x, y and aux disagree in size.
//   - ErrBadStart: empty or non-finite start vector.
//
// Complexity: O(P³) once for the whitening plus, per sample and iteration,
// O(P²·K) for the whitened Jacobian and O(K³) for the damped normal
// equations (P points, K parameters).
package fit
