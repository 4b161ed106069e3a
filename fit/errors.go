// SPDX-License-Identifier: MIT

package fit

import "errors"

var (
	// ErrDegenerateFit marks a fit range that cannot be fitted at all:
	// dof ≤ 0, fewer than two samples, or a singular covariance.
	ErrDegenerateFit = errors.New("fit: degenerate fit")

	// ErrDimensionMismatch indicates that x, y or aux have incompatible sizes.
	ErrDimensionMismatch = errors.New("fit: dimension mismatch")

	// ErrBadStart indicates an empty or non-finite start parameter vector.
	ErrBadStart = errors.New("fit: invalid start parameters")

	// ErrNilModel is returned by New for a nil model function.
	ErrNilModel = errors.New("fit: nil model")

	// ErrBadOption is returned by New when an option value is out of range.
	ErrBadOption = errors.New("fit: invalid option")
)
