// SPDX-License-Identifier: MIT

package resample

import "errors"

var (
	// ErrBadShape is returned when dimensions are non-positive or the backing
	// slice does not match samples*time*channels.
	ErrBadShape = errors.New("resample: invalid shape")

	// ErrOutOfRange is returned for channel or time indices outside the dataset.
	ErrOutOfRange = errors.New("resample: index out of range")

	// ErrTooFewConfigs is returned when bootstrapping fewer than two configurations.
	ErrTooFewConfigs = errors.New("resample: need at least two configurations")

	// ErrTooShort is returned when a transform needs more time slices than available.
	ErrTooShort = errors.New("resample: time extent too short")
)
