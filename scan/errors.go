// SPDX-License-Identifier: MIT

package scan

import "errors"

var (
	// ErrChain indicates a chained store that does not fit the data.
	ErrChain = errors.New("scan: incompatible chained store")

	// ErrNilFitter is returned by New for a nil fitter.
	ErrNilFitter = errors.New("scan: nil fitter")

	// ErrBadOption is returned by New when an option value is out of range.
	ErrBadOption = errors.New("scan: invalid option")
)
