// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Slot is the result block of one channel combination.
type Slot struct {
	Label  []int
	Data   *Tensor // (samples, params, ranges...)
	Chi2   *Tensor // (samples, ranges...)
	PValue *Tensor // (samples, ranges...)

	// Weights has shape (ranges...). It is set only in derived stores, whose
	// weights come from the combined inputs instead of the p-values.
	Weights *Tensor
}

// Samples returns the size of the sample axis.
func (sl *Slot) Samples() int { return sl.Data.Shape[0] }

// Params returns the number of fit parameters.
func (sl *Slot) Params() int { return sl.Data.Shape[1] }

// RangeShape returns the extents of the range axes.
func (sl *Slot) RangeShape() []int { return slices.Clone(sl.Chi2.Shape[1:]) }

// NumRanges returns the number of range combinations in the slot.
func (sl *Slot) NumRanges() int {
	n := 1
	for _, s := range sl.Chi2.Shape[1:] {
		n *= s
	}
	return n
}

// RangeIndex flattens a range index tuple row-major.
func (sl *Slot) RangeIndex(idx []int) (int, error) {
	shape := sl.Chi2.Shape[1:]
	if len(idx) != len(shape) {
		return 0, fmt.Errorf("%w: %d range indices for %d range axes", ErrLookup, len(idx), len(shape))
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= shape[k] {
			return 0, fmt.Errorf("%w: range index %d out of [0,%d)", ErrLookup, i, shape[k])
		}
		off = off*shape[k] + i
	}
	return off, nil
}

// Param returns parameter par as a samples × ranges matrix, ranges
// flattened row-major.
func (sl *Slot) Param(par int) (*mat.Dense, error) {
	if par < 0 || par >= sl.Params() {
		return nil, fmt.Errorf("%w: parameter %d of %d", ErrLookup, par, sl.Params())
	}
	ns, nr := sl.Samples(), sl.NumRanges()
	out := mat.NewDense(ns, nr, nil)
	for b := 0; b < ns; b++ {
		base := (b*sl.Params() + par) * nr
		out.SetRow(b, sl.Data.Data[base:base+nr])
	}
	return out, nil
}

// AnchorPValues returns the sample-0 p-value of every range combination.
func (sl *Slot) AnchorPValues() []float64 {
	return slices.Clone(sl.PValue.Data[:sl.NumRanges()])
}

// checkShapes verifies that data is (samples, params, R...) and other is
// (samples, R...).
func checkShapes(data, other []int) error {
	if len(other) < 1 || len(data) != len(other)+1 {
		return fmt.Errorf("%w: data rank %d, chi2 rank %d", ErrConfiguration, len(data), len(other))
	}
	if data[0] != other[0] || !slices.Equal(data[2:], other[1:]) {
		return fmt.Errorf("%w: data shape %v incompatible with chi2 shape %v", ErrConfiguration, data, other)
	}
	for _, s := range data {
		if s < 1 {
			return fmt.Errorf("%w: non-positive extent in %v", ErrConfiguration, data)
		}
	}
	return nil
}
