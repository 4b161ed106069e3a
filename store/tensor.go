// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"math"
	"slices"
)

// Tensor is a dense row-major n-dimensional array.
type Tensor struct {
	Shape []int
	Data  []float64
}

// NewTensor allocates a tensor of the given shape filled with NaN, the
// marker for "not fitted".
func NewTensor(shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = math.NaN()
	}
	return &Tensor{Shape: slices.Clone(shape), Data: data}
}

// consistent reports whether Data holds exactly the elements Shape names.
func (t *Tensor) consistent() bool {
	n := 1
	for _, s := range t.Shape {
		if s < 1 {
			return false
		}
		n *= s
	}
	return n == len(t.Data)
}

// Len returns the number of elements.
func (t *Tensor) Len() int { return len(t.Data) }

// Offset maps a full index to its position in Data.
func (t *Tensor) Offset(idx ...int) (int, error) {
	if len(idx) != len(t.Shape) {
		return 0, fmt.Errorf("%w: %d indices for rank %d", ErrLookup, len(idx), len(t.Shape))
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= t.Shape[k] {
			return 0, fmt.Errorf("%w: index %d out of [0,%d) in axis %d", ErrLookup, i, t.Shape[k], k)
		}
		off = off*t.Shape[k] + i
	}
	return off, nil
}

// At returns the element at idx. It panics on an invalid index.
func (t *Tensor) At(idx ...int) float64 {
	off, err := t.Offset(idx...)
	if err != nil {
		panic(err)
	}
	return t.Data[off]
}

// Set stores v at idx. It panics on an invalid index.
func (t *Tensor) Set(v float64, idx ...int) {
	off, err := t.Offset(idx...)
	if err != nil {
		panic(err)
	}
	t.Data[off] = v
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	if t == nil {
		return nil
	}
	return &Tensor{Shape: slices.Clone(t.Shape), Data: slices.Clone(t.Data)}
}
