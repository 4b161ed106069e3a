// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"slices"
)

// NewDerived wraps already combined quantities in a derived store. slots
// must be in label order for channels and carry Weights shaped like their
// range axes.
func NewDerived(corrID string, channels []int, slots []*Slot) (*Store, error) {
	labels := labelsOf(channels)
	if len(channels) == 0 || len(slots) != len(labels) {
		return nil, fmt.Errorf("%w: %d slots for channels %v", ErrConfiguration, len(slots), channels)
	}
	for i, sl := range slots {
		if !slices.Equal(sl.Label, labels[i]) {
			return nil, fmt.Errorf("%w: slot %d labelled %v, want %v", ErrConfiguration, i, sl.Label, labels[i])
		}
		if sl.Data == nil || sl.Chi2 == nil || sl.PValue == nil {
			return nil, fmt.Errorf("%w: slot %v has missing tensors", ErrConfiguration, sl.Label)
		}
		if err := checkShapes(sl.Data.Shape, sl.Chi2.Shape); err != nil {
			return nil, fmt.Errorf("slot %v: %w", sl.Label, err)
		}
		if !slices.Equal(sl.Chi2.Shape, sl.PValue.Shape) {
			return nil, fmt.Errorf("%w: slot %v p-value shape %v", ErrConfiguration, sl.Label, sl.PValue.Shape)
		}
		if sl.Weights == nil || !slices.Equal(sl.Weights.Shape, sl.Chi2.Shape[1:]) {
			return nil, fmt.Errorf("%w: slot %v needs weights of shape %v", ErrConfiguration, sl.Label, sl.Chi2.Shape[1:])
		}
	}
	s := New(corrID)
	s.Channels = slices.Clone(channels)
	s.Derived = true
	s.ID = newID()
	s.install(slots)
	return s, nil
}
