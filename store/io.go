// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/katalvlaran/latfit/fitrange"
	"github.com/katalvlaran/latfit/internal/codec"
)

const fileMagic = "LATFITR1"

type storeFile struct {
	ID       string
	CorrID   string
	Channels []int
	Ranges   [][][]fitrange.Range
	Derived  bool
	Slots    []*Slot
}

func newID() uuid.UUID { return uuid.New() }

// Save writes the store to path.
func (s *Store) Save(path string) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	return codec.WriteFile(path, fileMagic, storeFile{
		ID:       s.ID.String(),
		CorrID:   s.CorrID,
		Channels: s.Channels,
		Ranges:   s.Ranges,
		Derived:  s.Derived,
		Slots:    s.slots,
	})
}

// Load reads a store written by Save.
func Load(path string) (*Store, error) {
	var f storeFile
	if err := codec.ReadFile(path, fileMagic, &f); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(f.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: run id: %v", ErrConfiguration, err)
	}
	labels := labelsOf(f.Channels)
	if len(f.Channels) == 0 || len(labels) != len(f.Slots) {
		return nil, fmt.Errorf("%w: %d slots for channels %v", ErrConfiguration, len(f.Slots), f.Channels)
	}
	for _, sl := range f.Slots {
		if err := checkLoaded(sl, f.Derived); err != nil {
			return nil, err
		}
	}
	s := &Store{ID: id, CorrID: f.CorrID, Channels: f.Channels, Ranges: f.Ranges, Derived: f.Derived}
	s.install(f.Slots)
	return s, nil
}

// checkLoaded validates a decoded slot before it is installed.
func checkLoaded(sl *Slot, derived bool) error {
	if sl == nil || sl.Label == nil || sl.Data == nil || sl.Chi2 == nil || sl.PValue == nil {
		return fmt.Errorf("%w: incomplete slot", ErrConfiguration)
	}
	if err := checkShapes(sl.Data.Shape, sl.Chi2.Shape); err != nil {
		return fmt.Errorf("slot %v: %w", sl.Label, err)
	}
	if !slices.Equal(sl.Chi2.Shape, sl.PValue.Shape) {
		return fmt.Errorf("%w: slot %v p-value shape %v", ErrConfiguration, sl.Label, sl.PValue.Shape)
	}
	for _, t := range []*Tensor{sl.Data, sl.Chi2, sl.PValue} {
		if !t.consistent() {
			return fmt.Errorf("%w: slot %v has %d values for shape %v", ErrConfiguration, sl.Label, len(t.Data), t.Shape)
		}
	}
	if derived {
		if sl.Weights == nil || !slices.Equal(sl.Weights.Shape, sl.Chi2.Shape[1:]) || !sl.Weights.consistent() {
			return fmt.Errorf("%w: slot %v needs weights of shape %v", ErrConfiguration, sl.Label, sl.Chi2.Shape[1:])
		}
	}
	return nil
}
