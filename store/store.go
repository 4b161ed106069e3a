// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/latfit/fitrange"
)

// ShapeSpec declares slot shapes. Data and Other hold either one shape
// shared by every slot or one shape per slot in label order. A Data shape is
// (samples, params, ranges...), an Other shape (samples, ranges...).
type ShapeSpec struct {
	Data  [][]int
	Other [][]int
}

// Store is a labelled collection of fit result slots.
type Store struct {
	ID       uuid.UUID
	CorrID   string
	Channels []int
	// Ranges[k][c] lists the fit ranges of channel c in dimension k.
	Ranges  [][][]fitrange.Range
	Derived bool

	slots []*Slot
	index map[string]int
}

// New returns an uninitialised store for the correlator corrID.
func New(corrID string) *Store {
	return &Store{CorrID: corrID}
}

// Initialized reports whether the slots have been allocated.
func (s *Store) Initialized() bool { return s.slots != nil }

// CreateEmpty allocates one slot per channel tuple. channels[k] is the
// channel count of dimension k.
func (s *Store) CreateEmpty(spec ShapeSpec, channels []int) error {
	if s.Initialized() {
		return ErrReinitialized
	}
	if len(channels) == 0 {
		return fmt.Errorf("%w: no channel dimensions", ErrConfiguration)
	}
	for _, c := range channels {
		if c < 1 {
			return fmt.Errorf("%w: channel counts %v", ErrConfiguration, channels)
		}
	}
	labels := labelsOf(channels)
	pick := func(shapes [][]int, i int, what string) ([]int, error) {
		switch len(shapes) {
		case 1:
			return shapes[0], nil
		case len(labels):
			return shapes[i], nil
		}
		return nil, fmt.Errorf("%w: %d %s shapes for %d slots", ErrConfiguration, len(shapes), what, len(labels))
	}

	slots := make([]*Slot, len(labels))
	for i, lab := range labels {
		ds, err := pick(spec.Data, i, "data")
		if err != nil {
			return err
		}
		os, err := pick(spec.Other, i, "chi2")
		if err != nil {
			return err
		}
		if err := checkShapes(ds, os); err != nil {
			return fmt.Errorf("slot %v: %w", lab, err)
		}
		slots[i] = &Slot{
			Label:  lab,
			Data:   NewTensor(ds...),
			Chi2:   NewTensor(os...),
			PValue: NewTensor(os...),
		}
	}

	s.ID = newID()
	s.Channels = slices.Clone(channels)
	s.install(slots)
	return nil
}

// CreateFromRanges allocates slots sized by the range table: a slot with
// label (c_0, ..., c_{d−1}) gets range extents len(ranges[k][c_k]).
func (s *Store) CreateFromRanges(samples, params int, ranges [][][]fitrange.Range) error {
	if s.Initialized() {
		return ErrReinitialized
	}
	channels := make([]int, len(ranges))
	for k, dim := range ranges {
		channels[k] = len(dim)
	}
	if len(channels) == 0 || slices.Contains(channels, 0) {
		return fmt.Errorf("%w: channel counts %v", ErrConfiguration, channels)
	}
	var spec ShapeSpec
	for _, lab := range labelsOf(channels) {
		other := []int{samples}
		for k, c := range lab {
			other = append(other, len(ranges[k][c]))
		}
		data := append([]int{samples, params}, other[1:]...)
		spec.Data = append(spec.Data, data)
		spec.Other = append(spec.Other, other)
	}
	if err := s.CreateEmpty(spec, channels); err != nil {
		return err
	}
	s.Ranges = ranges
	return nil
}

// SetRanges records the range table of a store built with CreateEmpty.
func (s *Store) SetRanges(ranges [][][]fitrange.Range) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	if len(ranges) != len(s.Channels) {
		return fmt.Errorf("%w: %d range dimensions for %d channel dimensions", ErrConfiguration, len(ranges), len(s.Channels))
	}
	for k, dim := range ranges {
		if len(dim) != s.Channels[k] {
			return fmt.Errorf("%w: dimension %d has %d channels, want %d", ErrConfiguration, k, len(dim), s.Channels[k])
		}
	}
	s.Ranges = ranges
	return nil
}

// Add stores one fitted range. params is samples × params, chi2 and pval
// have one entry per sample.
func (s *Store) Add(key []int, params mat.Matrix, chi2, pval []float64) error {
	sl, r, err := s.resolve(key)
	if err != nil {
		return err
	}
	ns, np := params.Dims()
	if ns != sl.Samples() || np != sl.Params() || len(chi2) != ns || len(pval) != ns {
		return fmt.Errorf("%w: got %dx%d params, %d chi2, %d pval for slot %v of %d samples × %d params",
			ErrConfiguration, ns, np, len(chi2), len(pval), sl.Label, sl.Samples(), sl.Params())
	}
	nr := sl.NumRanges()
	for b := 0; b < ns; b++ {
		for p := 0; p < np; p++ {
			sl.Data.Data[(b*np+p)*nr+r] = params.At(b, p)
		}
		sl.Chi2.Data[b*nr+r] = chi2[b]
		sl.PValue.Data[b*nr+r] = pval[b]
	}
	return nil
}

// Get returns the samples × params block stored under key.
func (s *Store) Get(key []int) (*mat.Dense, error) {
	sl, r, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	ns, np, nr := sl.Samples(), sl.Params(), sl.NumRanges()
	out := mat.NewDense(ns, np, nil)
	for b := 0; b < ns; b++ {
		for p := 0; p < np; p++ {
			out.Set(b, p, sl.Data.Data[(b*np+p)*nr+r])
		}
	}
	return out, nil
}

// GetFit returns the per-sample χ² and p-values stored under key.
func (s *Store) GetFit(key []int) (chi2, pval []float64, err error) {
	sl, r, err := s.resolve(key)
	if err != nil {
		return nil, nil, err
	}
	ns, nr := sl.Samples(), sl.NumRanges()
	chi2 = make([]float64, ns)
	pval = make([]float64, ns)
	for b := 0; b < ns; b++ {
		chi2[b] = sl.Chi2.Data[b*nr+r]
		pval[b] = sl.PValue.Data[b*nr+r]
	}
	return chi2, pval, nil
}

// Slot returns the slot with the given label.
func (s *Store) Slot(label ...int) (*Slot, error) {
	if !s.Initialized() {
		return nil, ErrNotInitialized
	}
	i, ok := s.index[encode(label)]
	if !ok {
		return nil, fmt.Errorf("%w: no slot labelled %v", ErrLookup, label)
	}
	return s.slots[i], nil
}

// Slots returns all slots in label order.
func (s *Store) Slots() []*Slot { return slices.Clone(s.slots) }

// KeyArity returns the key length expected for a slot, the number of
// channel dimensions plus the number of range axes.
func (s *Store) KeyArity(sl *Slot) int { return len(s.Channels) + len(sl.Chi2.Shape) - 1 }

// RangesOf returns, per dimension, the fit ranges of the slot's channels.
// It returns nil when no range table was recorded.
func (s *Store) RangesOf(sl *Slot) [][]fitrange.Range {
	if s.Ranges == nil {
		return nil
	}
	out := make([][]fitrange.Range, len(sl.Label))
	for k, c := range sl.Label {
		out[k] = s.Ranges[k][c]
	}
	return out
}

func (s *Store) resolve(key []int) (*Slot, int, error) {
	if !s.Initialized() {
		return nil, 0, ErrNotInitialized
	}
	d := len(s.Channels)
	if len(key) < d {
		return nil, 0, fmt.Errorf("%w: key %v shorter than %d label components", ErrLookup, key, d)
	}
	sl, err := s.Slot(key[:d]...)
	if err != nil {
		return nil, 0, err
	}
	if len(key) != s.KeyArity(sl) {
		return nil, 0, fmt.Errorf("%w: key %v has arity %d, want %d", ErrLookup, key, len(key), s.KeyArity(sl))
	}
	r, err := sl.RangeIndex(key[d:])
	if err != nil {
		return nil, 0, err
	}
	return sl, r, nil
}

func (s *Store) install(slots []*Slot) {
	s.slots = slots
	s.index = make(map[string]int, len(slots))
	for i, sl := range slots {
		s.index[encode(sl.Label)] = i
	}
}

// labelsOf enumerates channel tuples row-major.
func labelsOf(channels []int) [][]int {
	n := 1
	for _, c := range channels {
		n *= c
	}
	out := make([][]int, n)
	for i := range out {
		lab := make([]int, len(channels))
		rem := i
		for k := len(channels) - 1; k >= 0; k-- {
			lab[k] = rem % channels[k]
			rem /= channels[k]
		}
		out[i] = lab
	}
	return out
}

func encode(label []int) string {
	var b strings.Builder
	for i, v := range label {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
