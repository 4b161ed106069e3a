// SPDX-License-Identifier: MIT

// Package fitrange enumerates the admissible fit ranges of a correlator.
//
// A Range is a half-open interval [Lo, Hi) on the time axis. Enumerate walks
// a Window deterministically: Lo starts at the window's lower bound and
// advances by step; for each Lo, Hi starts at Lo+minWidth and advances by
// step up to the window's upper bound. The resulting order is stable, so a
// range is identified by its position in the enumeration.
package fitrange

import (
	"errors"
	"fmt"
)

// ErrBadWindow reports a window, width or step that admits no valid enumeration.
var ErrBadWindow = errors.New("fitrange: invalid window")

// Range is the half-open fit interval [Lo, Hi).
type Range struct {
	Lo int
	Hi int
}

// Width returns Hi − Lo, the number of time slices in the range.
func (r Range) Width() int { return r.Hi - r.Lo }

// String formats r as "[lo,hi)".
func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Lo, r.Hi) }

// Window bounds the enumeration. Hi ≤ 0 is relative to the time extent:
// Hi = 0 means the full extent, Hi = −2 stops two slices before the end.
type Window struct {
	Lo int `yaml:"lo"`
	Hi int `yaml:"hi"`
}

// resolve returns the absolute upper bound of w on an axis of length extent.
func (w Window) resolve(extent int) (int, int) {
	hi := w.Hi
	if hi <= 0 {
		hi += extent
	}
	return w.Lo, hi
}

// Enumerate lists every range inside w with width ≥ minWidth, Lo on the grid
// w.Lo + k·step and Hi on the grid Lo + minWidth + j·step. Ranges narrower
// than minWidth are never produced.
func Enumerate(w Window, extent, minWidth, step int) ([]Range, error) {
	lo, hi := w.resolve(extent)
	switch {
	case minWidth < 1 || step < 1:
		return nil, fmt.Errorf("%w: min_width=%d step=%d", ErrBadWindow, minWidth, step)
	case lo < 0 || hi > extent || lo >= hi:
		return nil, fmt.Errorf("%w: [%d,%d) on extent %d", ErrBadWindow, lo, hi, extent)
	}
	var out []Range
	for l := lo; l+minWidth <= hi; l += step {
		for u := l + minWidth; u <= hi; u += step {
			out = append(out, Range{Lo: l, Hi: u})
		}
	}
	return out, nil
}

// Spec configures range enumeration for a set of channels. Windows holds
// either a single window shared by all channels or one window per channel.
type Spec struct {
	Windows  []Window
	MinWidth int
	Step     int
}

// Set holds the enumerated ranges per channel.
type Set [][]Range

// Build enumerates the ranges of every channel.
func (s Spec) Build(extent, channels int) (Set, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrBadWindow, channels)
	}
	if len(s.Windows) != 1 && len(s.Windows) != channels {
		return nil, fmt.Errorf("%w: %d windows for %d channels", ErrBadWindow, len(s.Windows), channels)
	}
	set := make(Set, channels)
	for c := range set {
		w := s.Windows[0]
		if len(s.Windows) > 1 {
			w = s.Windows[c]
		}
		r, err := Enumerate(w, extent, s.MinWidth, s.Step)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		set[c] = r
	}
	return set, nil
}

// Max returns the largest per-channel range count.
func (s Set) Max() int {
	m := 0
	for _, r := range s {
		m = max(m, len(r))
	}
	return m
}
