// SPDX-License-Identifier: MIT

package scan

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/latfit/fitrange"
	"github.com/katalvlaran/latfit/resample"
	"github.com/katalvlaran/latfit/store"
)

// Chain selects an earlier fit whose parameters become auxiliary model
// arguments of the new fit. For every sample b the model receives the fit
// constants followed by the earlier fit's Params values of sample b.
type Chain struct {
	Store  *store.Store
	Params []int
	UseAll bool
}

// Job is one fit of one range.
type Job struct {
	// Key addresses the result in the output store.
	Key []int
	// Channel is the data channel fitted.
	Channel int
	Range   fitrange.Range
	// OldKey addresses the chained store; nil for plain scans.
	OldKey []int
}

// Plan is the fixed layout and job list of a scan.
type Plan struct {
	// Ranges is the output range table, dimension → channel → ranges.
	Ranges [][][]fitrange.Range
	Jobs   []Job

	chain *Chain
}

// NewPlan enumerates the jobs for data under spec, optionally chained.
func NewPlan(data *resample.Dataset, spec fitrange.Spec, chain *Chain) (*Plan, error) {
	set, err := spec.Build(data.Time(), data.Channels())
	if err != nil {
		return nil, err
	}
	if chain == nil {
		p := &Plan{Ranges: [][][]fitrange.Range{set}}
		for c, rs := range set {
			for i, r := range rs {
				p.Jobs = append(p.Jobs, Job{Key: []int{c, i}, Channel: c, Range: r})
			}
		}
		return p, nil
	}
	return chainedPlan(data, set, chain)
}

func chainedPlan(data *resample.Dataset, set fitrange.Set, chain *Chain) (*Plan, error) {
	old := chain.Store
	switch {
	case old == nil || !old.Initialized():
		return nil, fmt.Errorf("%w: store not initialised", ErrChain)
	case old.Ranges == nil:
		return nil, fmt.Errorf("%w: store %q has no range table", ErrChain, old.CorrID)
	case len(chain.Params) == 0:
		return nil, fmt.Errorf("%w: no parameters selected", ErrChain)
	}
	for _, sl := range old.Slots() {
		if sl.Samples() != data.Samples() {
			return nil, fmt.Errorf("%w: %d samples in store, %d in data", ErrChain, sl.Samples(), data.Samples())
		}
		for _, p := range chain.Params {
			if p < 0 || p >= sl.Params() {
				return nil, fmt.Errorf("%w: parameter %d of %d", ErrChain, p, sl.Params())
			}
		}
	}

	d := len(old.Ranges)
	ranges := make([][][]fitrange.Range, 0, d+1)
	for k, dim := range old.Ranges {
		if !chain.UseAll && k == d-1 {
			dim = dim[:1]
		}
		ranges = append(ranges, dim)
	}
	ranges = append(ranges, set)

	p := &Plan{Ranges: ranges, chain: chain}
	channels := make([]int, len(ranges))
	for k, dim := range ranges {
		channels[k] = len(dim)
	}
	for _, label := range product(channels) {
		oldLabel, c := label[:d], label[d]
		extents := make([]int, d)
		for k, ch := range oldLabel {
			extents[k] = len(ranges[k][ch])
		}
		for _, oldIdx := range product(extents) {
			for i, r := range set[c] {
				key := slices.Concat(label, oldIdx, []int{i})
				p.Jobs = append(p.Jobs, Job{
					Key:     key,
					Channel: c,
					Range:   r,
					OldKey:  slices.Concat(oldLabel, oldIdx),
				})
			}
		}
	}
	return p, nil
}

// Chained reports whether the plan reuses an earlier fit.
func (p *Plan) Chained() bool { return p.chain != nil }

// product enumerates all index tuples below extents, row-major.
func product(extents []int) [][]int {
	n := 1
	for _, e := range extents {
		n *= e
	}
	out := make([][]int, 0, n)
	for i := 0; i < n; i++ {
		t := make([]int, len(extents))
		rem := i
		for k := len(extents) - 1; k >= 0; k-- {
			t[k] = rem % extents[k]
			rem /= extents[k]
		}
		out = append(out, t)
	}
	return out
}
