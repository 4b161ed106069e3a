// SPDX-License-Identifier: MIT

package systematic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/latfit/store"
)

// Quantiles of the systematic band.
const (
	LowerQuantile = 0.16
	UpperQuantile = 0.84
)

// Summary is the aggregate of one samples × fits block.
type Summary struct {
	// Value is the weighted median of the anchor row.
	Value float64
	// Stat is the population standard deviation of the replica medians.
	Stat float64
	// SysLow and SysHigh are Value − q16 and q84 − Value on the anchor row.
	SysLow  float64
	SysHigh float64
	// Medians holds the weighted median of every sample.
	Medians []float64
	// NFits counts the fits with positive weight.
	NFits int
	// Dropped counts non-finite values of positively weighted fits.
	Dropped int
	// Valid is false when no anchor median could be formed.
	Valid bool
}

// Aggregate computes the Summary of values (samples × fits) for the given
// per-fit weights. Row 0 is the anchor. A weight count other than the
// number of fits gives an invalid, all-NaN Summary.
func Aggregate(values mat.Matrix, weights []float64) Summary {
	ns, nf := values.Dims()
	var s Summary
	if len(weights) != nf {
		nan := math.NaN()
		s.Value, s.Stat, s.SysLow, s.SysHigh = nan, nan, nan, nan
		return s
	}
	for _, w := range weights {
		if w > 0 {
			s.NFits++
		}
	}

	row := make([]float64, nf)
	s.Medians = make([]float64, ns)
	for b := 0; b < ns; b++ {
		for r := range row {
			row[r] = values.At(b, r)
			if weights[r] > 0 && math.IsNaN(row[r]) {
				s.Dropped++
			}
		}
		s.Medians[b] = WeightedQuantile(row, weights, 0.5)
	}

	s.Value = s.Medians[0]
	s.Valid = !math.IsNaN(s.Value)

	reps := make([]float64, 0, ns)
	for _, m := range s.Medians[1:] {
		if !math.IsNaN(m) {
			reps = append(reps, m)
		}
	}
	s.Stat = math.NaN()
	if len(reps) > 0 {
		_, s.Stat = stat.PopMeanStdDev(reps, nil)
	}

	anchor := mat.Row(nil, 0, values)
	s.SysLow = s.Value - WeightedQuantile(anchor, weights, LowerQuantile)
	s.SysHigh = WeightedQuantile(anchor, weights, UpperQuantile) - s.Value
	return s
}

// String formats s as "value ± stat -low +high (n fits)".
func (s Summary) String() string {
	return fmt.Sprintf("%.5f ± %.5f -%.5f +%.5f (%d fits)", s.Value, s.Stat, s.SysLow, s.SysHigh, s.NFits)
}

// Estimate is the Summary of one store slot.
type Estimate struct {
	Label []int
	Summary
	// Weights holds the weight of every fit, ranges flattened row-major.
	Weights []float64
}

// String prefixes the summary with the slot label.
func (e Estimate) String() string {
	return fmt.Sprintf("slot %v: %s", e.Label, e.Summary)
}

// Estimates summarises parameter par of every slot of st. Derived stores
// carry their own weights; for fitted stores the weights are computed from
// the anchor p-values.
func Estimates(st *store.Store, par int) ([]Estimate, error) {
	if !st.Initialized() {
		return nil, store.ErrNotInitialized
	}
	slots := st.Slots()
	out := make([]Estimate, 0, len(slots))
	for _, sl := range slots {
		values, err := sl.Param(par)
		if err != nil {
			return nil, err
		}
		var w []float64
		if st.Derived {
			w = append([]float64(nil), sl.Weights.Data...)
		} else {
			w = Weights(values, sl.AnchorPValues())
		}
		out = append(out, Estimate{Label: sl.Label, Summary: Aggregate(values, w), Weights: w})
	}
	return out, nil
}
