// SPDX-License-Identifier: MIT

package systematic

import (
	"math"
	"sort"
)

type point struct {
	v, w float64
}

// WeightedQuantile returns the value below which the fraction q of the total
// weight lies. Points are sorted by value; point i sits at
// P_i = (S_i − w_i/2) / S, S_i being the cumulative weight, and q is
// linearly interpolated on P. Outside [P_0, P_{n−1}] the end values are
// returned. NaN values and non-positive weights are ignored; with nothing
// left the result is NaN, as it is when data and weights differ in length.
// Equal weights reproduce the ordinary median at q = 0.5.
//
// Complexity: O(n log n).
func WeightedQuantile(data, weights []float64, q float64) float64 {
	if len(data) != len(weights) {
		return math.NaN()
	}
	pts := make([]point, 0, len(data))
	for i, v := range data {
		if math.IsNaN(v) || !(weights[i] > 0) || math.IsInf(weights[i], 0) {
			continue
		}
		pts = append(pts, point{v, weights[i]})
	}
	return quantileOf(pts, q)
}

func quantileOf(pts []point, q float64) float64 {
	n := len(pts)
	if n == 0 {
		return math.NaN()
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].v < pts[j].v })

	var total float64
	for _, p := range pts {
		total += p.w
	}
	pn := make([]float64, n)
	var cum float64
	for i, p := range pts {
		cum += p.w
		pn[i] = (cum - 0.5*p.w) / total
	}

	switch {
	case q <= pn[0]:
		return pts[0].v
	case q >= pn[n-1]:
		return pts[n-1].v
	}
	k := sort.SearchFloat64s(pn, q)
	if pn[k] == q {
		return pts[k].v
	}
	lo, hi := k-1, k
	f := (q - pn[lo]) / (pn[hi] - pn[lo])
	return pts[lo].v + f*(pts[hi].v-pts[lo].v)
}
