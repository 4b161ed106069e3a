// SPDX-License-Identifier: MIT

package systematic

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Weights computes the fit weights
//
//	w_r = (1 − 2·|p_r − 0.5| · min_s σ_s / σ_r)²
//
// where p_r is the anchor p-value of fit r and σ_r the population standard
// deviation of fit r over the replicas (rows 1..N of values). Fits with a
// non-finite anchor p-value or no finite replica get weight zero and do
// not take part in the minimum. A vanishing σ_r gives the ratio one.
func Weights(values mat.Matrix, anchorP []float64) []float64 {
	ns, nf := values.Dims()
	std := make([]float64, nf)
	minStd := math.Inf(1)
	col := make([]float64, 0, ns)
	for r := 0; r < nf; r++ {
		col = col[:0]
		for b := 1; b < ns; b++ {
			if v := values.At(b, r); !math.IsNaN(v) {
				col = append(col, v)
			}
		}
		if len(col) == 0 || math.IsNaN(anchorP[r]) {
			std[r] = math.NaN()
			continue
		}
		_, std[r] = stat.PopMeanStdDev(col, nil)
		minStd = math.Min(minStd, std[r])
	}

	w := make([]float64, nf)
	for r := range w {
		if math.IsNaN(std[r]) {
			continue
		}
		ratio := 1.0
		if std[r] > 0 {
			ratio = minStd / std[r]
		}
		x := 1 - 2*math.Abs(anchorP[r]-0.5)*ratio
		w[r] = x * x
	}
	return w
}
