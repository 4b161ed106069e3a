// SPDX-License-Identifier: MIT

package fit

import "gonum.org/v1/gonum/mat"

// Aux carries the auxiliary model arguments. The aux slice passed to the
// model for sample b is Constants followed by PerSample[b]; PerSample is
// either nil or has one row per sample (combined fits reusing an earlier
// fit's parameter, aligned sample for sample).
type Aux struct {
	Constants []float64
	PerSample [][]float64
}

func (a Aux) forSample(b int) []float64 {
	if a.PerSample == nil {
		return a.Constants
	}
	out := make([]float64, 0, len(a.Constants)+len(a.PerSample[b]))
	out = append(out, a.Constants...)
	return append(out, a.PerSample[b]...)
}

// Result holds the per-sample outcome of one fit range.
type Result struct {
	// Params is samples × parameters; non-converged rows are NaN.
	Params    *mat.Dense
	Chi2      []float64
	PValue    []float64
	Converged []bool
	DOF       int
}

// NonConverged counts the samples whose solver failed.
func (r *Result) NonConverged() int {
	n := 0
	for _, ok := range r.Converged {
		if !ok {
			n++
		}
	}
	return n
}

// Param returns a copy of parameter k over all samples.
func (r *Result) Param(k int) []float64 {
	return mat.Col(nil, k, r.Params)
}
