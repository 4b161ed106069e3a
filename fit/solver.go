// SPDX-License-Identifier: MIT

package fit

import (
	"context"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/latfit/model"
)

const (
	lambdaInit = 1e-3
	lambdaMax  = 1e16
	chi2Floor  = 1e-30
)

// problem is the whitened least-squares objective of one sample.
// w and x are shared between samples and only read.
type problem struct {
	f   model.Func
	x   []float64
	y   []float64
	aux []float64
	w   *mat.Dense

	raw *mat.VecDense
}

func newProblem(f model.Func, x, y, aux []float64, w *mat.Dense) *problem {
	return &problem{f: f, x: x, y: y, aux: aux, w: w, raw: mat.NewVecDense(len(x), nil)}
}

// residual writes Lᵀ·(y − f(p)) into dst.
func (pr *problem) residual(dst, p []float64) {
	for i, t := range pr.x {
		pr.raw.SetVec(i, pr.y[i]-pr.f(p, t, pr.aux))
	}
	mat.NewVecDense(len(dst), dst).MulVec(pr.w, pr.raw)
}

// lm runs Levenberg–Marquardt from start. It returns the parameters, χ² and
// whether the solver converged. Only ctx cancellation produces an error.
func lm(ctx context.Context, pr *problem, start []float64, opts Options) ([]float64, float64, bool, error) {
	n, k := len(pr.x), len(start)
	p := append([]float64(nil), start...)
	r := make([]float64, n)
	pr.residual(r, p)
	chi2 := floats.Dot(r, r)
	if !isFinite(chi2) {
		return p, chi2, false, nil
	}

	jac := mat.NewDense(n, k, nil)
	settings := &fd.JacobianSettings{Formula: fd.Central}
	var (
		jtj   mat.SymDense
		a     = mat.NewSymDense(k, nil)
		g     = mat.NewVecDense(k, nil)
		delta = mat.NewVecDense(k, nil)
		trial = make([]float64, k)
		rt    = make([]float64, n)
		chol  mat.Cholesky
	)
	lambda := lambdaInit
	stale := true

	for it := 0; it < opts.MaxIterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, false, err
		}
		if chi2 < chi2Floor {
			return p, chi2, true, nil
		}

		if stale {
			fd.Jacobian(jac, pr.residual, p, settings)
			if !allFinite(jac.RawMatrix().Data) {
				return p, chi2, false, nil
			}
			// z = r(p), J = ∂z/∂p: the step solves (JᵀJ + λ·diag)δ = −Jᵀz.
			jtj.SymOuterK(1, jac.T())
			g.MulVec(jac.T(), mat.NewVecDense(n, r))
			stale = false
		}

		for {
			for i := 0; i < k; i++ {
				for j := i; j < k; j++ {
					a.SetSym(i, j, jtj.At(i, j))
				}
				d := jtj.At(i, i)
				if d == 0 {
					d = 1
				}
				a.SetSym(i, i, jtj.At(i, i)+lambda*d)
			}
			if chol.Factorize(a) {
				if err := chol.SolveVecTo(delta, g); err == nil {
					break
				}
			}
			lambda *= 10
			if lambda > lambdaMax {
				return p, chi2, true, nil
			}
		}

		for i := range trial {
			trial[i] = p[i] - delta.AtVec(i)
		}
		pr.residual(rt, trial)
		next := floats.Dot(rt, rt)

		if !isFinite(next) || next >= chi2 {
			lambda *= 10
			if lambda > lambdaMax {
				// no descent direction left: p is a minimum to working precision
				return p, chi2, true, nil
			}
			continue
		}

		step := floats.Norm(delta.RawVector().Data, 2)
		size := floats.Norm(p, 2)
		decrease := chi2 - next
		copy(p, trial)
		copy(r, rt)
		chi2 = next
		stale = true
		lambda = math.Max(lambda/10, 1e-12)

		if decrease <= opts.FTol*chi2 || step <= opts.XTol*(size+opts.XTol) {
			return p, chi2, true, nil
		}
	}
	return p, chi2, false, nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func allFinite(v []float64) bool {
	for _, x := range v {
		if !isFinite(x) {
			return false
		}
	}
	return true
}
