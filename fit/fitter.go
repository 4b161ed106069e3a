// SPDX-License-Identifier: MIT

package fit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/latfit/metrics"
	"github.com/katalvlaran/latfit/model"
)

// Fitter performs correlated fits of one model. A Fitter is immutable and
// safe for concurrent use.
type Fitter struct {
	f    model.Func
	opts Options
}

// New builds a Fitter for f.
func New(f model.Func, opts ...Option) (*Fitter, error) {
	if f == nil {
		return nil, ErrNilModel
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("%w: workers=%d max_iterations=%d ftol=%g xtol=%g",
			err, o.Workers, o.MaxIterations, o.FTol, o.XTol)
	}
	return &Fitter{f: f, opts: o}, nil
}

// NewKind builds a Fitter for a predefined model.
func NewKind(k model.Kind, opts ...Option) (*Fitter, error) {
	f, err := model.Lookup(k)
	if err != nil {
		return nil, err
	}
	return New(f, opts...)
}

// Options returns the resolved configuration.
func (ft *Fitter) Options() Options { return ft.opts }

// Fit fits every row of y (samples × points) at the time values x, starting
// each sample from start. The covariance and its whitening factor are
// computed once from all rows. Cancelling ctx stops all workers; Fit then
// returns ctx.Err().
func (ft *Fitter) Fit(ctx context.Context, x []float64, y mat.Matrix, start []float64, aux Aux) (*Result, error) {
	began := time.Now()
	nSamples, nPoints := y.Dims()
	if err := ft.check(x, nSamples, nPoints, start, aux); err != nil {
		if errors.Is(err, ErrDegenerateFit) {
			ft.opts.Metrics.ObserveFit(metrics.StatusDegenerate, 0, nSamples, 0)
		}
		return nil, err
	}
	dof := nPoints - len(start)

	w, err := whitening(y, ft.opts.Uncorrelated)
	if err != nil {
		ft.opts.Metrics.ObserveFit(metrics.StatusDegenerate, 0, nSamples, 0)
		return nil, err
	}

	res := &Result{
		Params:    mat.NewDense(nSamples, len(start), nil),
		Chi2:      make([]float64, nSamples),
		PValue:    make([]float64, nSamples),
		Converged: make([]bool, nSamples),
		DOF:       dof,
	}
	chi := distuv.ChiSquared{K: float64(dof)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ft.opts.Workers)
	for b := 0; b < nSamples; b++ {
		g.Go(func() error {
			yb := mat.Row(nil, b, y)
			pr := newProblem(ft.f, x, yb, aux.forSample(b), w)
			p, chi2, ok, err := lm(gctx, pr, start, ft.opts)
			if err != nil {
				return err
			}
			if !ok || !allFinite(p) {
				ft.opts.Logger.Debug("sample did not converge", "sample", b, "chi2", chi2)
				res.Params.SetRow(b, nanRow(len(start)))
				res.Chi2[b] = math.NaN()
				res.PValue[b] = math.NaN()
				return nil
			}
			res.Params.SetRow(b, p)
			res.Chi2[b] = chi2
			res.PValue[b] = chi.Survival(chi2)
			res.Converged[b] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		ft.opts.Metrics.ObserveFit(metrics.StatusCanceled, time.Since(began), nSamples, 0)
		return nil, err
	}
	// errgroup swallows a cancellation that arrived after the last worker.
	if err := ctx.Err(); err != nil {
		ft.opts.Metrics.ObserveFit(metrics.StatusCanceled, time.Since(began), nSamples, 0)
		return nil, err
	}

	bad := res.NonConverged()
	ft.opts.Metrics.ObserveFit(metrics.StatusOK, time.Since(began), nSamples, bad)
	if bad > 0 {
		ft.opts.Logger.Debug("fit finished with non-converged samples",
			"samples", nSamples, "nonconverged", bad)
	}
	return res, nil
}

func (ft *Fitter) check(x []float64, nSamples, nPoints int, start []float64, aux Aux) error {
	switch {
	case len(start) == 0:
		return ErrBadStart
	case !allFinite(start):
		return fmt.Errorf("%w: %v", ErrBadStart, start)
	case len(x) != nPoints:
		return fmt.Errorf("%w: %d x values for %d points", ErrDimensionMismatch, len(x), nPoints)
	case aux.PerSample != nil && len(aux.PerSample) != nSamples:
		return fmt.Errorf("%w: %d aux rows for %d samples", ErrDimensionMismatch, len(aux.PerSample), nSamples)
	case nSamples < 2:
		return fmt.Errorf("%w: %d samples", ErrDegenerateFit, nSamples)
	case nPoints-len(start) <= 0:
		return fmt.Errorf("%w: dof=%d (%d points, %d parameters)",
			ErrDegenerateFit, nPoints-len(start), nPoints, len(start))
	}
	return nil
}

func nanRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = math.NaN()
	}
	return row
}
