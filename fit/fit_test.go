// SPDX-License-Identifier: MIT

package fit_test

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/latfit/fit"
	"github.com/katalvlaran/latfit/metrics"
	"github.com/katalvlaran/latfit/model"
	"github.com/katalvlaran/latfit/resample"
)

// exponential builds 500 replicas of C(t) = 5·exp(−0.3 t), t = 0..23, and
// returns the [4,20) slice with its time values.
func exponential(t *testing.T) ([]float64, *mat.Dense) {
	t.Helper()
	d, err := resample.SyntheticBootstrap(resample.SyntheticSpec{
		Time: 24, Amplitude: 5, Energy: 0.3, Noise: 0.02, Seed: 11,
	}, 500)
	require.NoError(t, err)
	y, err := d.Series(0, 4, 20)
	require.NoError(t, err)
	x := make([]float64, 16)
	for i := range x {
		x[i] = float64(4 + i)
	}
	return x, y
}

var largeT2 = fit.Aux{Constants: []float64{200}}

func TestFit_RecoversEnergy_Bootstrapped(t *testing.T) {
	raw, err := resample.Synthetic(resample.SyntheticSpec{
		Configs: 200, Time: 24, Amplitude: 5, Energy: 0.3, Noise: 0.02, Seed: 17,
	})
	require.NoError(t, err)
	d, err := resample.Bootstrap(raw, 500, 23)
	require.NoError(t, err)
	y, err := d.Series(0, 4, 20)
	require.NoError(t, err)
	x := make([]float64, 16)
	for i := range x {
		x[i] = float64(4 + i)
	}

	ft, err := fit.NewKind(model.SingleCorr)
	require.NoError(t, err)
	res, err := ft.Fit(context.Background(), x, y, []float64{3, 0.25}, largeT2)
	require.NoError(t, err)
	assert.Zero(t, res.NonConverged())

	energy := res.Param(1)
	_, sigma := stat.PopMeanStdDev(energy[1:], nil)
	require.Greater(t, sigma, 0.0)
	// the anchor is the ensemble mean, so it carries noise of its own
	assert.Greater(t, res.Chi2[0], 0.0)
	assert.InDelta(t, 0.3, energy[0], 3*sigma)
}

func TestFit_RecoversEnergy(t *testing.T) {
	x, y := exponential(t)
	ft, err := fit.NewKind(model.SingleCorr)
	require.NoError(t, err)

	res, err := ft.Fit(context.Background(), x, y, []float64{3, 0.25}, largeT2)
	require.NoError(t, err)
	assert.Equal(t, 14, res.DOF)
	assert.Zero(t, res.NonConverged())

	energy := res.Param(1)
	_, sigma := stat.PopMeanStdDev(energy[1:], nil)
	require.Greater(t, sigma, 0.0)
	assert.InDelta(t, 0.3, energy[0], 3*sigma)
	assert.InDelta(t, math.Sqrt(10), math.Abs(res.Params.At(0, 0)), 1e-4)
	// noiseless anchor
	assert.Less(t, res.Chi2[0], 1e-8)
}

func TestFit_PValuesRoughlyUniform(t *testing.T) {
	x, y := exponential(t)
	ft, err := fit.NewKind(model.SingleCorr)
	require.NoError(t, err)
	res, err := ft.Fit(context.Background(), x, y, []float64{3, 0.25}, largeT2)
	require.NoError(t, err)

	p := res.PValue[1:]
	mean := stat.Mean(p, nil)
	assert.InDelta(t, 0.5, mean, 0.08)
	low := 0
	for _, v := range p {
		require.True(t, v >= 0 && v <= 1)
		if v < 0.25 {
			low++
		}
	}
	assert.InDelta(t, 0.25, float64(low)/float64(len(p)), 0.08)
}

func TestFit_Uncorrelated(t *testing.T) {
	x, y := exponential(t)
	ft, err := fit.NewKind(model.SingleCorr, fit.WithUncorrelated(), fit.WithWorkers(2))
	require.NoError(t, err)
	res, err := ft.Fit(context.Background(), x, y, []float64{3, 0.25}, largeT2)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, res.Params.At(0, 1), 1e-6)
}

func TestFit_DOFGuard(t *testing.T) {
	ft, err := fit.NewKind(model.SingleCorr)
	require.NoError(t, err)
	y := mat.NewDense(3, 2, []float64{1, 2, 1.1, 2.1, 0.9, 1.8})
	_, err = ft.Fit(context.Background(), []float64{0, 1}, y, []float64{1, 0.1}, fit.Aux{})
	assert.ErrorIs(t, err, fit.ErrDegenerateFit)
}

func TestFit_SingularCovariance(t *testing.T) {
	ft, err := fit.New(model.ConstFunc)
	require.NoError(t, err)
	// identical samples: zero covariance
	y := mat.NewDense(4, 3, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
	_, err = ft.Fit(context.Background(), []float64{0, 1, 2}, y, []float64{1}, fit.Aux{})
	assert.ErrorIs(t, err, fit.ErrDegenerateFit)
}

func TestFit_TooFewSamples(t *testing.T) {
	ft, err := fit.New(model.ConstFunc)
	require.NoError(t, err)
	y := mat.NewDense(1, 3, []float64{1, 2, 3})
	_, err = ft.Fit(context.Background(), []float64{0, 1, 2}, y, []float64{1}, fit.Aux{})
	assert.ErrorIs(t, err, fit.ErrDegenerateFit)
}

func TestFit_BadInput(t *testing.T) {
	ft, err := fit.New(model.ConstFunc)
	require.NoError(t, err)
	y := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 7})

	_, err = ft.Fit(context.Background(), []float64{0, 1, 2}, y, []float64{1}, fit.Aux{})
	assert.ErrorIs(t, err, fit.ErrDimensionMismatch)
	_, err = ft.Fit(context.Background(), []float64{0, 1}, y, nil, fit.Aux{})
	assert.ErrorIs(t, err, fit.ErrBadStart)
	_, err = ft.Fit(context.Background(), []float64{0, 1}, y, []float64{math.NaN()}, fit.Aux{})
	assert.ErrorIs(t, err, fit.ErrBadStart)
	_, err = ft.Fit(context.Background(), []float64{0, 1}, y, []float64{1}, fit.Aux{PerSample: [][]float64{{1}}})
	assert.ErrorIs(t, err, fit.ErrDimensionMismatch)
}

func TestFit_ConstantMean(t *testing.T) {
	ft, err := fit.New(model.ConstFunc, fit.WithUncorrelated())
	require.NoError(t, err)
	y := mat.NewDense(4, 3, []float64{
		2, 2, 2,
		1, 2, 3,
		3, 2, 1,
		2, 1, 2,
	})
	res, err := ft.Fit(context.Background(), []float64{0, 1, 2}, y, []float64{0}, fit.Aux{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.DOF)
	assert.InDelta(t, 2, res.Params.At(0, 0), 1e-8)
	assert.InDelta(t, 1, res.PValue[0], 1e-12)
}

func TestFit_NonConvergedSampleIsNaN(t *testing.T) {
	// model is undefined whenever aux[0] > 0
	f := func(p []float64, t float64, aux []float64) float64 {
		if aux[0] > 0 {
			return math.NaN()
		}
		return p[0]
	}
	ft, err := fit.New(f, fit.WithUncorrelated())
	require.NoError(t, err)
	y := mat.NewDense(3, 3, []float64{2, 2.1, 1.9, 1, 2, 3, 3, 2, 1})
	res, err := ft.Fit(context.Background(), []float64{0, 1, 2}, y, []float64{1},
		fit.Aux{PerSample: [][]float64{{0}, {1}, {0}}})
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false, true}, res.Converged)
	assert.Equal(t, 1, res.NonConverged())
	assert.True(t, math.IsNaN(res.Params.At(1, 0)))
	assert.True(t, math.IsNaN(res.PValue[1]))
	assert.False(t, math.IsNaN(res.Params.At(2, 0)))
}

func TestFit_PerSampleAux(t *testing.T) {
	// p0 + aux[1]: aux[0] is the constant, aux[1] varies per sample
	f := func(p []float64, _ float64, aux []float64) float64 { return p[0] + aux[0]*aux[1] }
	ft, err := fit.New(f, fit.WithUncorrelated())
	require.NoError(t, err)
	y := mat.NewDense(3, 3, []float64{5, 5, 5, 4, 6, 4, 6, 4, 6})
	res, err := ft.Fit(context.Background(), []float64{0, 1, 2}, y, []float64{0},
		fit.Aux{Constants: []float64{2}, PerSample: [][]float64{{1}, {0.5}, {-1}}})
	require.NoError(t, err)
	// equal column variances: p0 is the row mean minus 2·aux
	assert.InDelta(t, 3, res.Params.At(0, 0), 1e-8)
	assert.InDelta(t, 11.0/3, res.Params.At(1, 0), 1e-8)
	assert.InDelta(t, 22.0/3, res.Params.At(2, 0), 1e-8)
}

func TestFit_Canceled(t *testing.T) {
	x, y := exponential(t)
	ft, err := fit.NewKind(model.SingleCorr)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ft.Fit(ctx, x, y, []float64{3, 0.25}, largeT2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFit_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	ft, err := fit.New(model.ConstFunc, fit.WithUncorrelated(), fit.WithMetrics(rec))
	require.NoError(t, err)

	y := mat.NewDense(4, 3, []float64{2, 2, 2, 1, 2, 3, 3, 2, 1, 2, 1, 2})
	_, err = ft.Fit(context.Background(), []float64{0, 1, 2}, y, []float64{0}, fit.Aux{})
	require.NoError(t, err)
	_, err = ft.Fit(context.Background(), []float64{0}, y.Slice(0, 4, 0, 1), []float64{0}, fit.Aux{})
	require.ErrorIs(t, err, fit.ErrDegenerateFit)

	n, err := testutil.GatherAndCount(reg, "latfit_fit_ranges_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNew_Validation(t *testing.T) {
	_, err := fit.New(nil)
	assert.ErrorIs(t, err, fit.ErrNilModel)
	_, err = fit.New(model.ConstFunc, fit.WithWorkers(0))
	assert.ErrorIs(t, err, fit.ErrBadOption)
	_, err = fit.New(model.ConstFunc, fit.WithTolerance(0, 1e-8))
	assert.ErrorIs(t, err, fit.ErrBadOption)
	_, err = fit.NewKind(model.Kind(42))
	assert.ErrorIs(t, err, model.ErrUnknownKind)
}
