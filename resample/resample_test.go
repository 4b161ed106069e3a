// SPDX-License-Identifier: MIT

package resample_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/latfit/resample"
)

// TestNewDataset_BadShape verifies shape validation.
func TestNewDataset_BadShape(t *testing.T) {
	_, err := resample.NewDataset(0, 3, 1, nil)
	assert.ErrorIs(t, err, resample.ErrBadShape)

	_, err = resample.NewDataset(2, 3, 1, make([]float64, 5))
	assert.ErrorIs(t, err, resample.ErrBadShape)
}

// TestNewDataset_CopiesInput ensures the dataset is immune to caller mutation.
func TestNewDataset_CopiesInput(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	d, err := resample.NewDataset(2, 2, 1, data)
	require.NoError(t, err)
	data[0] = 100
	assert.Equal(t, 1.0, d.At(0, 0, 0))
}

// TestSeries_Slice checks the time restriction and layout.
func TestSeries_Slice(t *testing.T) {
	// 2 samples × 3 time × 2 channels
	data := []float64{
		0, 10, 1, 11, 2, 12,
		3, 13, 4, 14, 5, 15,
	}
	d, err := resample.NewDataset(2, 3, 2, data)
	require.NoError(t, err)

	s, err := d.Series(1, 1, 3)
	require.NoError(t, err)
	r, c := s.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 11.0, s.At(0, 0))
	assert.Equal(t, 15.0, s.At(1, 1))

	_, err = d.Series(2, 0, 1)
	assert.ErrorIs(t, err, resample.ErrOutOfRange)
	_, err = d.Series(0, 2, 2)
	assert.ErrorIs(t, err, resample.ErrOutOfRange)
}

// TestBootstrap_AnchorIsMean verifies sample 0 equals the plain configuration mean.
func TestBootstrap_AnchorIsMean(t *testing.T) {
	raw, err := resample.NewDataset(4, 2, 1, []float64{1, 10, 2, 20, 3, 30, 6, 60})
	require.NoError(t, err)

	boot, err := resample.Bootstrap(raw, 50, 7)
	require.NoError(t, err)
	assert.Equal(t, 51, boot.Samples())
	assert.InDelta(t, 3.0, boot.At(0, 0, 0), 1e-12)
	assert.InDelta(t, 30.0, boot.At(0, 1, 0), 1e-12)

	// the same draw is used for every time slice: t=1 is exactly 10× t=0
	for b := 1; b < boot.Samples(); b++ {
		assert.InDelta(t, 10*boot.At(b, 0, 0), boot.At(b, 1, 0), 1e-9)
	}
}

// TestBootstrap_Deterministic checks reproducibility for a fixed seed.
func TestBootstrap_Deterministic(t *testing.T) {
	raw, err := resample.Synthetic(resample.SyntheticSpec{Configs: 20, Time: 6, Amplitude: 1, Energy: 0.2, Noise: 0.1, Seed: 3})
	require.NoError(t, err)

	a, err := resample.Bootstrap(raw, 30, 11)
	require.NoError(t, err)
	b, err := resample.Bootstrap(raw, 30, 11)
	require.NoError(t, err)
	assert.Equal(t, a.Raw(), b.Raw())

	c, err := resample.Bootstrap(raw, 30, 12)
	require.NoError(t, err)
	assert.NotEqual(t, a.Raw(), c.Raw())
}

// TestBootstrap_TooFew rejects single-configuration input.
func TestBootstrap_TooFew(t *testing.T) {
	raw, err := resample.NewDataset(1, 2, 1, []float64{1, 2})
	require.NoError(t, err)
	_, err = resample.Bootstrap(raw, 10, 1)
	assert.ErrorIs(t, err, resample.ErrTooFewConfigs)
}

// TestSymmetrize folds around T/2.
func TestSymmetrize(t *testing.T) {
	d, err := resample.NewDataset(1, 4, 1, []float64{4, 3, 2, 1})
	require.NoError(t, err)
	s, err := resample.Symmetrize(d)
	require.NoError(t, err)
	require.Equal(t, 3, s.Time())
	assert.Equal(t, 4.0, s.At(0, 0, 0)) // (C0 + C0)/2
	assert.Equal(t, 2.0, s.At(0, 1, 0)) // (C1 + C3)/2
	assert.Equal(t, 2.0, s.At(0, 2, 0)) // (C2 + C2)/2
}

// TestEffectiveMass recovers the energy of a pure exponential.
func TestEffectiveMass(t *testing.T) {
	d, err := resample.SyntheticBootstrap(resample.SyntheticSpec{Time: 10, Amplitude: 2, Energy: 0.4}, 1)
	require.NoError(t, err)

	logMass, err := resample.EffectiveMass(d, false)
	require.NoError(t, err)
	assert.Equal(t, 9, logMass.Time())
	for tt := 0; tt < logMass.Time(); tt++ {
		assert.InDelta(t, 0.4, logMass.At(0, tt, 0), 1e-12)
	}

	coshMass, err := resample.EffectiveMass(d, true)
	require.NoError(t, err)
	assert.Equal(t, 8, coshMass.Time())
	// acosh(cosh(E)) = E for a single exponential
	assert.InDelta(t, 0.4, coshMass.At(0, 3, 0), 1e-9)
}

// TestDerivative checks the forward difference.
func TestDerivative(t *testing.T) {
	d, err := resample.NewDataset(1, 3, 1, []float64{1, 4, 9})
	require.NoError(t, err)
	der, err := resample.Derivative(d)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, der.Raw())
}

// TestStd_ExcludesAnchor verifies Std ignores sample 0.
func TestStd_ExcludesAnchor(t *testing.T) {
	d, err := resample.NewDataset(3, 1, 1, []float64{100, 1, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d.Std(0)[0], 1e-12)
	assert.InDelta(t, 104.0/3, d.Mean(0)[0], 1e-12)
}

// TestSaveLoad round-trips through the on-disk container.
func TestSaveLoad(t *testing.T) {
	d, err := resample.NewDataset(2, 2, 1, []float64{1, math.NaN(), 3, 4})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "d.lat")
	require.NoError(t, d.Save(path))

	back, err := resample.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, back.Samples())
	assert.True(t, math.IsNaN(back.At(0, 1, 0)))
	assert.Equal(t, 4.0, back.At(1, 1, 0))
}
