// SPDX-License-Identifier: MIT

package resample

import "math"

// Symmetrize folds a periodic correlator around T/2:
// C'(t) = (C(t) + C(T−t)) / 2 for t = 0..T/2, with C(T) ≡ C(0).
func Symmetrize(d *Dataset) (*Dataset, error) {
	if d.time < 2 {
		return nil, ErrTooShort
	}
	half := d.time/2 + 1
	return d.mapTime(half, func(row []float64, t int) float64 {
		return 0.5 * (row[t] + row[(d.time-t)%d.time])
	})
}

// EffectiveMass computes the effective mass per sample.
//
// With useCosh the result is acosh((C(t−1)+C(t+1)) / (2C(t))) for t=1..T−2
// (T−2 slices); otherwise log(C(t)/C(t+1)) for t=0..T−2 (T−1 slices).
// Slices where the argument leaves the function's domain yield NaN.
func EffectiveMass(d *Dataset, useCosh bool) (*Dataset, error) {
	if useCosh {
		if d.time < 3 {
			return nil, ErrTooShort
		}
		return d.mapTime(d.time-2, func(row []float64, t int) float64 {
			return math.Acosh((row[t] + row[t+2]) / (2 * row[t+1]))
		})
	}
	if d.time < 2 {
		return nil, ErrTooShort
	}
	return d.mapTime(d.time-1, func(row []float64, t int) float64 {
		return math.Log(row[t] / row[t+1])
	})
}

// Derivative returns the forward difference C(t+1) − C(t) (T−1 slices).
func Derivative(d *Dataset) (*Dataset, error) {
	if d.time < 2 {
		return nil, ErrTooShort
	}
	return d.mapTime(d.time-1, func(row []float64, t int) float64 {
		return row[t+1] - row[t]
	})
}
