// SPDX-License-Identifier: MIT

package resample

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Dataset is an immutable resampled correlator array of shape
// (samples, time, channels). Row 0 along the sample axis is the anchor
// (original data), rows 1..N are bootstrap replicas.
type Dataset struct {
	samples  int
	time     int
	channels int
	data     []float64 // index ((b*time)+t)*channels + c
}

// NewDataset wraps data (copied) as a dataset of the given shape.
func NewDataset(samples, time, channels int, data []float64) (*Dataset, error) {
	if samples <= 0 || time <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %d×%d×%d", ErrBadShape, samples, time, channels)
	}
	if len(data) != samples*time*channels {
		return nil, fmt.Errorf("%w: len(data)=%d, want %d", ErrBadShape, len(data), samples*time*channels)
	}
	buf := make([]float64, len(data))
	copy(buf, data)

	return &Dataset{samples: samples, time: time, channels: channels, data: buf}, nil
}

// FromSeries builds a single-channel dataset from a samples×time matrix.
func FromSeries(m mat.Matrix) (*Dataset, error) {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for b := 0; b < r; b++ {
		for t := 0; t < c; t++ {
			data = append(data, m.At(b, t))
		}
	}
	return NewDataset(r, c, 1, data)
}

// Samples returns the size of the sample axis (anchor included).
func (d *Dataset) Samples() int { return d.samples }

// Time returns the number of time slices.
func (d *Dataset) Time() int { return d.time }

// Channels returns the number of correlator channels.
func (d *Dataset) Channels() int { return d.channels }

// At returns the value at sample b, time t, channel c. It panics on bad
// indices like a slice access would.
func (d *Dataset) At(b, t, c int) float64 {
	return d.data[d.offset(b, t, c)]
}

func (d *Dataset) offset(b, t, c int) int {
	if b < 0 || b >= d.samples || t < 0 || t >= d.time || c < 0 || c >= d.channels {
		panic(ErrOutOfRange)
	}
	return (b*d.time+t)*d.channels + c
}

// Series copies channel c restricted to time slices [lo, hi) into a
// samples×(hi-lo) matrix.
func (d *Dataset) Series(c, lo, hi int) (*mat.Dense, error) {
	if c < 0 || c >= d.channels {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrOutOfRange, c, d.channels)
	}
	if lo < 0 || hi > d.time || hi <= lo {
		return nil, fmt.Errorf("%w: time [%d,%d) of %d", ErrOutOfRange, lo, hi, d.time)
	}
	out := mat.NewDense(d.samples, hi-lo, nil)
	for b := 0; b < d.samples; b++ {
		for t := lo; t < hi; t++ {
			out.Set(b, t-lo, d.data[(b*d.time+t)*d.channels+c])
		}
	}
	return out, nil
}

// Column returns the values of (t, c) across all samples.
func (d *Dataset) Column(t, c int) []float64 {
	out := make([]float64, d.samples)
	for b := range out {
		out[b] = d.At(b, t, c)
	}
	return out
}

// Mean returns the per-time-slice mean over all samples of channel c.
func (d *Dataset) Mean(c int) []float64 {
	out := make([]float64, d.time)
	for t := range out {
		out[t] = stat.Mean(d.Column(t, c), nil)
	}
	return out
}

// Std returns the per-time-slice population standard deviation over the
// bootstrap replicas (samples 1..N) of channel c. With a single sample the
// result is all zeros.
func (d *Dataset) Std(c int) []float64 {
	out := make([]float64, d.time)
	if d.samples < 2 {
		return out
	}
	for t := range out {
		_, out[t] = stat.PopMeanStdDev(d.Column(t, c)[1:], nil)
	}
	return out
}

// Raw returns a copy of the backing slice in (sample, time, channel) order.
func (d *Dataset) Raw() []float64 {
	out := make([]float64, len(d.data))
	copy(out, d.data)
	return out
}

// mapTime builds a new dataset with the same sample/channel axes and a new
// time extent, filling every (b, t, c) with fn applied to the sample row of c.
func (d *Dataset) mapTime(newTime int, fn func(row []float64, t int) float64) (*Dataset, error) {
	if newTime <= 0 {
		return nil, ErrTooShort
	}
	out := make([]float64, d.samples*newTime*d.channels)
	row := make([]float64, d.time)
	for b := 0; b < d.samples; b++ {
		for c := 0; c < d.channels; c++ {
			for t := 0; t < d.time; t++ {
				row[t] = d.data[(b*d.time+t)*d.channels+c]
			}
			for t := 0; t < newTime; t++ {
				out[(b*newTime+t)*d.channels+c] = fn(row, t)
			}
		}
	}
	return &Dataset{samples: d.samples, time: newTime, channels: d.channels, data: out}, nil
}
