// SPDX-License-Identifier: MIT

package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/latfit/metrics"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.New(reg)

	r.ObserveFit(metrics.StatusOK, 10*time.Millisecond, 101, 3)
	r.ObserveFit(metrics.StatusOK, 20*time.Millisecond, 101, 0)
	r.ObserveFit(metrics.StatusDegenerate, 0, 101, 0)
	r.RangeSkipped(metrics.ReasonDegenerate)

	n, err := testutil.GatherAndCount(reg,
		"latfit_fit_ranges_total",
		"latfit_fit_samples_nonconverged_total",
		"latfit_fit_samples_total",
		"latfit_fit_duration_seconds",
		"latfit_scan_ranges_skipped_total")
	require.NoError(t, err)
	// two status series + three single series + one skip reason
	assert.Equal(t, 6, n)
}

func TestRecorder_Values(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.New(reg)
	r.ObserveFit(metrics.StatusOK, time.Millisecond, 10, 4)
	r.ObserveFit(metrics.StatusCanceled, time.Millisecond, 10, 9)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	got := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				got[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 4.0, got["latfit_fit_samples_nonconverged_total"])
	assert.Equal(t, 10.0, got["latfit_fit_samples_total"])
	assert.Equal(t, 2.0, got["latfit_fit_ranges_total"])
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.ObserveFit(metrics.StatusOK, time.Second, 1, 1)
		r.RangeSkipped(metrics.ReasonShape)
	})
}
