// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for fits and range scans.
//
// A Recorder is bound to one prometheus.Registerer so that tests and the CLI
// can use private registries. All methods are safe on a nil *Recorder, which
// lets library code record unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "latfit"

// Fit status label values.
const (
	StatusOK         = "ok"
	StatusDegenerate = "degenerate"
	StatusCanceled   = "canceled"
)

// Skip reason label values.
const (
	ReasonDegenerate = "degenerate"
	ReasonShape      = "shape"
)

// Recorder groups the collectors of one analysis run.
type Recorder struct {
	fits         *prometheus.CounterVec
	skipped      *prometheus.CounterVec
	nonConverged prometheus.Counter
	samples      prometheus.Counter
	duration     prometheus.Histogram
}

// New registers the collectors with reg. A nil reg yields unregistered
// collectors, which is what tests that only read values through testutil need.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		// Labels: status (ok, degenerate, canceled)
		fits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fit",
			Name:      "ranges_total",
			Help:      "Correlated fits attempted, one per fit range, by outcome",
		}, []string{"status"}),
		// Labels: reason (degenerate, shape)
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "ranges_skipped_total",
			Help:      "Fit ranges skipped during a scan",
		}, []string{"reason"}),
		nonConverged: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fit",
			Name:      "samples_nonconverged_total",
			Help:      "Bootstrap samples whose solver did not converge",
		}),
		samples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fit",
			Name:      "samples_total",
			Help:      "Bootstrap samples fitted",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fit",
			Name:      "duration_seconds",
			Help:      "Wall time of one correlated fit over all samples",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// ObserveFit records one finished fit over samples bootstrap samples.
func (r *Recorder) ObserveFit(status string, d time.Duration, samples, nonConverged int) {
	if r == nil {
		return
	}
	r.fits.WithLabelValues(status).Inc()
	if status != StatusOK {
		return
	}
	r.duration.Observe(d.Seconds())
	r.samples.Add(float64(samples))
	r.nonConverged.Add(float64(nonConverged))
}

// RangeSkipped records a fit range dropped by the scanner.
func (r *Recorder) RangeSkipped(reason string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(reason).Inc()
}
