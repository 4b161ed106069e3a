// SPDX-License-Identifier: MIT

package fit

import (
	"log/slog"
	"runtime"

	"github.com/katalvlaran/latfit/metrics"
)

// Defaults.
const (
	// DefaultMaxIterations bounds the Levenberg–Marquardt iterations per sample.
	DefaultMaxIterations = 200

	// DefaultFTol is the relative χ² decrease below which a sample is converged.
	DefaultFTol = 1e-10

	// DefaultXTol is the relative parameter step below which a sample is converged.
	DefaultXTol = 1e-10
)

// Option configures a Fitter.
type Option func(*Options)

// Options holds the resolved Fitter configuration.
type Options struct {
	Uncorrelated  bool
	Workers       int
	MaxIterations int
	FTol          float64
	XTol          float64
	Logger        *slog.Logger
	Metrics       *metrics.Recorder
}

// DefaultOptions returns the configuration used when no option is given.
func DefaultOptions() Options {
	return Options{
		Workers:       runtime.GOMAXPROCS(0),
		MaxIterations: DefaultMaxIterations,
		FTol:          DefaultFTol,
		XTol:          DefaultXTol,
		Logger:        slog.New(slog.DiscardHandler),
	}
}

// WithUncorrelated keeps only the diagonal of the covariance matrix.
func WithUncorrelated() Option {
	return func(o *Options) { o.Uncorrelated = true }
}

// WithWorkers bounds the number of samples fitted concurrently.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithMaxIterations sets the per-sample iteration limit.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithTolerance sets the relative χ² and parameter-step tolerances.
func WithTolerance(ftol, xtol float64) Option {
	return func(o *Options) {
		o.FTol = ftol
		o.XTol = xtol
	}
}

// WithLogger injects a structured logger. nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics records fit outcomes into r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Options) { o.Metrics = r }
}

func (o Options) validate() error {
	switch {
	case o.Workers < 1:
		return ErrBadOption
	case o.MaxIterations < 1:
		return ErrBadOption
	case !(o.FTol > 0) || !(o.XTol > 0):
		return ErrBadOption
	}
	return nil
}
