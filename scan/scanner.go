// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/latfit/fit"
	"github.com/katalvlaran/latfit/metrics"
	"github.com/katalvlaran/latfit/resample"
	"github.com/katalvlaran/latfit/store"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers bounds the number of ranges fitted concurrently by Run.
func WithWorkers(n int) Option { return func(s *Scanner) { s.workers = n } }

// WithLogger injects a structured logger. nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records skipped ranges into r.
func WithMetrics(r *metrics.Recorder) Option { return func(s *Scanner) { s.metrics = r } }

// Scanner runs one fitter over the jobs of a Plan.
type Scanner struct {
	fitter  *fit.Fitter
	workers int
	log     *slog.Logger
	metrics *metrics.Recorder
}

// New builds a Scanner around f.
func New(f *fit.Fitter, opts ...Option) (*Scanner, error) {
	if f == nil {
		return nil, ErrNilFitter
	}
	s := &Scanner{fitter: f, workers: runtime.GOMAXPROCS(0), log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		return nil, fmt.Errorf("%w: workers=%d", ErrBadOption, s.workers)
	}
	return s, nil
}

// Outcome is the fit of one job.
type Outcome struct {
	Job    Job
	Result *fit.Result
}

// Skipped records a job that produced no result.
type Skipped struct {
	Job Job
	Err error
}

// Scan fits the jobs of p one after another and yields each outcome.
// A degenerate range is yielded with a nil Result and an error wrapping
// fit.ErrDegenerateFit; the caller may continue. Cancellation of ctx is
// yielded once and ends the sequence.
func (s *Scanner) Scan(ctx context.Context, p *Plan, data *resample.Dataset, start, constants []float64) iter.Seq2[Outcome, error] {
	return func(yield func(Outcome, error) bool) {
		for _, job := range p.Jobs {
			res, err := s.fitJob(ctx, p, job, data, start, constants)
			if err != nil && ctx.Err() != nil {
				yield(Outcome{Job: job}, err)
				return
			}
			if !yield(Outcome{Job: job, Result: res}, err) {
				return
			}
		}
	}
}

// Run fits all jobs of p concurrently and stores the results under corrID.
// Degenerate ranges are returned in skipped, in plan order; any other
// error aborts the run.
func (s *Scanner) Run(ctx context.Context, p *Plan, data *resample.Dataset, start, constants []float64, corrID string) (*store.Store, []Skipped, error) {
	out := store.New(corrID)
	if err := out.CreateFromRanges(data.Samples(), len(start), p.Ranges); err != nil {
		return nil, nil, err
	}
	s.log.Info("scan started", "corr", corrID, "run", out.ID, "jobs", len(p.Jobs), "chained", p.Chained())

	results := make([]*fit.Result, len(p.Jobs))
	errs := make([]error, len(p.Jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, job := range p.Jobs {
		g.Go(func() error {
			res, err := s.fitJob(gctx, p, job, data, start, constants)
			if err != nil && !errors.Is(err, fit.ErrDegenerateFit) {
				return err
			}
			results[i], errs[i] = res, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var skipped []Skipped
	for i, job := range p.Jobs {
		if errs[i] != nil {
			skipped = append(skipped, Skipped{Job: job, Err: errs[i]})
			continue
		}
		res := results[i]
		if err := out.Add(job.Key, res.Params, res.Chi2, res.PValue); err != nil {
			return nil, nil, err
		}
	}
	s.log.Info("scan finished", "corr", corrID, "run", out.ID, "fitted", len(p.Jobs)-len(skipped), "skipped", len(skipped))
	return out, skipped, nil
}

func (s *Scanner) fitJob(ctx context.Context, p *Plan, job Job, data *resample.Dataset, start, constants []float64) (*fit.Result, error) {
	y, err := data.Series(job.Channel, job.Range.Lo, job.Range.Hi)
	if err != nil {
		s.skip(job, metrics.ReasonShape, err)
		return nil, fmt.Errorf("%w: %v", fit.ErrDegenerateFit, err)
	}
	x := make([]float64, job.Range.Width())
	for i := range x {
		x[i] = float64(job.Range.Lo + i)
	}
	aux := fit.Aux{Constants: constants}
	if p.chain != nil {
		if aux.PerSample, err = chainedAux(p.chain, job.OldKey); err != nil {
			return nil, err
		}
	}

	res, err := s.fitter.Fit(ctx, x, y, start, aux)
	if err != nil {
		if errors.Is(err, fit.ErrDegenerateFit) {
			s.skip(job, metrics.ReasonDegenerate, err)
			return nil, fmt.Errorf("key %v range %v: %w", job.Key, job.Range, err)
		}
		return nil, err
	}
	if n := res.NonConverged(); n > 0 {
		s.log.Warn("samples did not converge", "key", job.Key, "channel", job.Channel,
			"range", job.Range.String(), "nonconverged", n, "samples", len(res.Converged))
	}
	return res, nil
}

func (s *Scanner) skip(job Job, reason string, err error) {
	s.metrics.RangeSkipped(reason)
	s.log.Warn("fit range skipped", "key", job.Key, "channel", job.Channel,
		"range", job.Range.String(), "reason", reason, "err", err)
}

// chainedAux collects the chained parameters per sample.
func chainedAux(c *Chain, key []int) ([][]float64, error) {
	m, err := c.Store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChain, err)
	}
	ns, _ := m.Dims()
	aux := make([][]float64, ns)
	for b := range aux {
		row := make([]float64, len(c.Params))
		for i, p := range c.Params {
			row[i] = m.At(b, p)
		}
		aux[b] = row
	}
	return aux, nil
}
