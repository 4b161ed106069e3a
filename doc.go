// SPDX-License-Identifier: MIT

// Package latfit estimates hadron energies and derived observables from
// resampled lattice correlators, with statistical and fit-range systematic
// uncertainties.
//
// The analysis is organised as a pipeline of small packages:
//
//	resample/   — bootstrap datasets, row 0 the anchor, rows 1..N replicas
//	model/      — predefined correlator models (single exponential, ratio, constant)
//	fit/        — correlated χ² fits per bootstrap sample (Cholesky whitening, LM)
//	fitrange/   — enumeration of admissible fit ranges
//	scan/       — fits over every range, plain or chained to an earlier fit
//	store/      — labelled, ragged fit-result tensors with persistence
//	systematic/ — weighted medians, statistical and systematic errors
//	derive/     — energy differences and Lüscher scattering lengths
//	config/     — YAML configuration
//	metrics/    — Prometheus counters for fits and skipped ranges
//
// A typical run: Bootstrap the raw configurations, NewPlan and Run a
// scan, then Estimates on the resulting store. Derived quantities are
// stores themselves and can be summarised or combined again.
//
// The command-line front end lives in cmd/latfit.
package latfit
