// SPDX-License-Identifier: MIT

// Package resample holds bootstrap-resampled correlator data.
//
// A Dataset is a dense (samples × time × channels) array where sample 0 is the
// estimate on the original data and samples 1..N are bootstrap replicas. Every
// operation in this package returns a new Dataset; nothing is mutated in place,
// so sample b of any two datasets derived from the same upstream data always
// refers to the same resampling draw.
//
// Building blocks:
//   - NewDataset / Dataset accessors (At, Series, Mean, Std)
//   - Bootstrap: per-configuration data → resampled dataset (deterministic, seeded)
//   - Symmetrize, EffectiveMass, Derivative: standard correlator transforms
//   - Synthetic: single-exponential correlators with Gaussian noise
//   - Save / Load: compressed on-disk container
package resample
