// SPDX-License-Identifier: MIT

// Package store holds the results of a fit-range scan: one slot per
// combination of channels, each slot a set of tensors indexed by sample,
// parameter and fit range.
//
// Layout:
//   - A store has one or more channel dimensions. Channels[k] is the number of
//     channels along dimension k (a plain scan has one dimension; a chained
//     scan adds one dimension per earlier fit).
//   - There is one Slot per channel tuple (c_0, ..., c_{d−1}); its Label is
//     that tuple. Slots are ordered row-major over the tuples.
//   - Slot.Data has shape (samples, params, r_0, ..., r_{d−1}) where r_k is the
//     number of ranges of channel c_k in dimension k; Chi2 and PValue have
//     shape (samples, r_0, ..., r_{d−1}). Slots therefore differ in shape
//     when channels have different range counts.
//   - A key is the label followed by one range index per range dimension.
//
// Label lookup goes through a map keyed by the encoded tuple, so Add and Get
// are O(d) in the number of dimensions.
//
// Errors:
//   - ErrConfiguration: inconsistent shapes or dimensions at creation.
//   - ErrReinitialized: CreateEmpty or CreateFromRanges on an initialised store.
//   - ErrNotInitialized: Add or Get before creation.
//   - ErrLookup: unknown label, wrong key arity, or index out of range.
package store
