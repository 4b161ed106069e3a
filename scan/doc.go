// SPDX-License-Identifier: MIT

// Package scan drives the correlated fitter over every admissible fit range
// of every channel and collects the results into a store.
//
// A Plan fixes the key space before any fit runs. For a plain scan the store
// has one channel dimension and keys (channel, range). A chained scan reuses
// the fitted parameters of an earlier store as per-sample auxiliary model
// arguments: its layout is the earlier store's dimensions followed by the
// new channel dimension, and every new range is fitted once per range
// combination of the earlier store. Unless Chain.UseAll is set, only the
// first channel of the earlier store's last dimension is used.
//
// Scan yields results lazily and in plan order; Run fits ranges concurrently
// and fills a fresh store. Degenerate ranges (see fit.ErrDegenerateFit) are
// skipped, reported, and leave NaN in their store positions.
package scan
