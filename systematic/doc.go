// SPDX-License-Identifier: MIT

// Package systematic turns an ensemble of fit-range results into one value
// with a statistical and a systematic error.
//
// For one slot and parameter the values form a samples × fits matrix. Every
// fit gets a weight derived from its anchor p-value and its bootstrap
// spread (Weights). The weighted median over fits is taken per sample; the
// anchor median is the estimate, the spread of the replica medians is the
// statistical error, and the distance from the anchor median to the
// weighted 16 % and 84 % quantiles of the anchor row is the asymmetric
// systematic error.
//
// Non-finite values are dropped: a non-converged sample does not enter the
// medians of its row, a fit whose anchor failed gets weight zero, and a
// replica whose median is undefined is left out of the statistical error.
// Summary.Dropped counts the values removed this way.
package systematic
