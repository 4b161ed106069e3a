// SPDX-License-Identifier: MIT

// Package derive combines fitted quantities of two stores into derived
// quantities sample by sample, so that bootstrap correlations survive.
//
// The single-particle mass is read from slot 0 of the mass store. For every
// slot of the other store and every pair (mass fit, own fit) the derived
// value of each sample is formed and the pair gets the weight
// w_mass · w_own. The result is a derived store, which systematic.Estimates
// summarises with those weights instead of recomputing them.
//
// In ratio mode the own store comes from a chained fit whose leading range
// axes are the mass ranges; its parameter already is the energy shift, and
// the pair weight uses the matching mass range.
package derive
