// SPDX-License-Identifier: MIT

// RNG utilities for resampling.
//
// Goals:
//   - Determinism: same seed ⇒ identical bootstrap draws across platforms.
//   - Encapsulation: a single RNG factory; no time-based sources.
//
// Concurrency:
//   - *rand.Rand is NOT goroutine-safe. Use deriveRNG for independent streams.
package resample

import "math/rand/v2"

// defaultRNGSeed is used when callers pass seed==0.
const defaultRNGSeed uint64 = 1

// rngFromSeed returns a deterministic PCG-backed *rand.Rand.
// Policy: seed==0 ⇒ defaultRNGSeed; otherwise the seed verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	return rand.New(sourceFromSeed(seed, 0))
}

// sourceFromSeed returns the PCG source for (seed, stream).
func sourceFromSeed(seed int64, stream uint64) *rand.PCG {
	s := uint64(seed)
	if s == 0 {
		s = defaultRNGSeed
	}
	return rand.NewPCG(s, deriveSeed(s, stream))
}

// deriveSeed mixes a parent seed and a stream identifier (SplitMix64 finalizer).
func deriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// drawIndices fills dst with uniform indices in [0, n).
func drawIndices(dst []int, n int, r *rand.Rand) {
	for i := range dst {
		dst[i] = r.IntN(n)
	}
}
