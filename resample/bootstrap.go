// SPDX-License-Identifier: MIT

package resample

import "fmt"

// Bootstrap resamples per-configuration data.
//
// raw is interpreted as (configurations × time × channels). The result has
// replicas+1 samples: sample 0 is the mean over all configurations, sample b≥1
// is the mean over nConfigs configurations drawn with replacement. One draw is
// shared by every time slice and channel of a replica, so cross-channel and
// cross-time correlations survive resampling.
//
// Complexity: O(replicas · nConfigs · time · channels).
func Bootstrap(raw *Dataset, replicas int, seed int64) (*Dataset, error) {
	if raw == nil || raw.samples < 2 {
		return nil, ErrTooFewConfigs
	}
	if replicas < 0 {
		return nil, fmt.Errorf("%w: replicas=%d", ErrBadShape, replicas)
	}

	nCfg, width := raw.samples, raw.time*raw.channels
	out := make([]float64, (replicas+1)*width)

	// anchor: plain mean
	inv := 1.0 / float64(nCfg)
	for k := 0; k < nCfg; k++ {
		src := raw.data[k*width : (k+1)*width]
		for j, v := range src {
			out[j] += v * inv
		}
	}

	r := rngFromSeed(seed)
	idx := make([]int, nCfg)
	for b := 1; b <= replicas; b++ {
		drawIndices(idx, nCfg, r)
		dst := out[b*width : (b+1)*width]
		for _, k := range idx {
			src := raw.data[k*width : (k+1)*width]
			for j, v := range src {
				dst[j] += v * inv
			}
		}
	}

	return &Dataset{samples: replicas + 1, time: raw.time, channels: raw.channels, data: out}, nil
}
