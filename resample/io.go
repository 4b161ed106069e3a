// SPDX-License-Identifier: MIT

package resample

import "github.com/katalvlaran/latfit/internal/codec"

const fileMagic = "LATDATA1"

type dataFile struct {
	Samples  int
	Time     int
	Channels int
	Data     []float64
}

// Save writes d to path.
func (d *Dataset) Save(path string) error {
	return codec.WriteFile(path, fileMagic, dataFile{
		Samples: d.samples, Time: d.time, Channels: d.channels, Data: d.data,
	})
}

// Load reads a dataset written by Save.
func Load(path string) (*Dataset, error) {
	var f dataFile
	if err := codec.ReadFile(path, fileMagic, &f); err != nil {
		return nil, err
	}
	return NewDataset(f.Samples, f.Time, f.Channels, f.Data)
}
