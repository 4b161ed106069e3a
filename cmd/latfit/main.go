// SPDX-License-Identifier: MIT

// Command latfit runs fit-range ensembles over resampled lattice correlators.
//
//	latfit synth --out data.lat
//	latfit scan --config cfg.yaml --data data.lat --out fit.lfr
//	latfit summary --param 1 fit.lfr
//	latfit combine --mode scat --self pipi.lfr --mass pi.lfr --L 24 --out a0.lfr
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "latfit:", err)
		os.Exit(1)
	}
}
