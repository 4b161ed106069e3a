// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/latfit/fit"
	"github.com/katalvlaran/latfit/resample"
	"github.com/katalvlaran/latfit/scan"
	"github.com/katalvlaran/latfit/store"
)

func (a *app) scanCmd() *cobra.Command {
	var dataPath, out, chainPath, corrID string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Fit every configured range of a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := resample.Load(dataPath)
			if err != nil {
				return fmt.Errorf("load %s: %w", dataPath, err)
			}
			var chain *scan.Chain
			if chainPath != "" {
				old, err := store.Load(chainPath)
				if err != nil {
					return fmt.Errorf("load %s: %w", chainPath, err)
				}
				chain = &scan.Chain{Store: old, Params: a.cfg.Scan.OldFitParams, UseAll: a.cfg.Scan.UseAll}
			}

			kind, err := a.cfg.Kind()
			if err != nil {
				return err
			}
			ft, err := fit.NewKind(kind, a.cfg.FitOptions(a.log, a.metrics)...)
			if err != nil {
				return err
			}
			sc, err := scan.New(ft, a.cfg.ScanOptions(a.log, a.metrics)...)
			if err != nil {
				return err
			}
			plan, err := scan.NewPlan(data, a.cfg.RangeSpec(), chain)
			if err != nil {
				return err
			}
			if corrID == "" {
				corrID = strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))
			}

			st, skipped, err := sc.Run(cmd.Context(), plan, data, a.cfg.Fit.Start, a.cfg.Fit.Constants, corrID)
			if err != nil {
				return err
			}
			if err := st.Save(out); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: %d ranges fitted, %d skipped, run %s\n", out, len(plan.Jobs)-len(skipped), len(skipped), st.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&dataPath, "data", "data.lat", "input dataset file")
	f.StringVar(&out, "out", "fit.lfr", "output fit-result file")
	f.StringVar(&chainPath, "chain", "", "earlier fit-result file whose parameters feed the model")
	f.StringVar(&corrID, "corr", "", "correlator identifier (default: dataset file name)")
	return cmd
}
