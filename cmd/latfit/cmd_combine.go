// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/latfit/derive"
	"github.com/katalvlaran/latfit/store"
)

func (a *app) combineCmd() *cobra.Command {
	var (
		mode, selfPath, massPath, out string
		selfPar, massPar              int
		L                             float64
		ratio                         bool
	)
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Derive an energy difference or scattering length from two fits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			self, err := store.Load(selfPath)
			if err != nil {
				return fmt.Errorf("load %s: %w", selfPath, err)
			}
			mass, err := store.Load(massPath)
			if err != nil {
				return fmt.Errorf("load %s: %w", massPath, err)
			}

			var q *derive.Quantity
			switch mode {
			case "de":
				q, err = derive.EnergyDifference(self, mass, selfPar, massPar, ratio)
			case "scat":
				q, err = derive.ScatteringLength(self, mass, selfPar, massPar, L, ratio)
			default:
				return fmt.Errorf("unknown mode %q (want de or scat)", mode)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, q.Store.CorrID)
			for _, e := range q.Estimates {
				fmt.Fprintf(a.out, "  %s\n", e)
			}
			if out != "" {
				if err := q.Store.Save(out); err != nil {
					return err
				}
				a.log.Info("derived store written", "path", out, "corr", q.Store.CorrID, "run", q.Store.ID)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&mode, "mode", "de", "derived quantity: de or scat")
	f.StringVar(&selfPath, "self", "", "fit-result file of the interacting state")
	f.StringVar(&massPath, "mass", "", "fit-result file of the single-particle mass")
	f.IntVar(&selfPar, "self-param", 1, "parameter index in the interacting fit")
	f.IntVar(&massPar, "mass-param", 1, "parameter index in the mass fit")
	f.Float64Var(&L, "L", 24, "spatial lattice extent")
	f.BoolVar(&ratio, "ratio", false, "the interacting fit already measures ΔE")
	f.StringVar(&out, "out", "", "optional output file for the derived store")
	_ = cmd.MarkFlagRequired("self")
	_ = cmd.MarkFlagRequired("mass")
	return cmd
}
