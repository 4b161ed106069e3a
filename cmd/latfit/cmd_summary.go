// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/latfit/store"
	"github.com/katalvlaran/latfit/systematic"
)

func (a *app) summaryCmd() *cobra.Command {
	var par int
	cmd := &cobra.Command{
		Use:   "summary [flags] FILE...",
		Short: "Print value, statistical and systematic error per slot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				st, err := store.Load(path)
				if err != nil {
					return fmt.Errorf("load %s: %w", path, err)
				}
				est, err := systematic.Estimates(st, par)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(a.out, "%s (%s, parameter %d)\n", st.CorrID, path, par)
				for _, e := range est {
					fmt.Fprintf(a.out, "  %s\n", e)
					if e.Dropped > 0 {
						a.log.Warn("samples dropped", "corr", st.CorrID, "slot", e.Label, "dropped", e.Dropped)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&par, "param", 1, "parameter index")
	return cmd
}
