// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/latfit/config"
	"github.com/katalvlaran/latfit/metrics"
)

// app is the state shared by all subcommands, resolved before each run.
type app struct {
	out, errOut io.Writer

	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string

	cfg     config.Config
	log     *slog.Logger
	reg     *prometheus.Registry
	metrics *metrics.Recorder
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	root := &cobra.Command{
		Use:           "latfit",
		Short:         "Fit-range ensembles and systematic errors for lattice correlators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.metricsFile == "" {
				return nil
			}
			return prometheus.WriteToTextfile(a.metricsFile, a.reg)
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML configuration file")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.logFormat, "log-format", "", "log format: text, json")
	f.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(a.synthCmd(), a.scanCmd(), a.summaryCmd(), a.combineCmd())
	return root
}

// setup loads the configuration, applies flag overrides and builds the
// logger and metrics registry.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Log.NewLogger(a.errOut)
	a.reg = prometheus.NewRegistry()
	a.metrics = metrics.New(a.reg)
	return nil
}
