// SPDX-License-Identifier: MIT

// Package config loads the analysis configuration from YAML.
//
// Values are resolved in three layers: Default, then the YAML file, then
// LATFIT_* environment variables. The result is validated with struct tags
// before use. Library packages never see this type; Config converts itself
// into their functional options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/latfit/fit"
	"github.com/katalvlaran/latfit/fitrange"
	"github.com/katalvlaran/latfit/metrics"
	"github.com/katalvlaran/latfit/model"
	"github.com/katalvlaran/latfit/scan"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full analysis configuration.
type Config struct {
	Fit       FitConfig       `yaml:"fit"`
	Scan      ScanConfig      `yaml:"scan"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Log       LogConfig       `yaml:"log"`
}

// FitConfig configures the correlated fitter.
type FitConfig struct {
	Model         string    `yaml:"model" validate:"required,oneof=single_corr ratio const"`
	Start         []float64 `yaml:"start" validate:"required,min=1"`
	Constants     []float64 `yaml:"constants"`
	Correlated    bool      `yaml:"correlated"`
	Workers       int       `yaml:"workers" validate:"gte=0"`
	MaxIterations int       `yaml:"max_iterations" validate:"gte=1"`
	FTol          float64   `yaml:"ftol" validate:"gt=0"`
	XTol          float64   `yaml:"xtol" validate:"gt=0"`
}

// ScanConfig configures fit-range enumeration and chaining.
type ScanConfig struct {
	Windows      []fitrange.Window `yaml:"windows" validate:"required,min=1"`
	MinWidth     int               `yaml:"min_width" validate:"gte=1"`
	Step         int               `yaml:"step" validate:"gte=1"`
	Workers      int               `yaml:"workers" validate:"gte=0"`
	UseAll       bool              `yaml:"use_all"`
	OldFitParams []int             `yaml:"old_fit_params" validate:"dive,gte=0"`
}

// BootstrapConfig configures resampling of raw configurations.
type BootstrapConfig struct {
	Samples int   `yaml:"samples" validate:"gte=1"`
	Seed    int64 `yaml:"seed"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the documented defaults: a correlated single-correlator
// fit over all ranges of width ≥ 4 on a step of 2, 1000 bootstrap samples.
func Default() Config {
	return Config{
		Fit: FitConfig{
			Model:         model.SingleCorr.String(),
			Start:         []float64{1, 0.5},
			Correlated:    true,
			MaxIterations: fit.DefaultMaxIterations,
			FTol:          fit.DefaultFTol,
			XTol:          fit.DefaultXTol,
		},
		Scan: ScanConfig{
			Windows:      []fitrange.Window{{Lo: 0, Hi: 0}},
			MinWidth:     4,
			Step:         2,
			OldFitParams: []int{1},
		},
		Bootstrap: BootstrapConfig{Samples: 1000, Seed: 1},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode reads YAML from r into cfg, rejecting unknown keys.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LATFIT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LATFIT_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("LATFIT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: LATFIT_WORKERS: %v", ErrInvalid, err)
		}
		c.Fit.Workers = n
	}
	if v := os.Getenv("LATFIT_BOOTSTRAP_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: LATFIT_BOOTSTRAP_SEED: %v", ErrInvalid, err)
		}
		c.Bootstrap.Seed = n
	}
	return nil
}

// Kind resolves the configured model.
func (c Config) Kind() (model.Kind, error) {
	return model.ParseKind(c.Fit.Model)
}

// FitOptions converts the fit section into fitter options.
func (c Config) FitOptions(log *slog.Logger, rec *metrics.Recorder) []fit.Option {
	opts := []fit.Option{
		fit.WithMaxIterations(c.Fit.MaxIterations),
		fit.WithTolerance(c.Fit.FTol, c.Fit.XTol),
		fit.WithLogger(log),
		fit.WithMetrics(rec),
	}
	if !c.Fit.Correlated {
		opts = append(opts, fit.WithUncorrelated())
	}
	if c.Fit.Workers > 0 {
		opts = append(opts, fit.WithWorkers(c.Fit.Workers))
	}
	return opts
}

// ScanOptions converts the scan section into scanner options.
func (c Config) ScanOptions(log *slog.Logger, rec *metrics.Recorder) []scan.Option {
	opts := []scan.Option{scan.WithLogger(log), scan.WithMetrics(rec)}
	if c.Scan.Workers > 0 {
		opts = append(opts, scan.WithWorkers(c.Scan.Workers))
	}
	return opts
}

// RangeSpec returns the fit-range enumeration of the scan section.
func (c Config) RangeSpec() fitrange.Spec {
	return fitrange.Spec{Windows: c.Scan.Windows, MinWidth: c.Scan.MinWidth, Step: c.Scan.Step}
}

// SlogLevel maps the configured level name to a slog level.
func (l LogConfig) SlogLevel() slog.Level {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lv
}

// NewLogger builds the configured logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
