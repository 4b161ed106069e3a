// SPDX-License-Identifier: MIT

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/latfit/config"
	"github.com/katalvlaran/latfit/fit"
	"github.com/katalvlaran/latfit/fitrange"
	"github.com/katalvlaran/latfit/model"
)

const sample = `
fit:
  model: ratio
  start: [1.0, 0.01]
  constants: [48, 0.2]
  correlated: false
  workers: 3
scan:
  windows:
    - {lo: 8, hi: -4}
  min_width: 6
  step: 1
  use_all: true
bootstrap:
  samples: 500
  seed: 42
log:
  level: debug
  format: json
`

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(write(t, sample))
	require.NoError(t, err)

	k, err := cfg.Kind()
	require.NoError(t, err)
	assert.Equal(t, model.Ratio, k)
	assert.Equal(t, []float64{48, 0.2}, cfg.Fit.Constants)
	assert.Equal(t, fit.DefaultMaxIterations, cfg.Fit.MaxIterations)
	assert.Equal(t, fitrange.Spec{Windows: []fitrange.Window{{Lo: 8, Hi: -4}}, MinWidth: 6, Step: 1}, cfg.RangeSpec())
	assert.True(t, cfg.Scan.UseAll)
	assert.Equal(t, int64(42), cfg.Bootstrap.Seed)

	ft, err := fit.NewKind(k, cfg.FitOptions(nil, nil)...)
	require.NoError(t, err)
	assert.True(t, ft.Options().Uncorrelated)
	assert.Equal(t, 3, ft.Options().Workers)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := config.Load(write(t, "fit:\n  modle: const\n"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"model":    "fit:\n  model: chipt\n",
		"start":    "fit:\n  start: []\n",
		"width":    "scan:\n  min_width: 0\n",
		"level":    "log:\n  level: loud\n",
		"samples":  "bootstrap:\n  samples: 0\n",
		"negative": "scan:\n  old_fit_params: [-1]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, body))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LATFIT_WORKERS", "5")
	t.Setenv("LATFIT_LOG_LEVEL", "warn")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Fit.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Setenv("LATFIT_WORKERS", "many")
	_, err = config.Load("")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := config.LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"k":1`)
}
