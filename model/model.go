// SPDX-License-Identifier: MIT

// Package model defines the fit-function plugin contract and the predefined
// correlator models.
//
// A model is any Func: it receives the parameter vector, one value of the
// independent variable (the time slice) and optional auxiliary constants,
// and returns the model prediction. Predefined models are selected through
// Kind, which is resolved to a Func once, at construction time.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Func is the fit-function contract: p are the fit parameters, t the time
// slice and aux additional constants (lattice extent, energies from a
// previous fit, ...). Implementations must not retain or mutate p or aux.
type Func func(p []float64, t float64, aux []float64) float64

// Kind enumerates the predefined models.
type Kind int

const (
	// SingleCorr is a symmetric two-point correlator, see SingleCorrFunc.
	SingleCorr Kind = iota
	// Ratio is the four-point over two-point ratio, see RatioFunc.
	Ratio
	// Const is a constant, see ConstFunc.
	Const
)

// ErrUnknownKind is returned for kinds or names with no predefined model.
var ErrUnknownKind = errors.New("model: unknown model kind")

var kindNames = map[Kind]string{
	SingleCorr: "single_corr",
	Ratio:      "ratio",
	Const:      "const",
}

var kindFuncs = map[Kind]Func{
	SingleCorr: SingleCorrFunc,
	Ratio:      RatioFunc,
	Const:      ConstFunc,
}

// String returns the configuration name of k.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Lookup resolves a predefined model.
func Lookup(k Kind) (Func, error) {
	f, ok := kindFuncs[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return f, nil
}

// ParseKind maps a configuration name ("single_corr", "ratio", "const") to a Kind.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, v := range kindNames {
		if v == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// SingleCorrFunc is 0.5·p0²·(e^{−p1·t} + e^{−p1·(T2−t)}) with T2 = aux[0],
// the time around which the correlator is symmetric. Without aux only the
// forward exponential is kept.
func SingleCorrFunc(p []float64, t float64, aux []float64) float64 {
	amp := 0.5 * p[0] * p[0]
	if len(aux) == 0 {
		return amp * math.Exp(-p[1]*t)
	}
	return amp * (math.Exp(-p[1]*t) + math.Exp(-p[1]*(aux[0]-t)))
}

// RatioFunc describes the ratio of a four-point and two two-point functions:
//
//	p0·(cosh(p1·(t−o0−1)) + sinh(p1·(t−o0/2)) / tanh(2·o1·(t−o0/2)))
//
// where p1 is the energy difference, o0 = aux[0] the time extent and
// o1 = aux[1] the single-particle energy.
func RatioFunc(p []float64, t float64, aux []float64) float64 {
	o0, o1 := aux[0], aux[1]
	return p[0] * (math.Cosh(p[1]*(t-o0-1)) + math.Sinh(p[1]*(t-o0/2))/math.Tanh(2*o1*(t-o0/2)))
}

// ConstFunc returns p0 for every t.
func ConstFunc(p []float64, _ float64, _ []float64) float64 {
	return p[0]
}
