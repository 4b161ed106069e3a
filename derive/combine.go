// SPDX-License-Identifier: MIT

package derive

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/latfit/store"
	"github.com/katalvlaran/latfit/systematic"
)

// LuescherConstants are the coefficients c1, c2, c3 of the finite-volume
// expansion ΔE = −4πa/(mL³)·(1 + c1·a/L + c2·a²/L² + ...).
var LuescherConstants = [3]float64{-2.837297, 6.375183, -8.311951}

// ErrShape reports stores whose sample or range axes do not line up.
var ErrShape = errors.New("derive: incompatible stores")

// Quantity is a derived result: the derived store and its estimates.
type Quantity struct {
	Store     *store.Store
	Estimates []systematic.Estimate
}

// EnergyDifference forms ΔE = E − 2m per sample and fit pair. In ratio mode
// the own parameter already is ΔE.
func EnergyDifference(self, mass *store.Store, selfPar, massPar int, isRatio bool) (*Quantity, error) {
	return combine(self, mass, selfPar, massPar, isRatio, "_dE", func(dE, _ float64) float64 { return dE })
}

// ScatteringLength solves the Lüscher expansion
//
//	−4π/(m·L³)·(a + c1·a²/L + c2·a³/L²) = ΔE
//
// for a per sample and fit pair and keeps the most nearly real root.
func ScatteringLength(self, mass *store.Store, selfPar, massPar int, L float64, isRatio bool) (*Quantity, error) {
	if !(L > 0) {
		return nil, fmt.Errorf("%w: lattice extent %g", ErrShape, L)
	}
	c := LuescherConstants
	return combine(self, mass, selfPar, massPar, isRatio, "_a0", func(dE, m float64) float64 {
		pre := -4 * math.Pi / (m * L * L * L)
		roots, err := CubicRoots(pre*c[1]/(L*L), pre*c[0]/L, pre, -dE)
		if err != nil {
			return math.NaN()
		}
		return real(SelectPhysicalRoot(roots))
	})
}

// massFit is parameter massPar of one mass slot with its fit weights.
type massFit struct {
	slot    *store.Slot
	values  *mat.Dense
	weights []float64
}

// massFits resolves mass slots by label and caches their values.
type massFits struct {
	st    *store.Store
	par   int
	cache map[string]*massFit
}

func (m *massFits) get(label []int) (*massFit, error) {
	k := fmt.Sprint(label)
	if mf, ok := m.cache[k]; ok {
		return mf, nil
	}
	sl, err := m.st.Slot(label...)
	if err != nil {
		return nil, err
	}
	v, err := sl.Param(m.par)
	if err != nil {
		return nil, err
	}
	mf := &massFit{slot: sl, values: v, weights: weightsOf(m.st, sl, v)}
	m.cache[k] = mf
	return mf, nil
}

// massLabel selects the mass slot paired with an own slot. Chained (ratio)
// fits carry the mass channels as the leading label components; everything
// else uses mass slot 0.
func massLabel(mass *store.Store, sl *store.Slot, isRatio bool) []int {
	d := len(mass.Channels)
	if isRatio && len(sl.Label) > d {
		if _, err := mass.Slot(sl.Label[:d]...); err == nil {
			return sl.Label[:d]
		}
	}
	return make([]int, d)
}

// combine evaluates f(ΔE, m) for every sample and every (mass fit, own fit)
// pair of every slot of self. In ratio mode each own slot is paired with the
// mass slot it was chained on.
func combine(self, mass *store.Store, selfPar, massPar int, isRatio bool, suffix string, f func(dE, m float64) float64) (*Quantity, error) {
	if !self.Initialized() || !mass.Initialized() {
		return nil, store.ErrNotInitialized
	}
	masses := &massFits{st: mass, par: massPar, cache: make(map[string]*massFit)}
	if _, err := masses.get(make([]int, len(mass.Channels))); err != nil {
		return nil, err
	}

	var slots []*store.Slot
	for _, sl := range self.Slots() {
		mf, err := masses.get(massLabel(mass, sl, isRatio))
		if err != nil {
			return nil, err
		}
		ms, mv, mw := mf.slot, mf.values, mf.weights
		nm := len(mw)
		if sl.Samples() != ms.Samples() {
			return nil, fmt.Errorf("%w: %d samples against %d mass samples", ErrShape, sl.Samples(), ms.Samples())
		}
		sv, err := sl.Param(selfPar)
		if err != nil {
			return nil, err
		}
		sw := weightsOf(self, sl, sv)

		var out *store.Slot
		if isRatio {
			if !hasPrefix(sl.RangeShape(), ms.RangeShape()) {
				return nil, fmt.Errorf("%w: slot %v ranges %v do not start with mass ranges %v",
					ErrShape, sl.Label, sl.RangeShape(), ms.RangeShape())
			}
			out = ratioSlot(sl, sv, sw, mv, mw, f)
		} else {
			shape := slices.Concat(ms.RangeShape(), sl.RangeShape())
			out = newSlot(sl.Label, sl.Samples(), shape)
			ns := len(sw)
			for j := 0; j < nm; j++ {
				for i := 0; i < ns; i++ {
					r := j*ns + i
					out.Weights.Data[r] = mw[j] * sw[i]
					for b := 0; b < sl.Samples(); b++ {
						m := mv.At(b, j)
						out.Data.Data[b*len(out.Weights.Data)+r] = eval(f, sv.At(b, i)-2*m, m)
					}
				}
			}
		}
		slots = append(slots, out)
	}

	st, err := store.NewDerived(self.CorrID+suffix, self.Channels, slots)
	if err != nil {
		return nil, err
	}
	est, err := systematic.Estimates(st, 0)
	if err != nil {
		return nil, err
	}
	return &Quantity{Store: st, Estimates: est}, nil
}

// ratioSlot handles own fits whose leading range axes are the mass fits.
func ratioSlot(sl *store.Slot, sv *mat.Dense, sw []float64, mv *mat.Dense, mw []float64, f func(dE, m float64) float64) *store.Slot {
	out := newSlot(sl.Label, sl.Samples(), sl.RangeShape())
	nr, nm := len(sw), len(mw)
	per := nr / nm
	for r := 0; r < nr; r++ {
		j := r / per
		out.Weights.Data[r] = mw[j] * sw[r]
		for b := 0; b < sl.Samples(); b++ {
			out.Data.Data[b*nr+r] = eval(f, sv.At(b, r), mv.At(b, j))
		}
	}
	return out
}

func eval(f func(dE, m float64) float64, dE, m float64) float64 {
	if math.IsNaN(dE) || math.IsNaN(m) {
		return math.NaN()
	}
	return f(dE, m)
}

func newSlot(label []int, samples int, rangeShape []int) *store.Slot {
	other := append([]int{samples}, rangeShape...)
	w := store.NewTensor(rangeShape...)
	for i := range w.Data {
		w.Data[i] = 0
	}
	return &store.Slot{
		Label:   slices.Clone(label),
		Data:    store.NewTensor(slices.Concat([]int{samples, 1}, rangeShape)...),
		Chi2:    store.NewTensor(other...),
		PValue:  store.NewTensor(other...),
		Weights: w,
	}
}

func weightsOf(st *store.Store, sl *store.Slot, values *mat.Dense) []float64 {
	if st.Derived {
		return slices.Clone(sl.Weights.Data)
	}
	return systematic.Weights(values, sl.AnchorPValues())
}

func hasPrefix(shape, prefix []int) bool {
	return len(shape) > len(prefix) && slices.Equal(shape[:len(prefix)], prefix)
}
