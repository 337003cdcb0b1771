// Package curve provides discount curves keyed by year-fraction time and a
// named bundle for pricing calls.
//
// Curves are consumed as already-built black boxes; bootstrapping and
// calibration live upstream.
package curve

import (
	"math"
	"sort"
)

// Curve provides discount factors and continuously-compounded zero rates for
// a year-fraction time measured from the curve's anchor date.
type Curve interface {
	DiscountFactor(t float64) float64
	ZeroRate(t float64) float64
}

// ConstantYield is a flat continuously-compounded zero curve.
type ConstantYield float64

func (c ConstantYield) DiscountFactor(t float64) float64 {
	return math.Exp(-float64(c) * t)
}

func (c ConstantYield) ZeroRate(float64) float64 { return float64(c) }

// ZeroCurve interpolates continuously-compounded zero rates linearly in time
// and extrapolates flat beyond the first and last nodes.
type ZeroCurve struct {
	times []float64
	rates []float64
}

// NewZeroCurve builds a ZeroCurve from parallel time/rate slices. The inputs
// are copied and sorted by time.
func NewZeroCurve(times, rates []float64) *ZeroCurve {
	n := len(times)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return times[idx[a]] < times[idx[b]] })
	c := &ZeroCurve{times: make([]float64, n), rates: make([]float64, n)}
	for i, j := range idx {
		c.times[i] = times[j]
		c.rates[i] = rates[j]
	}
	return c
}

func (c *ZeroCurve) ZeroRate(t float64) float64 {
	n := len(c.times)
	if n == 0 {
		return 0
	}
	if t <= c.times[0] {
		return c.rates[0]
	}
	if t >= c.times[n-1] {
		return c.rates[n-1]
	}
	i := sort.SearchFloat64s(c.times, t)
	if c.times[i] == t {
		return c.rates[i]
	}
	t0, t1 := c.times[i-1], c.times[i]
	r0, r1 := c.rates[i-1], c.rates[i]
	return r0 + (r1-r0)*(t-t0)/(t1-t0)
}

func (c *ZeroCurve) DiscountFactor(t float64) float64 {
	return math.Exp(-c.ZeroRate(t) * t)
}

// NodeShift bumps the zero rate of Base by Shift at the single time T only.
// Queries at any other time pass through unchanged. This is the pointwise
// bump used by finite-difference sensitivity checks against instruments whose
// curve queries all fall on known cash-flow times.
type NodeShift struct {
	Base  Curve
	T     float64
	Shift float64
}

const nodeShiftTol = 1e-9

func (s NodeShift) ZeroRate(t float64) float64 {
	r := s.Base.ZeroRate(t)
	if math.Abs(t-s.T) < nodeShiftTol {
		r += s.Shift
	}
	return r
}

func (s NodeShift) DiscountFactor(t float64) float64 {
	df := s.Base.DiscountFactor(t)
	if math.Abs(t-s.T) < nodeShiftTol {
		df *= math.Exp(-s.Shift * t)
	}
	return df
}
