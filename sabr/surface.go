package sabr

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoParameters is returned when a surface has no SABR node covering the
// requested expiry/tenor. Missing data is never silently defaulted.
var ErrNoParameters = errors.New("sabr parameters not found")

// Surface provides SABR parameters by option expiry and underlying swap
// tenor, both in years.
type Surface interface {
	Parameters(expiry, tenor float64) (Parameters, error)
}

// ConstantSurface returns the same parameters for every expiry and tenor.
type ConstantSurface Parameters

func (s ConstantSurface) Parameters(expiry, tenor float64) (Parameters, error) {
	return Parameters(s), nil
}

// GridSurface interpolates each SABR parameter bilinearly on an
// expiry-by-tenor grid, with flat extrapolation outside the grid.
type GridSurface struct {
	expiries []float64
	tenors   []float64
	nodes    [][]Parameters // nodes[i][j] at (expiries[i], tenors[j])
}

// NewGridSurface builds a GridSurface. Expiries and tenors must be strictly
// increasing; nodes must be len(expiries) rows of len(tenors) entries.
func NewGridSurface(expiries, tenors []float64, nodes [][]Parameters) (*GridSurface, error) {
	if len(expiries) == 0 || len(tenors) == 0 {
		return nil, fmt.Errorf("NewGridSurface: empty axis")
	}
	if !sort.Float64sAreSorted(expiries) || !sort.Float64sAreSorted(tenors) {
		return nil, fmt.Errorf("NewGridSurface: axes must be sorted")
	}
	if len(nodes) != len(expiries) {
		return nil, fmt.Errorf("NewGridSurface: %d node rows for %d expiries", len(nodes), len(expiries))
	}
	for i, row := range nodes {
		if len(row) != len(tenors) {
			return nil, fmt.Errorf("NewGridSurface: row %d has %d nodes for %d tenors", i, len(row), len(tenors))
		}
	}
	return &GridSurface{expiries: expiries, tenors: tenors, nodes: nodes}, nil
}

func (s *GridSurface) Parameters(expiry, tenor float64) (Parameters, error) {
	i0, i1, wi := bracket(s.expiries, expiry)
	j0, j1, wj := bracket(s.tenors, tenor)
	blend := func(get func(Parameters) float64) float64 {
		v00 := get(s.nodes[i0][j0])
		v01 := get(s.nodes[i0][j1])
		v10 := get(s.nodes[i1][j0])
		v11 := get(s.nodes[i1][j1])
		return (1-wi)*((1-wj)*v00+wj*v01) + wi*((1-wj)*v10+wj*v11)
	}
	return Parameters{
		Alpha: blend(func(p Parameters) float64 { return p.Alpha }),
		Beta:  blend(func(p Parameters) float64 { return p.Beta }),
		Rho:   blend(func(p Parameters) float64 { return p.Rho }),
		Nu:    blend(func(p Parameters) float64 { return p.Nu }),
	}, nil
}

// bracket returns the surrounding indices for v on a sorted axis and the
// interpolation weight toward the upper index.
func bracket(axis []float64, v float64) (lo, hi int, w float64) {
	n := len(axis)
	if v <= axis[0] || n == 1 {
		return 0, 0, 0
	}
	if v >= axis[n-1] {
		return n - 1, n - 1, 0
	}
	i := sort.SearchFloat64s(axis, v)
	if axis[i] == v {
		return i, i, 0
	}
	lo, hi = i-1, i
	w = (v - axis[lo]) / (axis[hi] - axis[lo])
	return lo, hi, w
}
