package pricing

import (
	"math"
	"sort"
)

// TimeValue is one sensitivity node: the derivative of present value with
// respect to the zero rate at time T on some curve.
type TimeValue struct {
	T     float64
	Value float64
}

// CurveSensitivity maps curve names to lists of zero-rate sensitivity nodes.
// Nodes accumulate in arrival order; call Cleaned before comparing.
type CurveSensitivity map[string][]TimeValue

// Add appends a node for the named curve.
func (s CurveSensitivity) Add(name string, t, value float64) {
	s[name] = append(s[name], TimeValue{T: t, Value: value})
}

// AddAll merges every node of o into s.
func (s CurveSensitivity) AddAll(o CurveSensitivity) {
	for name, nodes := range o {
		s[name] = append(s[name], nodes...)
	}
}

// Scale multiplies every node value in place.
func (s CurveSensitivity) Scale(f float64) CurveSensitivity {
	for name, nodes := range s {
		for i := range nodes {
			nodes[i].Value *= f
		}
		s[name] = nodes
	}
	return s
}

const cleanTimeTol = 1e-12

// Cleaned returns a canonical copy: per curve, nodes sorted by time with
// nodes at the same time summed into one. Two sensitivities representing the
// same derivative clean to equal contents.
func (s CurveSensitivity) Cleaned() CurveSensitivity {
	out := make(CurveSensitivity, len(s))
	for name, nodes := range s {
		sorted := make([]TimeValue, len(nodes))
		copy(sorted, nodes)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a].T < sorted[b].T })
		merged := make([]TimeValue, 0, len(sorted))
		for _, n := range sorted {
			if k := len(merged) - 1; k >= 0 && math.Abs(merged[k].T-n.T) < cleanTimeTol {
				merged[k].Value += n.Value
				continue
			}
			merged = append(merged, n)
		}
		out[name] = merged
	}
	return out
}

// ValueAt returns the summed sensitivity at time t on the named curve.
func (s CurveSensitivity) ValueAt(name string, t float64) float64 {
	total := 0.0
	for _, n := range s[name] {
		if math.Abs(n.T-t) < 1e-9 {
			total += n.Value
		}
	}
	return total
}

// ExpiryTenor identifies a swaption surface node.
type ExpiryTenor struct {
	Expiry float64
	Tenor  float64
}

// SABRSensitivity holds present value derivatives with respect to the SABR
// parameters, one entry per surface node touched.
type SABRSensitivity struct {
	Alpha map[ExpiryTenor]float64
	Rho   map[ExpiryTenor]float64
	Nu    map[ExpiryTenor]float64
}

// NewSABRSensitivity builds an empty sensitivity.
func NewSABRSensitivity() SABRSensitivity {
	return SABRSensitivity{
		Alpha: make(map[ExpiryTenor]float64),
		Rho:   make(map[ExpiryTenor]float64),
		Nu:    make(map[ExpiryTenor]float64),
	}
}

// Add accumulates node sensitivities at point.
func (s SABRSensitivity) Add(point ExpiryTenor, alpha, rho, nu float64) {
	s.Alpha[point] += alpha
	s.Rho[point] += rho
	s.Nu[point] += nu
}

// AddAll merges every node of o into s.
func (s SABRSensitivity) AddAll(o SABRSensitivity) {
	for p, v := range o.Alpha {
		s.Alpha[p] += v
	}
	for p, v := range o.Rho {
		s.Rho[p] += v
	}
	for p, v := range o.Nu {
		s.Nu[p] += v
	}
}
