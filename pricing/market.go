// Package pricing values time-denominated instruments on a market of named
// discount curves and a SABR parameter surface.
//
// Present value, curve sensitivity and SABR sensitivity are type-switch
// calculators over the derivative sum type. CMS products are priced by
// static replication against swaptions; everything else is discounted
// cash flows.
package pricing

import (
	"github.com/pvollan/rateslib/curve"
	"github.com/pvollan/rateslib/sabr"
)

// Market carries everything pricing needs: curves by name and the swaption
// volatility surface. SABR may be nil for products that never look at it.
type Market struct {
	Curves *curve.Bundle
	SABR   sabr.Surface
}

// WithCurve returns a copy of the market with the named curve replaced.
// Used by finite-difference checks; the receiver is unchanged.
func (m Market) WithCurve(name string, c curve.Curve) Market {
	return Market{Curves: m.Curves.WithCurve(name, c), SABR: m.SABR}
}
