package curve

import (
	"errors"
	"fmt"
)

// ErrCurveNotFound is returned when a bundle has no curve under the
// requested name. Missing data is never silently defaulted.
var ErrCurveNotFound = errors.New("curve not found")

// Bundle is a set of named curves. The zero value is not usable; construct
// with NewBundle.
type Bundle struct {
	curves map[string]Curve
}

// NewBundle builds an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{curves: make(map[string]Curve)}
}

// Set registers c under name, replacing any previous entry, and returns the
// bundle for chaining.
func (b *Bundle) Set(name string, c Curve) *Bundle {
	b.curves[name] = c
	return b
}

// Curve looks up the curve registered under name.
func (b *Bundle) Curve(name string) (Curve, error) {
	c, ok := b.curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCurveNotFound, name)
	}
	return c, nil
}

// DiscountFactor looks up name and evaluates its discount factor at t.
func (b *Bundle) DiscountFactor(name string, t float64) (float64, error) {
	c, err := b.Curve(name)
	if err != nil {
		return 0, err
	}
	return c.DiscountFactor(t), nil
}

// ForwardRate computes the simple forward rate over [start, end] implied by
// the named curve's discount factors and the accrual fraction.
func (b *Bundle) ForwardRate(name string, start, end, accrual float64) (float64, error) {
	c, err := b.Curve(name)
	if err != nil {
		return 0, err
	}
	if accrual == 0 {
		return 0, nil
	}
	return (c.DiscountFactor(start)/c.DiscountFactor(end) - 1.0) / accrual, nil
}

// WithCurve returns a copy of the bundle with name bound to c. The receiver
// is unchanged; existing curves are shared.
func (b *Bundle) WithCurve(name string, c Curve) *Bundle {
	out := NewBundle()
	for n, cv := range b.curves {
		out.curves[n] = cv
	}
	out.curves[name] = c
	return out
}
