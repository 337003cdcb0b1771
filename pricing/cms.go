package pricing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/pvollan/rateslib/derivative"
	"github.com/pvollan/rateslib/money"
	"github.com/pvollan/rateslib/sabr"
)

// ErrDegenerate is returned when the replication inputs cannot support a
// price: an empty or zero-level underlying swap, or a fixing already past.
var ErrDegenerate = errors.New("pricing: degenerate cms replication inputs")

// CMSReplicationConfig controls the numerical integration of the swaption
// replication integral.
type CMSReplicationConfig struct {
	// IntegrationInterval is the strike width above the cap strike covered
	// by the integral. Beyond it the integrand is treated as negligible.
	IntegrationInterval float64
	// Panels is the number of Simpson panels on the integration range.
	Panels int
}

// DefaultCMSReplicationConfig returns the settings used when a caller does
// not supply its own.
func DefaultCMSReplicationConfig() CMSReplicationConfig {
	return CMSReplicationConfig{IntegrationInterval: 1.00, Panels: 400}
}

// CMSReplication prices CMS coupons and cap/floors by static replication
// with a strip of cash-settled swaptions under a SABR smile. A coupon is
// priced as a cap struck at zero.
type CMSReplication struct {
	cfg CMSReplicationConfig
}

// NewCMSReplication builds a method with explicit settings.
func NewCMSReplication(cfg CMSReplicationConfig) *CMSReplication {
	if cfg.Panels < 2 {
		cfg.Panels = 2
	}
	if cfg.Panels%2 == 1 {
		cfg.Panels++
	}
	return &CMSReplication{cfg: cfg}
}

// DefaultCMSReplication builds a method with the default settings.
func DefaultCMSReplication() *CMSReplication {
	return NewCMSReplication(DefaultCMSReplicationConfig())
}

// PresentValue prices a CMS coupon as a cap at strike zero.
func (m *CMSReplication) PresentValue(c derivative.CMSCoupon, market Market) (money.MultiAmount, error) {
	return m.PresentValueCapFloor(derivative.CMSCapFloor{Coupon: c, Strike: 0, IsCap: true}, market)
}

// PresentValueCapFloor prices a CMS cap or floor by replication.
func (m *CMSReplication) PresentValueCapFloor(cf derivative.CMSCapFloor, market Market) (money.MultiAmount, error) {
	c := cf.Coupon
	if c.PaymentTime <= 0 {
		return money.Of(c.Currency, 0), nil
	}
	integ, dfPayment, err := m.newIntegrant(cf, market)
	if err != nil {
		return nil, fmt.Errorf("PresentValueCapFloor: %w", err)
	}
	pv := c.Notional * c.AccrualFactor * dfPayment * integ.levelFactor() * m.replicated(integ, cf.Strike)
	return money.Of(c.Currency, pv), nil
}

// replicated returns k(K)*price(K) plus the replication integral, without
// the notional, accrual and discount scaling.
func (m *CMSReplication) replicated(integ *cmsIntegrant, strike float64) float64 {
	part := integ.k(strike) * integ.optionPrice(strike)
	if integ.isCap {
		part += m.integrate(integ.integrand, strike, strike+m.cfg.IntegrationInterval)
	} else if strike > 0 {
		part += m.integrate(integ.integrand, 0, strike)
	}
	return part
}

// PresentValueCurveSensitivity differentiates the replicated price with
// respect to the zero rates at the cash-flow times of the payment and of the
// underlying swap.
func (m *CMSReplication) PresentValueCurveSensitivity(cf derivative.CMSCapFloor, market Market) (CurveSensitivity, error) {
	c := cf.Coupon
	out := make(CurveSensitivity)
	if c.PaymentTime <= 0 {
		return out, nil
	}
	integ, dfPayment, err := m.newIntegrant(cf, market)
	if err != nil {
		return nil, fmt.Errorf("PresentValueCurveSensitivity: %w", err)
	}
	scale := c.Notional * c.AccrualFactor

	replication := m.replicated(integ, cf.Strike)
	pv := scale * dfPayment * integ.levelFactor() * replication
	out.Add(c.FundingCurve, c.PaymentTime, -c.PaymentTime*pv)

	// Forward rate exposure: the level factor g/h and every option price
	// move with the swap rate.
	g, g1, _ := integ.gFunc(integ.forward)
	h, h1, _ := integ.hFunc(integ.forward)
	replicationDF := integ.k(cf.Strike)*integ.priceForwardDeriv(cf.Strike) + m.integrateForwardDeriv(integ, cf.Strike)
	dPVdF := scale * dfPayment * ((g1/h-g*h1/(h*h))*replication + (g/h)*replicationDF)

	if err := m.addSwapRateSensitivity(c.Underlying, market, dPVdF, out); err != nil {
		return nil, fmt.Errorf("PresentValueCurveSensitivity: %w", err)
	}
	return out, nil
}

// addSwapRateSensitivity maps dPV/dForward onto curve nodes through the
// par-rate formula of the underlying swap.
func (m *CMSReplication) addSwapRateSensitivity(swap derivative.FixedIborSwap, market Market, dPVdF float64, out CurveSensitivity) error {
	if len(swap.FixedLeg.Coupons) == 0 {
		return fmt.Errorf("empty fixed leg: %w", ErrDegenerate)
	}
	funding := swap.FixedLeg.Coupons[0].FundingCurve
	fund, err := market.Curves.Curve(funding)
	if err != nil {
		return err
	}
	level := 0.0
	for _, cp := range swap.FixedLeg.Coupons {
		level += math.Abs(cp.Notional) * cp.AccrualFactor * fund.DiscountFactor(cp.PaymentTime)
	}
	if level <= 0 {
		return fmt.Errorf("zero annuity: %w", ErrDegenerate)
	}
	num := 0.0
	for _, cp := range swap.IborLeg.Coupons {
		fwd, err := market.Curves.Curve(cp.ForwardCurve)
		if err != nil {
			return err
		}
		ratio := fwd.DiscountFactor(cp.FixingPeriodStart) / fwd.DiscountFactor(cp.FixingPeriodEnd)
		f := (ratio - 1.0) / cp.FixingAccrualFactor
		dfPay := fund.DiscountFactor(cp.PaymentTime)
		w := math.Abs(cp.Notional)
		num += w * cp.FixingAccrualFactor * f * dfPay

		out.Add(cp.ForwardCurve, cp.FixingPeriodStart, dPVdF*(-cp.FixingPeriodStart*ratio*w*dfPay/level))
		out.Add(cp.ForwardCurve, cp.FixingPeriodEnd, dPVdF*(cp.FixingPeriodEnd*ratio*w*dfPay/level))
		out.Add(funding, cp.PaymentTime, dPVdF*(-cp.PaymentTime*dfPay*w*cp.FixingAccrualFactor*f/level))
	}
	forward := num / level
	for _, cp := range swap.FixedLeg.Coupons {
		w := math.Abs(cp.Notional)
		dfPay := fund.DiscountFactor(cp.PaymentTime)
		out.Add(funding, cp.PaymentTime, dPVdF*(cp.PaymentTime*dfPay*w*cp.AccrualFactor*forward/level))
	}
	return nil
}

// PresentValueSABRSensitivity differentiates the replicated price with
// respect to the SABR parameters. All of a payment's exposure sits on the
// surface node at its own expiry and underlying tenor.
func (m *CMSReplication) PresentValueSABRSensitivity(cf derivative.CMSCapFloor, market Market) (SABRSensitivity, error) {
	c := cf.Coupon
	out := NewSABRSensitivity()
	if c.PaymentTime <= 0 {
		return out, nil
	}
	integ, dfPayment, err := m.newIntegrant(cf, market)
	if err != nil {
		return SABRSensitivity{}, fmt.Errorf("PresentValueSABRSensitivity: %w", err)
	}
	base := c.Notional * c.AccrualFactor * dfPayment * integ.levelFactor()

	alpha, rho, nu := integ.paramDerivs(cf.Strike)
	kK := integ.k(cf.Strike)
	alpha *= kK
	rho *= kK
	nu *= kK

	lo, hi := m.bounds(integ, cf.Strike)
	if hi > lo {
		ia, ir, in := m.integrate3(func(x float64) (float64, float64, float64) {
			w := integ.weight(x)
			a, r, n := integ.paramDerivs(x)
			return w * a, w * r, w * n
		}, lo, hi)
		alpha += ia
		rho += ir
		nu += in
	}
	out.Add(ExpiryTenor{Expiry: integ.expiry, Tenor: integ.tenor}, base*alpha, base*rho, base*nu)
	return out, nil
}

// PresentValueStrikeSensitivity differentiates the cap/floor price with
// respect to its strike.
func (m *CMSReplication) PresentValueStrikeSensitivity(cf derivative.CMSCapFloor, market Market) (float64, error) {
	c := cf.Coupon
	if c.PaymentTime <= 0 {
		return 0, nil
	}
	integ, dfPayment, err := m.newIntegrant(cf, market)
	if err != nil {
		return 0, fmt.Errorf("PresentValueStrikeSensitivity: %w", err)
	}
	strike := cf.Strike
	k1, _ := integ.kDerivs(strike)
	deriv := -k1*integ.optionPrice(strike) + integ.k(strike)*integ.priceStrikeDeriv(strike)
	if integ.isCap {
		upper := strike + m.cfg.IntegrationInterval
		deriv -= m.integrate(func(x float64) float64 {
			_, k2 := integ.kDerivs(x)
			return k2 * integ.optionPrice(x)
		}, strike, upper)
		k1U, k2U := integ.kDerivs(upper)
		deriv += (k2U*m.cfg.IntegrationInterval + 2*k1U) * integ.optionPrice(upper)
	} else if strike > 0 {
		deriv += m.integrate(func(x float64) float64 {
			_, k2 := integ.kDerivs(x)
			return k2 * integ.optionPrice(x)
		}, 0, strike)
	}
	return c.Notional * c.AccrualFactor * dfPayment * integ.levelFactor() * deriv, nil
}

func (m *CMSReplication) bounds(integ *cmsIntegrant, strike float64) (lo, hi float64) {
	if integ.isCap {
		return strike, strike + m.cfg.IntegrationInterval
	}
	return 0, strike
}

func (m *CMSReplication) integrateForwardDeriv(integ *cmsIntegrant, strike float64) float64 {
	lo, hi := m.bounds(integ, strike)
	if hi <= lo {
		return 0
	}
	return m.integrate(func(x float64) float64 {
		return integ.weight(x) * integ.priceForwardDeriv(x)
	}, lo, hi)
}

// newIntegrant resolves the underlying swap statistics and the SABR
// parameters at the payment's surface node.
func (m *CMSReplication) newIntegrant(cf derivative.CMSCapFloor, market Market) (*cmsIntegrant, float64, error) {
	c := cf.Coupon
	if c.FixingTime <= 0 {
		return nil, 0, fmt.Errorf("fixing at t=%.4f already past: %w", c.FixingTime, ErrDegenerate)
	}
	if market.SABR == nil {
		return nil, 0, fmt.Errorf("no sabr surface: %w", ErrDegenerate)
	}
	fixedCoupons := c.Underlying.FixedLeg.Coupons
	if len(fixedCoupons) == 0 {
		return nil, 0, fmt.Errorf("empty fixed leg: %w", ErrDegenerate)
	}
	funding := fixedCoupons[0].FundingCurve
	fund, err := market.Curves.Curve(funding)
	if err != nil {
		return nil, 0, err
	}

	periodsPerYear := math.Round(1.0 / fixedCoupons[0].AccrualFactor)
	if periodsPerYear <= 0 {
		return nil, 0, fmt.Errorf("fixed accrual %.6f: %w", fixedCoupons[0].AccrualFactor, ErrDegenerate)
	}
	tau := 1.0 / periodsPerYear

	level := 0.0
	for _, cp := range fixedCoupons {
		level += math.Abs(cp.Notional) * cp.AccrualFactor * fund.DiscountFactor(cp.PaymentTime)
	}
	if level <= 0 {
		return nil, 0, fmt.Errorf("zero annuity: %w", ErrDegenerate)
	}
	num := 0.0
	for _, cp := range c.Underlying.IborLeg.Coupons {
		fwd, err := market.Curves.Curve(cp.ForwardCurve)
		if err != nil {
			return nil, 0, err
		}
		f := (fwd.DiscountFactor(cp.FixingPeriodStart)/fwd.DiscountFactor(cp.FixingPeriodEnd) - 1.0) / cp.FixingAccrualFactor
		num += math.Abs(cp.Notional) * cp.FixingAccrualFactor * f * fund.DiscountFactor(cp.PaymentTime)
	}
	forward := num / level

	lastFixedPayment := fixedCoupons[len(fixedCoupons)-1].PaymentTime
	tenor := lastFixedPayment - c.SettlementTime
	params, err := market.SABR.Parameters(c.FixingTime, tenor)
	if err != nil {
		return nil, 0, err
	}
	dfPayment := fund.DiscountFactor(c.PaymentTime)

	return &cmsIntegrant{
		n:       len(fixedCoupons),
		tau:     tau,
		eta:     -(c.PaymentTime - c.SettlementTime) / tau,
		forward: forward,
		expiry:  c.FixingTime,
		tenor:   tenor,
		strike:  cf.Strike,
		isCap:   cf.IsCap,
		params:  params,
	}, dfPayment, nil
}

// integrate evaluates f on a uniform Simpson grid over [a, b].
func (m *CMSReplication) integrate(f func(float64) float64, a, b float64) float64 {
	if b <= a {
		return 0
	}
	n := m.cfg.Panels
	xs := make([]float64, n+1)
	ys := make([]float64, n+1)
	step := (b - a) / float64(n)
	for i := 0; i <= n; i++ {
		xs[i] = a + float64(i)*step
		ys[i] = f(xs[i])
	}
	return integrate.Simpsons(xs, ys)
}

// integrate3 evaluates a three-valued integrand on one shared grid.
func (m *CMSReplication) integrate3(f func(float64) (float64, float64, float64), a, b float64) (float64, float64, float64) {
	if b <= a {
		return 0, 0, 0
	}
	n := m.cfg.Panels
	xs := make([]float64, n+1)
	y1 := make([]float64, n+1)
	y2 := make([]float64, n+1)
	y3 := make([]float64, n+1)
	step := (b - a) / float64(n)
	for i := 0; i <= n; i++ {
		xs[i] = a + float64(i)*step
		y1[i], y2[i], y3[i] = f(xs[i])
	}
	return integrate.Simpsons(xs, y1), integrate.Simpsons(xs, y2), integrate.Simpsons(xs, y3)
}

// cmsIntegrant carries the one-factor annuity approximation. The swap level
// is modelled as G(S) = (1-(1+tau S)^-n)/S and the payment delay through
// h(S) = (1+tau S)^eta; the replicated payoff is weighted by k = h/G.
type cmsIntegrant struct {
	n       int
	tau     float64
	eta     float64
	forward float64
	expiry  float64
	tenor   float64
	strike  float64
	isCap   bool
	params  sabr.Parameters
}

// taylorThreshold bounds the rate below which G and its derivatives switch
// to series expansions; the closed forms lose precision as x -> 0.
const taylorThreshold = 1e-8

func (c *cmsIntegrant) gFunc(x float64) (g, g1, g2 float64) {
	nf := float64(c.n)
	if math.Abs(x) < taylorThreshold {
		nt := nf * c.tau
		n1t := nt * (nf + 1) * c.tau
		n2t := n1t * (nf + 2) * c.tau
		g = nt - n1t*x/2 + n2t*x*x/6
		g1 = -n1t/2 + n2t*x/3
		g2 = n2t / 3
		return g, g1, g2
	}
	base := 1 + c.tau*x
	u := math.Pow(base, -nf)
	u1 := -nf * c.tau * math.Pow(base, -nf-1)
	u2 := nf * (nf + 1) * c.tau * c.tau * math.Pow(base, -nf-2)
	g = (1 - u) / x
	g1 = -(u1 + g) / x
	g2 = -(u2 + 2*g1) / x
	return g, g1, g2
}

func (c *cmsIntegrant) hFunc(x float64) (h, h1, h2 float64) {
	base := 1 + c.tau*x
	h = math.Pow(base, c.eta)
	h1 = c.eta * c.tau * h / base
	h2 = (c.eta - 1) * c.tau * h1 / base
	return h, h1, h2
}

// levelFactor is g(F)/h(F), the model annuity per unit of payment discount.
func (c *cmsIntegrant) levelFactor() float64 {
	g, _, _ := c.gFunc(c.forward)
	h, _, _ := c.hFunc(c.forward)
	return g / h
}

func (c *cmsIntegrant) k(x float64) float64 {
	g, _, _ := c.gFunc(x)
	h, _, _ := c.hFunc(x)
	return h / g
}

func (c *cmsIntegrant) kDerivs(x float64) (k1, k2 float64) {
	g, g1, g2 := c.gFunc(x)
	h, h1, h2 := c.hFunc(x)
	k1 = (h1*g - h*g1) / (g * g)
	k2 = h2/g - 2*h1*g1/(g*g) - h*g2/(g*g) + 2*h*g1*g1/(g*g*g)
	return k1, k2
}

func (c *cmsIntegrant) vol(x float64) float64 {
	return sabr.Volatility(c.params, c.expiry, c.forward, x)
}

// optionPrice is the undiscounted swaption payoff value at strike x under
// the smile, call for caps and put for floors.
func (c *cmsIntegrant) optionPrice(x float64) float64 {
	return sabr.BlackPrice(c.forward, x, c.expiry, c.vol(x), c.isCap)
}

// priceForwardDeriv is the total derivative of optionPrice in the forward,
// through both the forward itself and the backbone of the smile.
func (c *cmsIntegrant) priceForwardDeriv(x float64) float64 {
	d := sabr.VolatilityAdjoint(c.params, c.expiry, c.forward, x)
	return sabr.BlackDelta(c.forward, x, c.expiry, d.Vol, c.isCap) +
		sabr.BlackVega(c.forward, x, c.expiry, d.Vol)*d.DForward
}

// priceStrikeDeriv is the total derivative of optionPrice in the strike.
func (c *cmsIntegrant) priceStrikeDeriv(x float64) float64 {
	d := sabr.VolatilityAdjoint(c.params, c.expiry, c.forward, x)
	return sabr.BlackDualDelta(c.forward, x, c.expiry, d.Vol, c.isCap) +
		sabr.BlackVega(c.forward, x, c.expiry, d.Vol)*d.DStrike
}

// paramDerivs returns dPrice/dAlpha, dPrice/dRho, dPrice/dNu at strike x.
func (c *cmsIntegrant) paramDerivs(x float64) (alpha, rho, nu float64) {
	d := sabr.VolatilityAdjoint(c.params, c.expiry, c.forward, x)
	vega := sabr.BlackVega(c.forward, x, c.expiry, d.Vol)
	return vega * d.DAlpha, vega * d.DRho, vega * d.DNu
}

// weight is the replication density times the strip width: the coefficient
// of the swaption price inside the integral.
func (c *cmsIntegrant) weight(x float64) float64 {
	k1, k2 := c.kDerivs(x)
	if c.isCap {
		return k2*(x-c.strike) + 2*k1
	}
	return k2*(c.strike-x) - 2*k1
}

func (c *cmsIntegrant) integrand(x float64) float64 {
	return c.weight(x) * c.optionPrice(x)
}
