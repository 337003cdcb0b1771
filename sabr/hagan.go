// Package sabr implements the Hagan SABR lognormal smile, its analytic
// adjoint, and the Black-76 formulas used to price against it.
package sabr

import "math"

// Parameters is one (alpha, beta, rho, nu) node of a SABR surface.
type Parameters struct {
	Alpha float64
	Beta  float64
	Rho   float64
	Nu    float64
}

// cutoffMoneyness floors the strike relative to the forward so the log-moneyness
// terms stay finite for strikes at or near zero.
const cutoffMoneyness = 1e-6

// zSeriesThreshold switches z/x(z) to its series expansion, avoiding the
// 0/0 cancellation at the money.
const zSeriesThreshold = 1e-4

// Volatility returns the Hagan lognormal implied volatility for the given
// forward, strike and expiry.
func Volatility(p Parameters, expiry, forward, strike float64) float64 {
	return VolatilityAdjoint(p, expiry, forward, strike).Vol
}

// VolDerivatives carries a Hagan volatility together with its first-order
// derivatives with respect to the inputs and the SABR parameters.
type VolDerivatives struct {
	Vol      float64
	DForward float64
	DStrike  float64
	DAlpha   float64
	DRho     float64
	DNu      float64
}

// VolatilityAdjoint evaluates the Hagan formula and its analytic first-order
// derivatives in one pass.
func VolatilityAdjoint(p Parameters, expiry, forward, strike float64) VolDerivatives {
	alpha, beta, rho, nu := p.Alpha, p.Beta, p.Rho, p.Nu
	if strike < cutoffMoneyness*forward {
		strike = cutoffMoneyness * forward
	}
	omb := 1.0 - beta

	lnFK := math.Log(forward / strike)
	pow1 := math.Pow(forward*strike, omb/2.0)

	// Denominator series D and leading coefficient A = alpha / (pow1 * D).
	d2 := omb * omb / 24.0
	d4 := omb * omb * omb * omb / 1920.0
	bigD := 1.0 + d2*lnFK*lnFK + d4*math.Pow(lnFK, 4)
	bigA := alpha / (pow1 * bigD)

	// z and zeta = z/x(z).
	z := nu / alpha * pow1 * lnFK
	var zeta, zetaDz, zetaDRho float64
	if math.Abs(z) < zSeriesThreshold {
		zeta = 1.0 - rho*z/2.0 + (1.0/6.0-rho*rho/4.0)*z*z
		zetaDz = -rho/2.0 + (1.0/3.0-rho*rho/2.0)*z
		zetaDRho = -z / 2.0
	} else {
		u := math.Sqrt(1.0 - 2.0*rho*z + z*z)
		x := math.Log((u + z - rho) / (1.0 - rho))
		zeta = z / x
		xDz := 1.0 / u
		zetaDz = (x - z*xDz) / (x * x)
		xDRho := (-z/u-1.0)/(u+z-rho) + 1.0/(1.0-rho)
		zetaDRho = -z * xDRho / (x * x)
	}

	// Expiry correction B.
	b1 := omb * omb / 24.0 * alpha * alpha / (pow1 * pow1)
	b2 := rho * beta * nu * alpha / (4.0 * pow1)
	b3 := (2.0 - 3.0*rho*rho) / 24.0 * nu * nu
	bigB := 1.0 + expiry*(b1+b2+b3)

	vol := bigA * zeta * bigB

	// Parameter derivatives.
	bigBDAlpha := expiry * (omb*omb/12.0*alpha/(pow1*pow1) + rho*beta*nu/(4.0*pow1))
	bigBDRho := expiry * (beta*nu*alpha/(4.0*pow1) - rho*nu*nu/4.0)
	bigBDNu := expiry * (rho*beta*alpha/(4.0*pow1) + (2.0-3.0*rho*rho)*nu/12.0)

	dAlpha := zeta*bigB*bigA/alpha + bigA*bigB*zetaDz*(-z/alpha) + bigA*zeta*bigBDAlpha
	dRho := bigA*bigB*zetaDRho + bigA*zeta*bigBDRho
	dNu := bigA*bigB*zetaDz*(z/nu) + bigA*zeta*bigBDNu

	// Forward and strike derivatives.
	pow1DF := omb / (2.0 * forward) * pow1
	pow1DK := omb / (2.0 * strike) * pow1
	bigDDF := (2.0*d2*lnFK + 4.0*d4*lnFK*lnFK*lnFK) / forward
	bigDDK := -(2.0*d2*lnFK + 4.0*d4*lnFK*lnFK*lnFK) / strike
	bigADF := -bigA * (omb/(2.0*forward) + bigDDF/bigD)
	bigADK := -bigA * (omb/(2.0*strike) + bigDDK/bigD)
	zDF := z*omb/(2.0*forward) + nu/alpha*pow1/forward
	zDK := z*omb/(2.0*strike) - nu/alpha*pow1/strike
	bCommon := expiry * (omb*omb/12.0*alpha*alpha/(pow1*pow1*pow1) + rho*beta*nu*alpha/(4.0*pow1*pow1))
	bigBDF := -pow1DF * bCommon
	bigBDK := -pow1DK * bCommon

	dF := bigADF*zeta*bigB + bigA*bigB*zetaDz*zDF + bigA*zeta*bigBDF
	dK := bigADK*zeta*bigB + bigA*bigB*zetaDz*zDK + bigA*zeta*bigBDK

	return VolDerivatives{Vol: vol, DForward: dF, DStrike: dK, DAlpha: dAlpha, DRho: dRho, DNu: dNu}
}
