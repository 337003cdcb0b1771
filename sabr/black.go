package sabr

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// BlackPrice returns the undiscounted Black price of a European option on a
// forward: E[(F-K)^+] for a call, E[(K-F)^+] for a put, under lognormal
// volatility vol and expiry in years. Degenerate inputs (zero strike, vol or
// expiry) collapse to intrinsic value.
func BlackPrice(forward, strike, expiry, vol float64, isCall bool) float64 {
	if strike <= 0 || vol <= 0 || expiry <= 0 {
		if isCall {
			return math.Max(forward-strike, 0)
		}
		return math.Max(strike-forward, 0)
	}
	sqt := vol * math.Sqrt(expiry)
	d1 := (math.Log(forward/strike) + 0.5*sqt*sqt) / sqt
	d2 := d1 - sqt
	if isCall {
		return forward*stdNormal.CDF(d1) - strike*stdNormal.CDF(d2)
	}
	return strike*stdNormal.CDF(-d2) - forward*stdNormal.CDF(-d1)
}

// BlackDelta returns the derivative of the undiscounted Black price with
// respect to the forward.
func BlackDelta(forward, strike, expiry, vol float64, isCall bool) float64 {
	if strike <= 0 || vol <= 0 || expiry <= 0 {
		switch {
		case isCall && forward > strike:
			return 1
		case !isCall && forward < strike:
			return -1
		default:
			return 0
		}
	}
	sqt := vol * math.Sqrt(expiry)
	d1 := (math.Log(forward/strike) + 0.5*sqt*sqt) / sqt
	if isCall {
		return stdNormal.CDF(d1)
	}
	return stdNormal.CDF(d1) - 1
}

// BlackDualDelta returns the derivative of the undiscounted Black price with
// respect to the strike.
func BlackDualDelta(forward, strike, expiry, vol float64, isCall bool) float64 {
	if strike <= 0 || vol <= 0 || expiry <= 0 {
		switch {
		case isCall && forward > strike:
			return -1
		case !isCall && forward < strike:
			return 1
		default:
			return 0
		}
	}
	sqt := vol * math.Sqrt(expiry)
	d1 := (math.Log(forward/strike) + 0.5*sqt*sqt) / sqt
	d2 := d1 - sqt
	if isCall {
		return -stdNormal.CDF(d2)
	}
	return stdNormal.CDF(-d2)
}

// BlackVega returns the derivative of the undiscounted Black price with
// respect to the lognormal volatility. It is the same for calls and puts.
func BlackVega(forward, strike, expiry, vol float64) float64 {
	if strike <= 0 || vol <= 0 || expiry <= 0 {
		return 0
	}
	sqt := vol * math.Sqrt(expiry)
	d1 := (math.Log(forward/strike) + 0.5*sqt*sqt) / sqt
	return forward * stdNormal.Prob(d1) * math.Sqrt(expiry)
}
