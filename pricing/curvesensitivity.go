package pricing

import (
	"fmt"

	"github.com/pvollan/rateslib/derivative"
)

// PresentValueCurveSensitivity computes the derivative of present value with
// respect to the zero rate at each curve time the instrument touches. The
// result is raw; call Cleaned for a canonical form. The single-currency
// value is differentiated; multi-currency instruments are not supported here.
func PresentValueCurveSensitivity(instr derivative.Instrument, market Market) (CurveSensitivity, error) {
	out := make(CurveSensitivity)
	if err := collectCurveSensitivity(instr, market, out); err != nil {
		return nil, fmt.Errorf("PresentValueCurveSensitivity: %w", err)
	}
	return out, nil
}

func collectCurveSensitivity(instr derivative.Instrument, market Market, out CurveSensitivity) error {
	switch d := instr.(type) {
	case derivative.FixedPayment:
		if d.PaymentTime <= 0 {
			return nil
		}
		df, err := market.Curves.DiscountFactor(d.FundingCurve, d.PaymentTime)
		if err != nil {
			return err
		}
		out.Add(d.FundingCurve, d.PaymentTime, -d.PaymentTime*df*d.Amount)
	case derivative.FixedCoupon:
		if d.PaymentTime <= 0 {
			return nil
		}
		df, err := market.Curves.DiscountFactor(d.FundingCurve, d.PaymentTime)
		if err != nil {
			return err
		}
		out.Add(d.FundingCurve, d.PaymentTime, -d.PaymentTime*df*d.Notional*d.Rate*d.AccrualFactor)
	case derivative.IborCoupon:
		return iborCouponCurveSensitivity(d, market, out)
	case derivative.Cash:
		c, err := market.Curves.Curve(d.FundingCurve)
		if err != nil {
			return err
		}
		if d.StartTime > 0 {
			out.Add(d.FundingCurve, d.StartTime, d.StartTime*d.Notional*c.DiscountFactor(d.StartTime))
		}
		if d.EndTime > 0 {
			out.Add(d.FundingCurve, d.EndTime, -d.EndTime*d.Notional*(1+d.Rate*d.AccrualFactor)*c.DiscountFactor(d.EndTime))
		}
	case derivative.FRA:
		return fraCurveSensitivity(d, market, out)
	case derivative.Bill:
		if d.EndTime <= 0 {
			return nil
		}
		df, err := market.Curves.DiscountFactor(d.FundingCurve, d.EndTime)
		if err != nil {
			return err
		}
		out.Add(d.FundingCurve, d.EndTime, -d.EndTime*df*d.Notional)
	case derivative.BillTransaction:
		security := make(CurveSensitivity)
		if err := collectCurveSensitivity(d.Security, market, security); err != nil {
			return err
		}
		out.AddAll(security.Scale(d.Quantity))
		return transactionSettlementSensitivity(d.SettlementTime, d.SettlementAmount, d.Security.FundingCurve, market, out)
	case derivative.FixedAnnuity:
		for _, c := range d.Coupons {
			if err := collectCurveSensitivity(c, market, out); err != nil {
				return err
			}
		}
	case derivative.IborAnnuity:
		for _, c := range d.Coupons {
			if err := collectCurveSensitivity(c, market, out); err != nil {
				return err
			}
		}
	case derivative.Bond:
		if err := collectCurveSensitivity(d.Coupons, market, out); err != nil {
			return err
		}
		return collectCurveSensitivity(d.Nominal, market, out)
	case derivative.BondTransaction:
		security := make(CurveSensitivity)
		if err := collectCurveSensitivity(d.Security, market, security); err != nil {
			return err
		}
		out.AddAll(security.Scale(d.Quantity))
		return transactionSettlementSensitivity(d.SettlementTime, d.SettlementAmount, d.Security.Nominal.FundingCurve, market, out)
	case derivative.FixedIborSwap:
		if err := collectCurveSensitivity(d.FixedLeg, market, out); err != nil {
			return err
		}
		return collectCurveSensitivity(d.IborLeg, market, out)
	case derivative.CMSCoupon:
		s, err := DefaultCMSReplication().PresentValueCurveSensitivity(derivative.CMSCapFloor{Coupon: d, Strike: 0, IsCap: true}, market)
		if err != nil {
			return err
		}
		out.AddAll(s)
	case derivative.CMSCapFloor:
		s, err := DefaultCMSReplication().PresentValueCurveSensitivity(d, market)
		if err != nil {
			return err
		}
		out.AddAll(s)
	case derivative.Annuity:
		for _, p := range d.Payments {
			if err := collectCurveSensitivity(p, market, out); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%T: %w", instr, ErrUnsupportedInstrument)
	}
	return nil
}

func iborCouponCurveSensitivity(d derivative.IborCoupon, market Market, out CurveSensitivity) error {
	if d.PaymentTime <= 0 {
		return nil
	}
	fwd, err := market.Curves.Curve(d.ForwardCurve)
	if err != nil {
		return err
	}
	df, err := market.Curves.DiscountFactor(d.FundingCurve, d.PaymentTime)
	if err != nil {
		return err
	}
	ratio := fwd.DiscountFactor(d.FixingPeriodStart) / fwd.DiscountFactor(d.FixingPeriodEnd)
	forward := (ratio - 1.0) / d.FixingAccrualFactor
	scale := d.Notional * d.AccrualFactor * df / d.FixingAccrualFactor
	out.Add(d.ForwardCurve, d.FixingPeriodStart, -d.FixingPeriodStart*ratio*scale)
	out.Add(d.ForwardCurve, d.FixingPeriodEnd, d.FixingPeriodEnd*ratio*scale)
	out.Add(d.FundingCurve, d.PaymentTime, -d.PaymentTime*df*d.Notional*d.AccrualFactor*forward)
	return nil
}

func fraCurveSensitivity(d derivative.FRA, market Market, out CurveSensitivity) error {
	if d.SettlementTime <= 0 {
		return nil
	}
	fwd, err := market.Curves.Curve(d.ForwardCurve)
	if err != nil {
		return err
	}
	df, err := market.Curves.DiscountFactor(d.FundingCurve, d.SettlementTime)
	if err != nil {
		return err
	}
	ratio := fwd.DiscountFactor(d.FixingPeriodStart) / fwd.DiscountFactor(d.FixingPeriodEnd)
	forward := (ratio - 1.0) / d.AccrualFactor
	payoff := d.Notional * d.AccrualFactor * (forward - d.Rate) / (1 + d.AccrualFactor*forward)
	// d payoff / d forward, through both the numerator and the denominator.
	dPayoff := d.Notional * d.AccrualFactor * (1 + d.AccrualFactor*d.Rate) /
		((1 + d.AccrualFactor*forward) * (1 + d.AccrualFactor*forward))
	out.Add(d.ForwardCurve, d.FixingPeriodStart, -d.FixingPeriodStart*ratio/d.AccrualFactor*dPayoff*df)
	out.Add(d.ForwardCurve, d.FixingPeriodEnd, d.FixingPeriodEnd*ratio/d.AccrualFactor*dPayoff*df)
	out.Add(d.FundingCurve, d.SettlementTime, -d.SettlementTime*df*payoff)
	return nil
}

func transactionSettlementSensitivity(settlementTime, settlementAmount float64, fundingCurve string, market Market, out CurveSensitivity) error {
	if settlementTime <= 0 || settlementAmount == 0 {
		return nil
	}
	df, err := market.Curves.DiscountFactor(fundingCurve, settlementTime)
	if err != nil {
		return err
	}
	out.Add(fundingCurve, settlementTime, -settlementTime*df*settlementAmount)
	return nil
}
