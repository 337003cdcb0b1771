package instrument

import (
	"fmt"
	"time"

	"github.com/pvollan/rateslib/daycount"
	"github.com/pvollan/rateslib/derivative"
)

// CurveNames binds a definition to the curves it is priced on.
type CurveNames struct {
	Funding string
	Forward string
}

// timeFrom measures a date from the valuation date in ACT/365F years.
// Conversion and pricing must use the same measure so that curve queries at
// cash-flow times are reproducible.
func timeFrom(valuation, date time.Time) float64 {
	return daycount.Act365F.YearFraction(valuation, date)
}

// ToDerivative re-expresses def relative to the valuation date: dates become
// year-fraction times and curves are referenced by name. Definitions with
// payments entirely in the past still convert; their times are negative and
// pricing drops them.
func ToDerivative(def Definition, valuation time.Time, names CurveNames) (derivative.Instrument, error) {
	if valuation.IsZero() {
		return nil, fmt.Errorf("ToDerivative: %w", ErrNoValuationDate)
	}
	switch d := def.(type) {
	case FixedPayment:
		return derivative.FixedPayment{
			Currency:     d.Currency,
			PaymentTime:  timeFrom(valuation, d.PaymentDate),
			Amount:       d.Amount,
			FundingCurve: names.Funding,
		}, nil
	case FixedCoupon:
		return convertFixedCoupon(d, valuation, names), nil
	case IborCoupon:
		return convertIborCoupon(d, valuation, names), nil
	case Cash:
		return derivative.Cash{
			Currency:      d.Currency,
			StartTime:     timeFrom(valuation, d.StartDate),
			EndTime:       timeFrom(valuation, d.MaturityDate),
			Notional:      d.Notional,
			Rate:          d.Rate,
			AccrualFactor: d.AccrualFactor,
			FundingCurve:  names.Funding,
		}, nil
	case FRA:
		return derivative.FRA{
			Currency:          d.Currency,
			SettlementTime:    timeFrom(valuation, d.AccrualStart),
			FixingPeriodStart: timeFrom(valuation, d.AccrualStart),
			FixingPeriodEnd:   timeFrom(valuation, d.AccrualEnd),
			AccrualFactor:     d.AccrualFactor,
			Notional:          d.Notional,
			Rate:              d.Rate,
			FundingCurve:      names.Funding,
			ForwardCurve:      names.Forward,
		}, nil
	case Bill:
		return convertBill(d, valuation, names), nil
	case BillTransaction:
		return derivative.BillTransaction{
			Security:         convertBill(d.Security, valuation, names),
			Quantity:         d.Quantity,
			SettlementTime:   timeFrom(valuation, d.SettlementDate),
			SettlementAmount: d.SettlementAmount,
		}, nil
	case Bond:
		return convertBond(d, valuation, names), nil
	case BondTransaction:
		return derivative.BondTransaction{
			Security:         convertBond(d.Security, valuation, names),
			Quantity:         d.Quantity,
			SettlementTime:   timeFrom(valuation, d.SettlementDate),
			SettlementAmount: d.SettlementAmount,
		}, nil
	case FixedAnnuity:
		return convertFixedAnnuity(d, valuation, names), nil
	case IborAnnuity:
		return convertIborAnnuity(d, valuation, names), nil
	case FixedIborSwap:
		return convertSwap(d, valuation, names), nil
	case CMSCoupon:
		return convertCMSCoupon(d, valuation, names), nil
	case CMSCapFloor:
		return derivative.CMSCapFloor{
			Coupon: convertCMSCoupon(d.Coupon, valuation, names),
			Strike: d.Strike,
			IsCap:  d.IsCap,
		}, nil
	case CMSCapFloorAnnuity:
		payments := make([]derivative.Instrument, 0, len(d.Payments))
		for _, p := range d.Payments {
			payments = append(payments, derivative.CMSCapFloor{
				Coupon: convertCMSCoupon(p.Coupon, valuation, names),
				Strike: p.Strike,
				IsCap:  p.IsCap,
			})
		}
		return derivative.Annuity{Payments: payments}, nil
	default:
		return nil, fmt.Errorf("ToDerivative: %T: %w", def, ErrUnsupportedInstrument)
	}
}

func convertFixedCoupon(d FixedCoupon, valuation time.Time, names CurveNames) derivative.FixedCoupon {
	return derivative.FixedCoupon{
		Currency:      d.Currency,
		PaymentTime:   timeFrom(valuation, d.PaymentDate),
		AccrualFactor: d.AccrualFactor,
		Notional:      d.Notional,
		Rate:          d.Rate,
		FundingCurve:  names.Funding,
	}
}

func convertIborCoupon(d IborCoupon, valuation time.Time, names CurveNames) derivative.IborCoupon {
	return derivative.IborCoupon{
		Currency:            d.Currency,
		PaymentTime:         timeFrom(valuation, d.PaymentDate),
		AccrualFactor:       d.AccrualFactor,
		Notional:            d.Notional,
		FixingTime:          timeFrom(valuation, d.FixingDate),
		FixingPeriodStart:   timeFrom(valuation, d.FixingPeriodStart),
		FixingPeriodEnd:     timeFrom(valuation, d.FixingPeriodEnd),
		FixingAccrualFactor: d.FixingAccrualFactor,
		FundingCurve:        names.Funding,
		ForwardCurve:        names.Forward,
	}
}

func convertBill(d Bill, valuation time.Time, names CurveNames) derivative.Bill {
	return derivative.Bill{
		Currency:     d.Currency,
		EndTime:      timeFrom(valuation, d.MaturityDate),
		Notional:     d.Notional,
		FundingCurve: names.Funding,
	}
}

func convertBond(d Bond, valuation time.Time, names CurveNames) derivative.Bond {
	coupons := make([]derivative.FixedCoupon, 0, len(d.Coupons))
	for _, c := range d.Coupons {
		coupons = append(coupons, convertFixedCoupon(c, valuation, names))
	}
	return derivative.Bond{
		Coupons: derivative.FixedAnnuity{Coupons: coupons},
		Nominal: derivative.FixedPayment{
			Currency:     d.Currency,
			PaymentTime:  timeFrom(valuation, d.MaturityDate),
			Amount:       d.Notional,
			FundingCurve: names.Funding,
		},
	}
}

func convertFixedAnnuity(d FixedAnnuity, valuation time.Time, names CurveNames) derivative.FixedAnnuity {
	coupons := make([]derivative.FixedCoupon, 0, len(d.Coupons))
	for _, c := range d.Coupons {
		coupons = append(coupons, convertFixedCoupon(c, valuation, names))
	}
	return derivative.FixedAnnuity{Coupons: coupons}
}

func convertIborAnnuity(d IborAnnuity, valuation time.Time, names CurveNames) derivative.IborAnnuity {
	coupons := make([]derivative.IborCoupon, 0, len(d.Coupons))
	for _, c := range d.Coupons {
		coupons = append(coupons, convertIborCoupon(c, valuation, names))
	}
	return derivative.IborAnnuity{Coupons: coupons}
}

func convertSwap(d FixedIborSwap, valuation time.Time, names CurveNames) derivative.FixedIborSwap {
	return derivative.FixedIborSwap{
		FixedLeg: convertFixedAnnuity(d.FixedLeg, valuation, names),
		IborLeg:  convertIborAnnuity(d.IborLeg, valuation, names),
	}
}

func convertCMSCoupon(d CMSCoupon, valuation time.Time, names CurveNames) derivative.CMSCoupon {
	return derivative.CMSCoupon{
		Currency:       d.Currency,
		PaymentTime:    timeFrom(valuation, d.PaymentDate),
		AccrualFactor:  d.AccrualFactor,
		Notional:       d.Notional,
		FixingTime:     timeFrom(valuation, d.FixingDate),
		SettlementTime: timeFrom(valuation, d.SettlementDate),
		Underlying:     convertSwap(d.Underlying, valuation, names),
		FundingCurve:   names.Funding,
	}
}
