package pricing

import (
	"errors"
	"fmt"

	"github.com/pvollan/rateslib/derivative"
	"github.com/pvollan/rateslib/money"
)

// ErrUnsupportedInstrument is returned when a calculator has no rule for the
// instrument it was handed.
var ErrUnsupportedInstrument = errors.New("pricing: unsupported instrument")

// PresentValue values instr on market. Payments at non-positive times
// contribute nothing. CMS coupons and cap/floors are delegated to the
// replication method with its default configuration.
func PresentValue(instr derivative.Instrument, market Market) (money.MultiAmount, error) {
	switch d := instr.(type) {
	case derivative.FixedPayment:
		return pvFixedPayment(d, market)
	case derivative.FixedCoupon:
		return pvFixedCoupon(d, market)
	case derivative.IborCoupon:
		return pvIborCoupon(d, market)
	case derivative.Cash:
		return pvCash(d, market)
	case derivative.FRA:
		return pvFRA(d, market)
	case derivative.Bill:
		return pvBill(d, market)
	case derivative.BillTransaction:
		pv, err := pvBill(d.Security, market)
		if err != nil {
			return nil, err
		}
		return pvTransaction(pv, d.Quantity, d.SettlementTime, d.SettlementAmount, d.Security.Currency, d.Security.FundingCurve, market)
	case derivative.FixedAnnuity:
		return pvFixedAnnuity(d, market)
	case derivative.IborAnnuity:
		return pvIborAnnuity(d, market)
	case derivative.Bond:
		coupons, err := pvFixedAnnuity(d.Coupons, market)
		if err != nil {
			return nil, err
		}
		nominal, err := pvFixedPayment(d.Nominal, market)
		if err != nil {
			return nil, err
		}
		return coupons.PlusAll(nominal), nil
	case derivative.BondTransaction:
		pv, err := PresentValue(d.Security, market)
		if err != nil {
			return nil, err
		}
		return pvTransaction(pv, d.Quantity, d.SettlementTime, d.SettlementAmount, d.Security.Nominal.Currency, d.Security.Nominal.FundingCurve, market)
	case derivative.FixedIborSwap:
		fixed, err := pvFixedAnnuity(d.FixedLeg, market)
		if err != nil {
			return nil, err
		}
		ibor, err := pvIborAnnuity(d.IborLeg, market)
		if err != nil {
			return nil, err
		}
		return fixed.PlusAll(ibor), nil
	case derivative.CMSCoupon:
		return DefaultCMSReplication().PresentValue(d, market)
	case derivative.CMSCapFloor:
		return DefaultCMSReplication().PresentValueCapFloor(d, market)
	case derivative.Annuity:
		total := money.MultiAmount{}
		for _, p := range d.Payments {
			pv, err := PresentValue(p, market)
			if err != nil {
				return nil, err
			}
			total = total.PlusAll(pv)
		}
		return total, nil
	default:
		return nil, fmt.Errorf("PresentValue: %T: %w", instr, ErrUnsupportedInstrument)
	}
}

func pvFixedPayment(d derivative.FixedPayment, market Market) (money.MultiAmount, error) {
	if d.PaymentTime <= 0 {
		return money.Of(d.Currency, 0), nil
	}
	df, err := market.Curves.DiscountFactor(d.FundingCurve, d.PaymentTime)
	if err != nil {
		return nil, fmt.Errorf("pvFixedPayment: %w", err)
	}
	return money.Of(d.Currency, d.Amount*df), nil
}

func pvFixedCoupon(d derivative.FixedCoupon, market Market) (money.MultiAmount, error) {
	if d.PaymentTime <= 0 {
		return money.Of(d.Currency, 0), nil
	}
	df, err := market.Curves.DiscountFactor(d.FundingCurve, d.PaymentTime)
	if err != nil {
		return nil, fmt.Errorf("pvFixedCoupon: %w", err)
	}
	return money.Of(d.Currency, d.Notional*d.Rate*d.AccrualFactor*df), nil
}

func pvIborCoupon(d derivative.IborCoupon, market Market) (money.MultiAmount, error) {
	if d.PaymentTime <= 0 {
		return money.Of(d.Currency, 0), nil
	}
	forward, err := market.Curves.ForwardRate(d.ForwardCurve, d.FixingPeriodStart, d.FixingPeriodEnd, d.FixingAccrualFactor)
	if err != nil {
		return nil, fmt.Errorf("pvIborCoupon: %w", err)
	}
	df, err := market.Curves.DiscountFactor(d.FundingCurve, d.PaymentTime)
	if err != nil {
		return nil, fmt.Errorf("pvIborCoupon: %w", err)
	}
	return money.Of(d.Currency, d.Notional*d.AccrualFactor*forward*df), nil
}

func pvCash(d derivative.Cash, market Market) (money.MultiAmount, error) {
	c, err := market.Curves.Curve(d.FundingCurve)
	if err != nil {
		return nil, fmt.Errorf("pvCash: %w", err)
	}
	pv := 0.0
	if d.StartTime > 0 {
		pv -= d.Notional * c.DiscountFactor(d.StartTime)
	}
	if d.EndTime > 0 {
		pv += d.Notional * (1 + d.Rate*d.AccrualFactor) * c.DiscountFactor(d.EndTime)
	}
	return money.Of(d.Currency, pv), nil
}

func pvFRA(d derivative.FRA, market Market) (money.MultiAmount, error) {
	if d.SettlementTime <= 0 {
		return money.Of(d.Currency, 0), nil
	}
	forward, err := market.Curves.ForwardRate(d.ForwardCurve, d.FixingPeriodStart, d.FixingPeriodEnd, d.AccrualFactor)
	if err != nil {
		return nil, fmt.Errorf("pvFRA: %w", err)
	}
	df, err := market.Curves.DiscountFactor(d.FundingCurve, d.SettlementTime)
	if err != nil {
		return nil, fmt.Errorf("pvFRA: %w", err)
	}
	pv := d.Notional * d.AccrualFactor * (forward - d.Rate) / (1 + d.AccrualFactor*forward) * df
	return money.Of(d.Currency, pv), nil
}

func pvBill(d derivative.Bill, market Market) (money.MultiAmount, error) {
	if d.EndTime <= 0 {
		return money.Of(d.Currency, 0), nil
	}
	df, err := market.Curves.DiscountFactor(d.FundingCurve, d.EndTime)
	if err != nil {
		return nil, fmt.Errorf("pvBill: %w", err)
	}
	return money.Of(d.Currency, d.Notional*df), nil
}

// pvTransaction scales a security value by quantity and discounts the signed
// settlement amount when settlement is still in the future.
func pvTransaction(security money.MultiAmount, quantity, settlementTime, settlementAmount float64, ccy money.Currency, fundingCurve string, market Market) (money.MultiAmount, error) {
	pv := security.Scale(quantity)
	if settlementTime > 0 && settlementAmount != 0 {
		df, err := market.Curves.DiscountFactor(fundingCurve, settlementTime)
		if err != nil {
			return nil, fmt.Errorf("pvTransaction: %w", err)
		}
		pv = pv.Plus(ccy, settlementAmount*df)
	}
	return pv, nil
}

func pvFixedAnnuity(d derivative.FixedAnnuity, market Market) (money.MultiAmount, error) {
	total := money.MultiAmount{}
	for _, c := range d.Coupons {
		pv, err := pvFixedCoupon(c, market)
		if err != nil {
			return nil, err
		}
		total = total.PlusAll(pv)
	}
	return total, nil
}

func pvIborAnnuity(d derivative.IborAnnuity, market Market) (money.MultiAmount, error) {
	total := money.MultiAmount{}
	for _, c := range d.Coupons {
		pv, err := pvIborCoupon(c, market)
		if err != nil {
			return nil, err
		}
		total = total.PlusAll(pv)
	}
	return total, nil
}
