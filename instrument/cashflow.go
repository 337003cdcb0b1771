package instrument

import (
	"errors"
	"fmt"
	"time"

	"github.com/pvollan/rateslib/money"
)

var (
	// ErrNoValuationDate is returned when the valuation date is the zero time.
	ErrNoValuationDate = errors.New("instrument: no valuation date")
	// ErrUnsupportedInstrument is returned for variants whose payments are
	// not known in advance, such as floating coupons before fixing.
	ErrUnsupportedInstrument = errors.New("instrument: payments not fixed")
)

// CashFlowMap holds known payments keyed by payment date. Dates are
// normalized to midnight UTC; payments falling on the same date are summed.
type CashFlowMap map[time.Time]money.MultiAmount

func (m CashFlowMap) add(date time.Time, ccy money.Currency, value float64) {
	d := dateKey(date)
	if existing, ok := m[d]; ok {
		m[d] = existing.Plus(ccy, value)
		return
	}
	m[d] = money.Of(ccy, value)
}

func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FixedCashFlows returns the payments of def known with certainty as of the
// valuation date asOf. Payments on or before asOf are dropped. An instrument
// past its last payment yields an empty map. Variants that depend on an
// unfixed index rate return ErrUnsupportedInstrument; floating coupons inside
// a swap are simply skipped so the fixed side still reports.
func FixedCashFlows(def Definition, asOf time.Time) (CashFlowMap, error) {
	if asOf.IsZero() {
		return nil, fmt.Errorf("FixedCashFlows: %w", ErrNoValuationDate)
	}
	out := make(CashFlowMap)
	if err := collectFixed(def, dateKey(asOf), out); err != nil {
		return nil, fmt.Errorf("FixedCashFlows: %w", err)
	}
	return out, nil
}

func collectFixed(def Definition, asOf time.Time, out CashFlowMap) error {
	switch d := def.(type) {
	case FixedPayment:
		if d.PaymentDate.After(asOf) {
			out.add(d.PaymentDate, d.Currency, d.Amount)
		}
	case FixedCoupon:
		if d.PaymentDate.After(asOf) {
			out.add(d.PaymentDate, d.Currency, d.Notional*d.Rate*d.AccrualFactor)
		}
	case Cash:
		if d.MaturityDate.After(asOf) {
			out.add(d.MaturityDate, d.Currency, d.Notional*d.Rate*d.AccrualFactor)
		}
	case FRA:
		// Settled at the accrual start under the replicating-cash convention.
		if d.AccrualStart.After(asOf) {
			out.add(d.AccrualStart, d.Currency, d.Notional*d.Rate*d.AccrualFactor)
		}
	case Bill:
		if d.MaturityDate.After(asOf) {
			out.add(d.MaturityDate, d.Currency, d.Notional)
		}
	case BillTransaction:
		return collectFixed(d.Security, asOf, out)
	case Bond:
		for i, c := range d.Coupons {
			if !c.PaymentDate.After(asOf) {
				continue
			}
			amount := c.Notional * c.Rate * c.AccrualFactor
			if i == len(d.Coupons)-1 {
				amount += d.Notional
			}
			out.add(c.PaymentDate, c.Currency, amount)
		}
	case BondTransaction:
		return collectFixed(d.Security, asOf, out)
	case FixedAnnuity:
		for _, c := range d.Coupons {
			if err := collectFixed(c, asOf, out); err != nil {
				return err
			}
		}
	case FixedIborSwap:
		return collectFixed(d.FixedLeg, asOf, out)
	case IborCoupon, IborAnnuity, CMSCoupon, CMSCapFloor, CMSCapFloorAnnuity:
		return fmt.Errorf("%T: %w", def, ErrUnsupportedInstrument)
	default:
		return fmt.Errorf("%T: %w", def, ErrUnsupportedInstrument)
	}
	return nil
}
