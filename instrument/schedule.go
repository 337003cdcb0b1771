package instrument

import (
	"fmt"
	"time"

	"github.com/pvollan/rateslib/calendar"
	"github.com/pvollan/rateslib/daycount"
	"github.com/pvollan/rateslib/money"
)

// SchedulePeriod is one accrual period of a generated leg schedule.
type SchedulePeriod struct {
	Start   time.Time
	End     time.Time
	Payment time.Time
}

// Schedule rolls accrual periods forward from effective to maturity every
// periodMonths, adjusting each boundary with Modified Following on cal.
// Rolling always uses the unadjusted dates to avoid drift; the payment date
// is the adjusted period end.
func Schedule(effective, maturity time.Time, periodMonths int, cal calendar.Calendar) ([]SchedulePeriod, error) {
	if maturity.Before(effective) {
		return nil, fmt.Errorf("Schedule: maturity %s before effective %s",
			maturity.Format("2006-01-02"), effective.Format("2006-01-02"))
	}
	if periodMonths <= 0 {
		return nil, fmt.Errorf("Schedule: unsupported period %d months", periodMonths)
	}

	periods := make([]SchedulePeriod, 0, 64)
	start := effective
	for {
		next := daycount.AddMonths(start, periodMonths)
		if next.After(maturity.AddDate(0, 0, 1)) {
			break
		}
		adjEnd := calendar.Adjust(cal, next)
		periods = append(periods, SchedulePeriod{
			Start:   calendar.Adjust(cal, start),
			End:     adjEnd,
			Payment: adjEnd,
		})
		start = next
	}
	return periods, nil
}

// NewFixedAnnuity generates a fixed leg from settlement over tenorYears.
// payer flips the notional sign to pay.
func NewFixedAnnuity(ccy money.Currency, settlement time.Time, tenorYears, periodMonths int, cal calendar.Calendar, dc daycount.Counter, notional, rate float64, payer bool) (FixedAnnuity, error) {
	maturity := settlement.AddDate(tenorYears, 0, 0)
	periods, err := Schedule(settlement, maturity, periodMonths, cal)
	if err != nil {
		return FixedAnnuity{}, fmt.Errorf("NewFixedAnnuity: %w", err)
	}
	sign := 1.0
	if payer {
		sign = -1.0
	}
	coupons := make([]FixedCoupon, 0, len(periods))
	for _, p := range periods {
		coupons = append(coupons, FixedCoupon{
			Currency:      ccy,
			PaymentDate:   p.Payment,
			AccrualStart:  p.Start,
			AccrualEnd:    p.End,
			AccrualFactor: dc.YearFraction(p.Start, p.End),
			Notional:      sign * notional,
			Rate:          rate,
		})
	}
	return FixedAnnuity{Coupons: coupons}, nil
}

// NewIborAnnuity generates a floating leg from settlement over tenorYears on
// the index's tenor, day count and calendar. The fixing period coincides with
// the accrual period.
func NewIborAnnuity(settlement time.Time, tenorYears int, notional float64, index IborIndex, payer bool) (IborAnnuity, error) {
	maturity := settlement.AddDate(tenorYears, 0, 0)
	periods, err := Schedule(settlement, maturity, index.TenorMonths, index.Calendar)
	if err != nil {
		return IborAnnuity{}, fmt.Errorf("NewIborAnnuity: %w", err)
	}
	sign := 1.0
	if payer {
		sign = -1.0
	}
	coupons := make([]IborCoupon, 0, len(periods))
	for _, p := range periods {
		af := index.DayCount.YearFraction(p.Start, p.End)
		coupons = append(coupons, IborCoupon{
			Currency:            index.Currency,
			PaymentDate:         p.Payment,
			AccrualStart:        p.Start,
			AccrualEnd:          p.End,
			AccrualFactor:       af,
			Notional:            sign * notional,
			FixingDate:          calendar.AddBusinessDays(index.Calendar, p.Start, -index.SpotLagDays),
			FixingPeriodStart:   p.Start,
			FixingPeriodEnd:     p.End,
			FixingAccrualFactor: af,
			Index:               index,
		})
	}
	return IborAnnuity{Coupons: coupons}, nil
}

// NewFixedIborSwap builds both legs of a fixed-versus-floating swap settling
// at settlement. fixedPayer pays fixed and receives floating.
func NewFixedIborSwap(settlement time.Time, tenorYears int, rate, notional float64, index CMSIndex, fixedPayer bool) (FixedIborSwap, error) {
	fixedLeg, err := NewFixedAnnuity(index.Ibor.Currency, settlement, tenorYears, index.FixedPeriodMonths,
		index.Ibor.Calendar, index.FixedDayCount, notional, rate, fixedPayer)
	if err != nil {
		return FixedIborSwap{}, fmt.Errorf("NewFixedIborSwap: %w", err)
	}
	iborLeg, err := NewIborAnnuity(settlement, tenorYears, notional, index.Ibor, !fixedPayer)
	if err != nil {
		return FixedIborSwap{}, fmt.Errorf("NewFixedIborSwap: %w", err)
	}
	return FixedIborSwap{FixedLeg: fixedLeg, IborLeg: iborLeg}, nil
}

// NewCMSCoupon builds a CMS coupon fixing at fixingDate on the swap rate of
// an underlying swap settling at the accrual start.
func NewCMSCoupon(paymentDate, accrualStart, accrualEnd time.Time, accrualFactor, notional float64, fixingDate time.Time, index CMSIndex) (CMSCoupon, error) {
	underlying, err := NewFixedIborSwap(accrualStart, index.TenorYears, 0.0, 1.0, index, true)
	if err != nil {
		return CMSCoupon{}, fmt.Errorf("NewCMSCoupon: %w", err)
	}
	return CMSCoupon{
		Currency:       index.Ibor.Currency,
		PaymentDate:    paymentDate,
		AccrualStart:   accrualStart,
		AccrualEnd:     accrualEnd,
		AccrualFactor:  accrualFactor,
		Notional:       notional,
		FixingDate:     fixingDate,
		SettlementDate: accrualStart,
		Underlying:     underlying,
		Index:          index,
	}, nil
}

// CapFloorFrom wraps a CMS coupon into a cap or floor at the given strike.
func CapFloorFrom(coupon CMSCoupon, strike float64, isCap bool) CMSCapFloor {
	return CMSCapFloor{Coupon: coupon, Strike: strike, IsCap: isCap}
}

// FixedCouponAt replaces the CMS fixing with a fixed rate, preserving the
// payment terms. Used for parity comparisons against a cap/floor pair.
func FixedCouponAt(coupon CMSCoupon, rate float64) FixedCoupon {
	return FixedCoupon{
		Currency:      coupon.Currency,
		PaymentDate:   coupon.PaymentDate,
		AccrualStart:  coupon.AccrualStart,
		AccrualEnd:    coupon.AccrualEnd,
		AccrualFactor: coupon.AccrualFactor,
		Notional:      coupon.Notional,
		Rate:          rate,
	}
}

// NewCMSCapFloorAnnuity generates a leg of CMS caplets (or floorlets) rolling
// from start to end every periodMonths. Each payment fixes spot-lag business
// days before its accrual start on the swap rate of index. payer flips the
// notional sign.
func NewCMSCapFloorAnnuity(start, end time.Time, notional float64, index CMSIndex, periodMonths int, dc daycount.Counter, payer bool, strike float64, isCap bool) (CMSCapFloorAnnuity, error) {
	periods, err := Schedule(start, end, periodMonths, index.Ibor.Calendar)
	if err != nil {
		return CMSCapFloorAnnuity{}, fmt.Errorf("NewCMSCapFloorAnnuity: %w", err)
	}
	sign := 1.0
	if payer {
		sign = -1.0
	}
	payments := make([]CMSCapFloor, 0, len(periods))
	for _, p := range periods {
		fixing := calendar.AddBusinessDays(index.Ibor.Calendar, p.Start, -index.Ibor.SpotLagDays)
		coupon, err := NewCMSCoupon(p.Payment, p.Start, p.End, dc.YearFraction(p.Start, p.End), sign*notional, fixing, index)
		if err != nil {
			return CMSCapFloorAnnuity{}, fmt.Errorf("NewCMSCapFloorAnnuity: %w", err)
		}
		payments = append(payments, CapFloorFrom(coupon, strike, isCap))
	}
	return CMSCapFloorAnnuity{Payments: payments}, nil
}
