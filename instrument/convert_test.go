package instrument_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pvollan/rateslib/calendar"
	"github.com/pvollan/rateslib/daycount"
	"github.com/pvollan/rateslib/derivative"
	"github.com/pvollan/rateslib/instrument"
	"github.com/pvollan/rateslib/money"
)

var testNames = instrument.CurveNames{Funding: "Funding", Forward: "Forward"}

func TestToDerivativeRequiresValuationDate(t *testing.T) {
	t.Parallel()

	payment := instrument.FixedPayment{Currency: money.USD, PaymentDate: date(2026, 1, 1), Amount: 100}
	_, err := instrument.ToDerivative(payment, time.Time{}, testNames)
	if !errors.Is(err, instrument.ErrNoValuationDate) {
		t.Fatalf("expected ErrNoValuationDate, got %v", err)
	}
}

func TestToDerivativeFixedPayment(t *testing.T) {
	t.Parallel()

	valuation := date(2025, 1, 1)
	payment := instrument.FixedPayment{Currency: money.USD, PaymentDate: date(2026, 1, 1), Amount: 100}
	got, err := instrument.ToDerivative(payment, valuation, testNames)
	if err != nil {
		t.Fatalf("ToDerivative error: %v", err)
	}
	fp, ok := got.(derivative.FixedPayment)
	if !ok {
		t.Fatalf("expected derivative.FixedPayment, got %T", got)
	}
	want := daycount.Act365F.YearFraction(valuation, payment.PaymentDate)
	if math.Abs(fp.PaymentTime-want) > 1e-15 {
		t.Fatalf("payment time: got %v want %v", fp.PaymentTime, want)
	}
	if fp.FundingCurve != "Funding" {
		t.Fatalf("funding curve: got %q", fp.FundingCurve)
	}
}

func TestToDerivativeFRA(t *testing.T) {
	t.Parallel()

	valuation := date(2025, 1, 1)
	fra := instrument.FRA{
		Currency:      money.USD,
		AccrualStart:  date(2025, 7, 1),
		AccrualEnd:    date(2026, 1, 1),
		FixingDate:    date(2025, 6, 27),
		AccrualFactor: 0.5,
		Notional:      1_000_000,
		Rate:          0.03,
		Index:         testIborIndex(),
	}
	got, err := instrument.ToDerivative(fra, valuation, testNames)
	if err != nil {
		t.Fatalf("ToDerivative error: %v", err)
	}
	df, ok := got.(derivative.FRA)
	if !ok {
		t.Fatalf("expected derivative.FRA, got %T", got)
	}
	if df.SettlementTime != df.FixingPeriodStart {
		t.Fatalf("settlement should sit at the accrual start: %v vs %v", df.SettlementTime, df.FixingPeriodStart)
	}
	if df.ForwardCurve != "Forward" || df.FundingCurve != "Funding" {
		t.Fatalf("curve names: %+v", df)
	}
}

func TestToDerivativeCMSCapFloor(t *testing.T) {
	t.Parallel()

	index := instrument.CMSIndex{
		TenorYears:        5,
		FixedPeriodMonths: 6,
		FixedDayCount:     daycount.Thirty360,
		Ibor: instrument.IborIndex{
			Name:        "TEST-IBOR-3M",
			Currency:    money.USD,
			TenorMonths: 3,
			SpotLagDays: 2,
			DayCount:    daycount.Act360,
			Calendar:    calendar.Weekdays{},
		},
	}
	valuation := date(2025, 8, 18)
	accrualStart := date(2028, 1, 5)
	accrualEnd := date(2028, 4, 5)
	coupon, err := instrument.NewCMSCoupon(date(2028, 4, 6), accrualStart, accrualEnd,
		daycount.Act360.YearFraction(accrualStart, accrualEnd), 10_000_000, date(2027, 12, 30), index)
	if err != nil {
		t.Fatalf("NewCMSCoupon error: %v", err)
	}
	got, err := instrument.ToDerivative(instrument.CapFloorFrom(coupon, 0.02, true), valuation, testNames)
	if err != nil {
		t.Fatalf("ToDerivative error: %v", err)
	}
	cf, ok := got.(derivative.CMSCapFloor)
	if !ok {
		t.Fatalf("expected derivative.CMSCapFloor, got %T", got)
	}
	if cf.Strike != 0.02 || !cf.IsCap {
		t.Fatalf("terms: %+v", cf)
	}
	c := cf.Coupon
	if c.FixingTime <= 0 || c.SettlementTime <= c.FixingTime || c.PaymentTime <= c.SettlementTime {
		t.Fatalf("time ordering: fixing %v settlement %v payment %v", c.FixingTime, c.SettlementTime, c.PaymentTime)
	}
	if len(c.Underlying.FixedLeg.Coupons) != 10 {
		t.Fatalf("underlying fixed leg: got %d coupons", len(c.Underlying.FixedLeg.Coupons))
	}
	first := c.Underlying.FixedLeg.Coupons[0]
	if first.PaymentTime <= c.SettlementTime {
		t.Fatalf("first underlying payment %v should follow settlement %v", first.PaymentTime, c.SettlementTime)
	}
}
