package instrument_test

import (
	"math"
	"testing"

	"github.com/pvollan/rateslib/calendar"
	"github.com/pvollan/rateslib/daycount"
	"github.com/pvollan/rateslib/instrument"
	"github.com/pvollan/rateslib/money"
)

func TestScheduleQuarterly(t *testing.T) {
	t.Parallel()

	periods, err := instrument.Schedule(date(2025, 1, 15), date(2026, 1, 15), 3, calendar.Weekdays{})
	if err != nil {
		t.Fatalf("Schedule error: %v", err)
	}
	if len(periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(periods))
	}
	last := periods[3]
	if !last.Start.Equal(date(2025, 10, 15)) {
		t.Fatalf("last period start: got %s", last.Start.Format("2006-01-02"))
	}
	if !last.End.Equal(date(2026, 1, 15)) {
		t.Fatalf("last period end: got %s", last.End.Format("2006-01-02"))
	}
	if !last.Payment.Equal(last.End) {
		t.Fatalf("payment should match adjusted end, got %s", last.Payment.Format("2006-01-02"))
	}
}

func TestScheduleRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := instrument.Schedule(date(2026, 1, 1), date(2025, 1, 1), 6, calendar.Weekdays{}); err == nil {
		t.Fatalf("inverted dates should be rejected")
	}
	if _, err := instrument.Schedule(date(2025, 1, 1), date(2026, 1, 1), 0, calendar.Weekdays{}); err == nil {
		t.Fatalf("zero period should be rejected")
	}
}

func TestNewFixedAnnuityPayerSign(t *testing.T) {
	t.Parallel()

	settlement := date(2025, 3, 17)
	leg, err := instrument.NewFixedAnnuity(money.USD, settlement, 2, 6, calendar.Weekdays{},
		daycount.Thirty360, 1_000_000, 0.03, true)
	if err != nil {
		t.Fatalf("NewFixedAnnuity error: %v", err)
	}
	if len(leg.Coupons) != 4 {
		t.Fatalf("expected 4 coupons, got %d", len(leg.Coupons))
	}
	for _, c := range leg.Coupons {
		if c.Notional != -1_000_000 {
			t.Fatalf("payer leg notional: got %v", c.Notional)
		}
		if c.Rate != 0.03 {
			t.Fatalf("coupon rate: got %v", c.Rate)
		}
		if math.Abs(c.AccrualFactor-0.5) > 0.02 {
			t.Fatalf("semiannual 30/360 accrual: got %v", c.AccrualFactor)
		}
	}
}

func TestNewIborAnnuityFixings(t *testing.T) {
	t.Parallel()

	index := instrument.IborIndex{
		Name:        "TEST-IBOR-3M",
		Currency:    money.USD,
		TenorMonths: 3,
		SpotLagDays: 2,
		DayCount:    daycount.Act360,
		Calendar:    calendar.Weekdays{},
	}
	leg, err := instrument.NewIborAnnuity(date(2025, 3, 17), 1, 1_000_000, index, false)
	if err != nil {
		t.Fatalf("NewIborAnnuity error: %v", err)
	}
	if len(leg.Coupons) != 4 {
		t.Fatalf("expected 4 coupons, got %d", len(leg.Coupons))
	}
	for _, c := range leg.Coupons {
		if !c.FixingDate.Before(c.AccrualStart) {
			t.Fatalf("fixing %s should precede accrual start %s",
				c.FixingDate.Format("2006-01-02"), c.AccrualStart.Format("2006-01-02"))
		}
		if got := calendar.AddBusinessDays(index.Calendar, c.FixingDate, index.SpotLagDays); !got.Equal(c.AccrualStart) {
			t.Fatalf("fixing lag mismatch: fixing %s start %s",
				c.FixingDate.Format("2006-01-02"), c.AccrualStart.Format("2006-01-02"))
		}
	}
}

func TestNewCMSCapFloorAnnuity(t *testing.T) {
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
	start := date(2026, 3, 17)
	leg, err := instrument.NewCMSCapFloorAnnuity(start, start.AddDate(2, 0, 0), 10_000_000,
		index, 6, daycount.Act360, false, 0.02, true)
	if err != nil {
		t.Fatalf("NewCMSCapFloorAnnuity error: %v", err)
	}
	if len(leg.Payments) != 4 {
		t.Fatalf("expected 4 caplets, got %d", len(leg.Payments))
	}
	for _, p := range leg.Payments {
		if !p.IsCap || p.Strike != 0.02 {
			t.Fatalf("caplet terms: %+v", p)
		}
		c := p.Coupon
		if !c.SettlementDate.Equal(c.AccrualStart) {
			t.Fatalf("underlying swap should settle at the accrual start")
		}
		if got := len(c.Underlying.FixedLeg.Coupons); got != 10 {
			t.Fatalf("5y semiannual underlying fixed leg: got %d coupons", got)
		}
		if got := len(c.Underlying.IborLeg.Coupons); got != 20 {
			t.Fatalf("5y quarterly underlying floating leg: got %d coupons", got)
		}
	}
}
