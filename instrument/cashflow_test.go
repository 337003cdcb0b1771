package instrument_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pvollan/rateslib/calendar"
	"github.com/pvollan/rateslib/daycount"
	"github.com/pvollan/rateslib/instrument"
	"github.com/pvollan/rateslib/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testIborIndex() instrument.IborIndex {
	return instrument.IborIndex{
		Name:        "TEST-IBOR-6M",
		Currency:    money.USD,
		TenorMonths: 6,
		SpotLagDays: 0,
		DayCount:    daycount.Flat(0.5),
		Calendar:    calendar.AllDays{},
	}
}

func requireSingleFlow(t *testing.T, flows instrument.CashFlowMap, want time.Time, ccy money.Currency, amount float64) {
	t.Helper()
	if len(flows) != 1 {
		t.Fatalf("expected 1 payment, got %d: %v", len(flows), flows)
	}
	got, ok := flows[want]
	if !ok {
		t.Fatalf("no payment on %s: %v", want.Format("2006-01-02"), flows)
	}
	if math.Abs(got.Get(ccy)-amount) > 1e-10 {
		t.Fatalf("payment on %s: got %v want %v", want.Format("2006-01-02"), got.Get(ccy), amount)
	}
}

func TestFixedCashFlowsNoValuationDate(t *testing.T) {
	t.Parallel()

	payment := instrument.FixedPayment{Currency: money.USD, PaymentDate: date(2013, 1, 1), Amount: 34500}
	_, err := instrument.FixedCashFlows(payment, time.Time{})
	if !errors.Is(err, instrument.ErrNoValuationDate) {
		t.Fatalf("expected ErrNoValuationDate, got %v", err)
	}
}

func TestFixedCashFlowsPayment(t *testing.T) {
	t.Parallel()

	payment := instrument.FixedPayment{Currency: money.USD, PaymentDate: date(2013, 1, 1), Amount: 34500}
	flows, err := instrument.FixedCashFlows(payment, date(2012, 8, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	requireSingleFlow(t, flows, date(2013, 1, 1), money.USD, 34500)
}

func TestFixedCashFlowsCoupon(t *testing.T) {
	t.Parallel()

	coupon := instrument.FixedCoupon{
		Currency:      money.USD,
		PaymentDate:   date(2013, 2, 1),
		AccrualStart:  date(2013, 1, 1),
		AccrualEnd:    date(2013, 2, 1),
		AccrualFactor: 1.0 / 12,
		Notional:      45600,
		Rate:          0.0001,
	}
	flows, err := instrument.FixedCashFlows(coupon, date(2012, 8, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	requireSingleFlow(t, flows, date(2013, 2, 1), money.USD, 45600*0.0001/12)
}

func TestFixedCashFlowsCash(t *testing.T) {
	t.Parallel()

	deposit := instrument.Cash{
		Currency:      money.USD,
		StartDate:     date(2012, 6, 1),
		MaturityDate:  date(2012, 12, 1),
		Notional:      234000,
		Rate:          0.002,
		AccrualFactor: 0.5,
	}
	flows, err := instrument.FixedCashFlows(deposit, date(2012, 8, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	requireSingleFlow(t, flows, date(2012, 12, 1), money.USD, 234.0)
}

func TestFixedCashFlowsBill(t *testing.T) {
	t.Parallel()

	bill := instrument.Bill{Currency: money.USD, MaturityDate: date(2012, 12, 9), Notional: 12300}
	flows, err := instrument.FixedCashFlows(bill, date(2012, 10, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	requireSingleFlow(t, flows, date(2012, 12, 9), money.USD, 12300)

	// A position reports the same contractual schedule as the security.
	position := instrument.BillTransaction{Security: bill, Quantity: 100, SettlementDate: date(2012, 10, 3)}
	posFlows, err := instrument.FixedCashFlows(position, date(2012, 10, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	requireSingleFlow(t, posFlows, date(2012, 12, 9), money.USD, 12300)
}

func TestFixedCashFlowsFRA(t *testing.T) {
	t.Parallel()

	payer := instrument.FRA{
		Currency:      money.USD,
		AccrualStart:  date(2013, 6, 3),
		AccrualEnd:    date(2013, 12, 3),
		FixingDate:    date(2013, 6, 3),
		AccrualFactor: 0.5,
		Notional:      567000,
		Rate:          0.004,
		Index:         testIborIndex(),
	}
	flows, err := instrument.FixedCashFlows(payer, date(2012, 8, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	// The known leg is booked at the accrual start, not the payment date.
	requireSingleFlow(t, flows, date(2013, 6, 3), money.USD, 567000*0.004*0.5)

	receiver := payer
	receiver.Notional = -payer.Notional
	flows, err = instrument.FixedCashFlows(receiver, date(2012, 8, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	requireSingleFlow(t, flows, date(2013, 6, 3), money.USD, -567000*0.004*0.5)
}

func TestFixedCashFlowsBond(t *testing.T) {
	t.Parallel()

	bond, err := instrument.NewBond(money.USD, date(2000, 1, 15), date(2020, 1, 15), 6, 0.03,
		daycount.Flat(0.5), calendar.AllDays{})
	if err != nil {
		t.Fatalf("NewBond error: %v", err)
	}
	flows, err := instrument.FixedCashFlows(bond, date(2012, 9, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	if len(flows) != 15 {
		t.Fatalf("expected 15 remaining payments, got %d", len(flows))
	}
	for i := 0; i < 15; i++ {
		d := daycount.AddMonths(date(2013, 1, 15), 6*i)
		amount, ok := flows[d]
		if !ok {
			t.Fatalf("missing payment on %s", d.Format("2006-01-02"))
		}
		want := 0.015
		if i == 14 {
			want = 1.015
		}
		if math.Abs(amount.Get(money.USD)-want) > 1e-12 {
			t.Fatalf("payment on %s: got %v want %v", d.Format("2006-01-02"), amount.Get(money.USD), want)
		}
	}

	position := instrument.BondTransaction{Security: bond, Quantity: 100, SettlementDate: date(2012, 9, 5)}
	posFlows, err := instrument.FixedCashFlows(position, date(2012, 9, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	if len(posFlows) != len(flows) {
		t.Fatalf("position flows differ from security flows: %d vs %d", len(posFlows), len(flows))
	}
}

func TestFixedCashFlowsAfterExpiry(t *testing.T) {
	t.Parallel()

	bond, err := instrument.NewBond(money.USD, date(2000, 1, 15), date(2020, 1, 15), 6, 0.03,
		daycount.Flat(0.5), calendar.AllDays{})
	if err != nil {
		t.Fatalf("NewBond error: %v", err)
	}
	for _, def := range []instrument.Definition{
		bond,
		instrument.Bill{Currency: money.USD, MaturityDate: date(2012, 12, 9), Notional: 12300},
		instrument.FixedPayment{Currency: money.USD, PaymentDate: date(2013, 1, 1), Amount: 34500},
	} {
		flows, err := instrument.FixedCashFlows(def, date(2100, 1, 1))
		if err != nil {
			t.Fatalf("%T: FixedCashFlows error: %v", def, err)
		}
		if len(flows) != 0 {
			t.Fatalf("%T: expected no payments after expiry, got %v", def, flows)
		}
	}
}

func TestFixedCashFlowsSwapReportsFixedLeg(t *testing.T) {
	t.Parallel()

	index := instrument.CMSIndex{
		TenorYears:        2,
		FixedPeriodMonths: 6,
		FixedDayCount:     daycount.Thirty360,
		Ibor:              testIborIndex(),
	}
	swap, err := instrument.NewFixedIborSwap(date(2013, 1, 15), 2, 0.03, 1_000_000, index, false)
	if err != nil {
		t.Fatalf("NewFixedIborSwap error: %v", err)
	}
	flows, err := instrument.FixedCashFlows(swap, date(2012, 9, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	if len(flows) != 4 {
		t.Fatalf("expected the 4 fixed coupons, got %d: %v", len(flows), flows)
	}
	for d, amount := range flows {
		if amount.Get(money.USD) <= 0 {
			t.Fatalf("receiver fixed coupon on %s should be positive: %v", d.Format("2006-01-02"), amount)
		}
	}
}

func TestFixedCashFlowsUnsupported(t *testing.T) {
	t.Parallel()

	index := testIborIndex()
	floating := instrument.IborCoupon{
		Currency:      money.USD,
		PaymentDate:   date(2013, 6, 3),
		AccrualStart:  date(2013, 1, 3),
		AccrualEnd:    date(2013, 6, 3),
		AccrualFactor: 0.5,
		Notional:      1000,
		FixingDate:    date(2013, 1, 1),
		Index:         index,
	}
	_, err := instrument.FixedCashFlows(floating, date(2012, 8, 1))
	if !errors.Is(err, instrument.ErrUnsupportedInstrument) {
		t.Fatalf("expected ErrUnsupportedInstrument, got %v", err)
	}
}

func TestFixedCashFlowsSameDatePaymentsSum(t *testing.T) {
	t.Parallel()

	annuity := instrument.FixedAnnuity{Coupons: []instrument.FixedCoupon{
		{Currency: money.USD, PaymentDate: date(2013, 2, 1), AccrualFactor: 0.5, Notional: 1000, Rate: 0.02},
		{Currency: money.USD, PaymentDate: date(2013, 2, 1), AccrualFactor: 0.5, Notional: 2000, Rate: 0.02},
	}}
	flows, err := instrument.FixedCashFlows(annuity, date(2012, 8, 1))
	if err != nil {
		t.Fatalf("FixedCashFlows error: %v", err)
	}
	requireSingleFlow(t, flows, date(2013, 2, 1), money.USD, (1000+2000)*0.02*0.5)
}
