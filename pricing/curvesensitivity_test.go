package pricing_test

import (
	"math"
	"testing"

	"github.com/pvollan/rateslib/curve"
	"github.com/pvollan/rateslib/derivative"
	"github.com/pvollan/rateslib/money"
	"github.com/pvollan/rateslib/pricing"
)

// bumpNode reprices after shifting the zero rate of one curve at one time.
func bumpNode(t *testing.T, instr derivative.Instrument, market pricing.Market, name string, at, shift float64) float64 {
	t.Helper()
	base, err := market.Curves.Curve(name)
	if err != nil {
		t.Fatalf("curve lookup: %v", err)
	}
	bumped := market.WithCurve(name, curve.NodeShift{Base: base, T: at, Shift: shift})
	pv, err := pricing.PresentValue(instr, bumped)
	if err != nil {
		t.Fatalf("bumped PresentValue error: %v", err)
	}
	return pv.Get(money.USD)
}

// checkNodeFD compares each analytic node against a central finite difference.
func checkNodeFD(t *testing.T, instr derivative.Instrument, market pricing.Market, tol float64) {
	t.Helper()
	sens, err := pricing.PresentValueCurveSensitivity(instr, market)
	if err != nil {
		t.Fatalf("PresentValueCurveSensitivity error: %v", err)
	}
	const shift = 1e-6
	for name, nodes := range sens.Cleaned() {
		for _, node := range nodes {
			up := bumpNode(t, instr, market, name, node.T, shift)
			down := bumpNode(t, instr, market, name, node.T, -shift)
			fd := (up - down) / (2 * shift)
			if math.Abs(node.Value-fd) > tol {
				t.Fatalf("%s node t=%v: analytic %v fd %v", name, node.T, node.Value, fd)
			}
		}
	}
}

func TestCurveSensitivityFixedCoupon(t *testing.T) {
	t.Parallel()

	market := flatMarket(0.05, 0.04)
	coupon := derivative.FixedCoupon{
		Currency: money.USD, PaymentTime: 2.0, AccrualFactor: 0.5,
		Notional: 1_000_000, Rate: 0.03, FundingCurve: fundingName,
	}
	checkNodeFD(t, coupon, market, 1e-2)
}

func TestCurveSensitivityIborCoupon(t *testing.T) {
	t.Parallel()

	market := flatMarket(0.05, 0.04)
	coupon := derivative.IborCoupon{
		Currency: money.USD, PaymentTime: 1.5, AccrualFactor: 0.5, Notional: 1_000_000,
		FixingTime: 0.99, FixingPeriodStart: 1.0, FixingPeriodEnd: 1.5, FixingAccrualFactor: 0.5,
		FundingCurve: fundingName, ForwardCurve: forwardName,
	}
	checkNodeFD(t, coupon, market, 1e-1)
}

func TestCurveSensitivityCash(t *testing.T) {
	t.Parallel()

	market := flatMarket(0.05, 0.04)
	deposit := derivative.Cash{
		Currency: money.USD, StartTime: 0.25, EndTime: 0.75,
		Notional: 1_000_000, Rate: 0.03, AccrualFactor: 0.5, FundingCurve: fundingName,
	}
	checkNodeFD(t, deposit, market, 1e-2)
}

func TestCurveSensitivityFRA(t *testing.T) {
	t.Parallel()

	market := flatMarket(0.05, 0.04)
	fra := derivative.FRA{
		Currency: money.USD, SettlementTime: 1.0,
		FixingPeriodStart: 1.0, FixingPeriodEnd: 1.5, AccrualFactor: 0.5,
		Notional: 1_000_000, Rate: 0.03,
		FundingCurve: fundingName, ForwardCurve: forwardName,
	}
	checkNodeFD(t, fra, market, 1e-1)
}

func TestCurveSensitivitySwapMergesLegs(t *testing.T) {
	t.Parallel()

	market := flatMarket(0.05, 0.04)
	swap := derivative.FixedIborSwap{
		FixedLeg: derivative.FixedAnnuity{Coupons: []derivative.FixedCoupon{
			{Currency: money.USD, PaymentTime: 0.5, AccrualFactor: 0.5, Notional: -1_000_000, Rate: 0.03, FundingCurve: fundingName},
		}},
		IborLeg: derivative.IborAnnuity{Coupons: []derivative.IborCoupon{
			{Currency: money.USD, PaymentTime: 0.5, AccrualFactor: 0.5, Notional: 1_000_000,
				FixingPeriodStart: 0, FixingPeriodEnd: 0.5, FixingAccrualFactor: 0.5,
				FundingCurve: fundingName, ForwardCurve: forwardName},
		}},
	}
	sens, err := pricing.PresentValueCurveSensitivity(swap, market)
	if err != nil {
		t.Fatalf("PresentValueCurveSensitivity error: %v", err)
	}
	cleaned := sens.Cleaned()
	// Both legs pay at t=0.5 on the funding curve, so after cleaning that
	// time holds exactly one merged node.
	count := 0
	for _, node := range cleaned[fundingName] {
		if node.T == 0.5 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one merged funding node at t=0.5, got %d: %v", count, cleaned[fundingName])
	}
	checkNodeFD(t, swap, market, 1e-1)
}

func TestCurveSensitivityPastPaymentHasNoNodes(t *testing.T) {
	t.Parallel()

	market := flatMarket(0.05, 0.04)
	sens, err := pricing.PresentValueCurveSensitivity(derivative.FixedPayment{
		Currency: money.USD, PaymentTime: -1, Amount: 100, FundingCurve: fundingName,
	}, market)
	if err != nil {
		t.Fatalf("PresentValueCurveSensitivity error: %v", err)
	}
	if len(sens[fundingName]) != 0 {
		t.Fatalf("past payment should have no sensitivity, got %v", sens)
	}
}
