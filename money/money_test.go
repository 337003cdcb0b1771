package money_test

import (
	"math"
	"testing"

	"github.com/pvollan/rateslib/money"
)

func TestMultiAmountPlus(t *testing.T) {
	t.Parallel()

	m := money.Of(money.USD, 100)
	m2 := m.Plus(money.USD, 50).Plus(money.EUR, 30)
	if got := m2.Get(money.USD); got != 150 {
		t.Fatalf("USD total: got %v", got)
	}
	if got := m2.Get(money.EUR); got != 30 {
		t.Fatalf("EUR total: got %v", got)
	}
	// The receiver is unchanged.
	if got := m.Get(money.USD); got != 100 {
		t.Fatalf("receiver mutated: got %v", got)
	}
}

func TestMultiAmountPlusAll(t *testing.T) {
	t.Parallel()

	a := money.Of(money.USD, 1).Plus(money.EUR, 2)
	b := money.Of(money.EUR, 3).Plus(money.JPY, 4)
	sum := a.PlusAll(b)
	if sum.Get(money.USD) != 1 || sum.Get(money.EUR) != 5 || sum.Get(money.JPY) != 4 {
		t.Fatalf("merged amounts: got %v", sum)
	}
}

func TestMultiAmountScale(t *testing.T) {
	t.Parallel()

	m := money.Of(money.USD, 10).Scale(2.5)
	if got := m.Get(money.USD); math.Abs(got-25) > 1e-15 {
		t.Fatalf("scaled amount: got %v", got)
	}
}

func TestMultiAmountGetMissing(t *testing.T) {
	t.Parallel()

	if got := money.Of(money.USD, 1).Get(money.GBP); got != 0 {
		t.Fatalf("missing currency should read zero, got %v", got)
	}
}
