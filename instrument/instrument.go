// Package instrument defines date-denominated, immutable descriptions of
// fixed-income instruments, the fixed cash-flow visitor over them, and the
// conversion to valuation-date-relative derivatives.
//
// Definitions form a closed sum type: a sealed Definition interface with one
// struct per variant. Calculators dispatch by type switch.
package instrument

import (
	"fmt"
	"time"

	"github.com/pvollan/rateslib/calendar"
	"github.com/pvollan/rateslib/daycount"
	"github.com/pvollan/rateslib/money"
)

// Definition is the closed set of instrument definitions. All variants are
// immutable once constructed and carry absolute calendar dates only.
type Definition interface {
	isDefinition()
}

// Cash is a term deposit: notional placed at StartDate, repaid with interest
// at MaturityDate.
type Cash struct {
	Currency      money.Currency
	StartDate     time.Time
	MaturityDate  time.Time
	Notional      float64
	Rate          float64
	AccrualFactor float64
}

// FixedPayment is a single known payment.
type FixedPayment struct {
	Currency    money.Currency
	PaymentDate time.Time
	Amount      float64
}

// FixedCoupon is a fixed-rate coupon accruing over [AccrualStart, AccrualEnd].
// Notional is signed: positive receives, negative pays.
type FixedCoupon struct {
	Currency      money.Currency
	PaymentDate   time.Time
	AccrualStart  time.Time
	AccrualEnd    time.Time
	AccrualFactor float64
	Notional      float64
	Rate          float64
}

// IborIndex describes a forward-looking floating rate index.
type IborIndex struct {
	Name        string
	Currency    money.Currency
	TenorMonths int
	SpotLagDays int
	DayCount    daycount.Counter
	Calendar    calendar.Calendar
	EndOfMonth  bool
}

// IborCoupon is a floating coupon fixing on Index over
// [FixingPeriodStart, FixingPeriodEnd].
type IborCoupon struct {
	Currency            money.Currency
	PaymentDate         time.Time
	AccrualStart        time.Time
	AccrualEnd          time.Time
	AccrualFactor       float64
	Notional            float64
	FixingDate          time.Time
	FixingPeriodStart   time.Time
	FixingPeriodEnd     time.Time
	FixingAccrualFactor float64
	Index               IborIndex
}

// FRA is a forward rate agreement on Index at the agreed Rate. By the
// replicating-cash convention used here its cash flow is booked at the
// accrual start date, not the payment date.
type FRA struct {
	Currency      money.Currency
	AccrualStart  time.Time
	AccrualEnd    time.Time
	FixingDate    time.Time
	AccrualFactor float64
	Notional      float64
	Rate          float64
	Index         IborIndex
}

// NewFRA builds an FRA with the accrual factor taken from the index day count.
// A negative notional makes it a receiver FRA.
func NewFRA(accrualStart, accrualEnd time.Time, notional, rate float64, index IborIndex) FRA {
	return FRA{
		Currency:      index.Currency,
		AccrualStart:  accrualStart,
		AccrualEnd:    accrualEnd,
		FixingDate:    calendar.AddBusinessDays(index.Calendar, accrualStart, -index.SpotLagDays),
		AccrualFactor: index.DayCount.YearFraction(accrualStart, accrualEnd),
		Notional:      notional,
		Rate:          rate,
		Index:         index,
	}
}

// Bill is a zero-coupon security redeeming Notional at MaturityDate.
type Bill struct {
	Currency     money.Currency
	MaturityDate time.Time
	Notional     float64
}

// BillTransaction is a position in a Bill. Quantity and settlement terms do
// not affect the security's contractual schedule.
type BillTransaction struct {
	Security         Bill
	Quantity         float64
	SettlementDate   time.Time
	SettlementAmount float64
}

// Bond is a fixed-coupon bullet bond: a coupon strip plus redemption of
// Notional at maturity. Construct with NewBond so the strip is generated
// consistently.
type Bond struct {
	Currency     money.Currency
	MaturityDate time.Time
	Notional     float64
	Coupons      []FixedCoupon
}

// NewBond generates the coupon schedule from firstAccrual to maturity with
// the given period, day count and calendar. Notional is per unit (1.0 prices
// and reports per unit of face).
func NewBond(ccy money.Currency, firstAccrual, maturity time.Time, periodMonths int, rate float64, dc daycount.Counter, cal calendar.Calendar) (Bond, error) {
	if !maturity.After(firstAccrual) {
		return Bond{}, fmt.Errorf("NewBond: maturity %s not after first accrual %s",
			maturity.Format("2006-01-02"), firstAccrual.Format("2006-01-02"))
	}
	periods, err := Schedule(firstAccrual, maturity, periodMonths, cal)
	if err != nil {
		return Bond{}, fmt.Errorf("NewBond: %w", err)
	}
	coupons := make([]FixedCoupon, 0, len(periods))
	for _, p := range periods {
		coupons = append(coupons, FixedCoupon{
			Currency:      ccy,
			PaymentDate:   p.Payment,
			AccrualStart:  p.Start,
			AccrualEnd:    p.End,
			AccrualFactor: dc.YearFraction(p.Start, p.End),
			Notional:      1.0,
			Rate:          rate,
		})
	}
	return Bond{Currency: ccy, MaturityDate: maturity, Notional: 1.0, Coupons: coupons}, nil
}

// BondTransaction is a position in a Bond.
type BondTransaction struct {
	Security         Bond
	Quantity         float64
	SettlementDate   time.Time
	SettlementAmount float64
}

// FixedAnnuity is an ordered strip of fixed coupons.
type FixedAnnuity struct {
	Coupons []FixedCoupon
}

// IborAnnuity is an ordered strip of floating coupons.
type IborAnnuity struct {
	Coupons []IborCoupon
}

// FixedIborSwap is a fixed-versus-floating swap; direction is carried by the
// coupon notional signs.
type FixedIborSwap struct {
	FixedLeg FixedAnnuity
	IborLeg  IborAnnuity
}

// CMSIndex identifies the swap rate a CMS coupon fixes on: the underlying
// swap's tenor and leg conventions.
type CMSIndex struct {
	TenorYears        int
	FixedPeriodMonths int
	FixedDayCount     daycount.Counter
	Ibor              IborIndex
}

// CMSCoupon is a coupon whose rate resets to the swap rate of Underlying,
// observed at FixingDate for a swap settling at SettlementDate.
type CMSCoupon struct {
	Currency       money.Currency
	PaymentDate    time.Time
	AccrualStart   time.Time
	AccrualEnd     time.Time
	AccrualFactor  float64
	Notional       float64
	FixingDate     time.Time
	SettlementDate time.Time
	Underlying     FixedIborSwap
	Index          CMSIndex
}

// CMSCapFloor is an optional CMS coupon at the given strike.
type CMSCapFloor struct {
	Coupon CMSCoupon
	Strike float64
	IsCap  bool
}

// CMSCapFloorAnnuity is a leg of CMS caplets or floorlets.
type CMSCapFloorAnnuity struct {
	Payments []CMSCapFloor
}

func (Cash) isDefinition()               {}
func (FixedPayment) isDefinition()       {}
func (FixedCoupon) isDefinition()        {}
func (IborCoupon) isDefinition()         {}
func (FRA) isDefinition()                {}
func (Bill) isDefinition()               {}
func (BillTransaction) isDefinition()    {}
func (Bond) isDefinition()               {}
func (BondTransaction) isDefinition()    {}
func (FixedAnnuity) isDefinition()       {}
func (IborAnnuity) isDefinition()        {}
func (FixedIborSwap) isDefinition()      {}
func (CMSCoupon) isDefinition()          {}
func (CMSCapFloor) isDefinition()        {}
func (CMSCapFloorAnnuity) isDefinition() {}
