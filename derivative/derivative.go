// Package derivative holds valuation-date-relative instrument
// representations: the contractual content of an instrument definition
// re-expressed as year-fraction times and named curve references.
//
// Instances are built per pricing call by the instrument package's
// ToDerivative conversions and are never cached across valuation dates.
package derivative

import "github.com/pvollan/rateslib/money"

// Instrument is the closed set of priceable time-denominated instruments.
type Instrument interface {
	isInstrument()
}

// FixedPayment is a known amount paid at a future time.
type FixedPayment struct {
	Currency     money.Currency
	PaymentTime  float64
	Amount       float64
	FundingCurve string
}

// FixedCoupon is a fixed-rate accrual coupon.
type FixedCoupon struct {
	Currency      money.Currency
	PaymentTime   float64
	AccrualFactor float64
	Notional      float64
	Rate          float64
	FundingCurve  string
}

// IborCoupon is a floating coupon indexed on a forward-looking rate fixed
// over [FixingPeriodStart, FixingPeriodEnd] on the forward curve.
type IborCoupon struct {
	Currency            money.Currency
	PaymentTime         float64
	AccrualFactor       float64
	Notional            float64
	FixingTime          float64
	FixingPeriodStart   float64
	FixingPeriodEnd     float64
	FixingAccrualFactor float64
	FundingCurve        string
	ForwardCurve        string
}

// Cash is a deposit: notional out at start, notional plus interest back at
// maturity.
type Cash struct {
	Currency      money.Currency
	StartTime     float64
	EndTime       float64
	Notional      float64
	Rate          float64
	AccrualFactor float64
	FundingCurve  string
}

// FRA is a forward rate agreement settled at the accrual start.
type FRA struct {
	Currency          money.Currency
	SettlementTime    float64 // accrual start, where the flow is booked
	FixingPeriodStart float64
	FixingPeriodEnd   float64
	AccrualFactor     float64
	Notional          float64
	Rate              float64
	FundingCurve      string
	ForwardCurve      string
}

// Bill is a zero-coupon redemption of Notional at EndTime.
type Bill struct {
	Currency     money.Currency
	EndTime      float64
	Notional     float64
	FundingCurve string
}

// BillTransaction is a position of Quantity bills with an optional future
// settlement payment.
type BillTransaction struct {
	Security         Bill
	Quantity         float64
	SettlementTime   float64
	SettlementAmount float64 // signed, paid at SettlementTime when positive time
}

// FixedAnnuity is an ordered strip of fixed coupons.
type FixedAnnuity struct {
	Coupons []FixedCoupon
}

// IborAnnuity is an ordered strip of floating coupons.
type IborAnnuity struct {
	Coupons []IborCoupon
}

// Bond is a fixed-coupon bond: coupon strip plus nominal redemption.
type Bond struct {
	Coupons FixedAnnuity
	Nominal FixedPayment
}

// BondTransaction is a position of Quantity bonds with an optional future
// settlement payment.
type BondTransaction struct {
	Security         Bond
	Quantity         float64
	SettlementTime   float64
	SettlementAmount float64
}

// FixedIborSwap is a fixed-versus-floating swap. Payer/receiver direction is
// carried by the coupon notional signs.
type FixedIborSwap struct {
	FixedLeg FixedAnnuity
	IborLeg  IborAnnuity
}

// CMSCoupon is a coupon fixing on a swap rate.
type CMSCoupon struct {
	Currency       money.Currency
	PaymentTime    float64
	AccrualFactor  float64
	Notional       float64
	FixingTime     float64
	SettlementTime float64
	Underlying     FixedIborSwap
	FundingCurve   string
}

// CMSCapFloor is an optional CMS coupon: pays (S-K)^+ (cap) or (K-S)^+
// (floor) on the fixed swap rate S.
type CMSCapFloor struct {
	Coupon CMSCoupon
	Strike float64
	IsCap  bool
}

// Annuity is a generic strip of payments, used for cap/floor legs.
type Annuity struct {
	Payments []Instrument
}

func (FixedPayment) isInstrument()    {}
func (FixedCoupon) isInstrument()     {}
func (IborCoupon) isInstrument()      {}
func (Cash) isInstrument()            {}
func (FRA) isInstrument()             {}
func (Bill) isInstrument()            {}
func (BillTransaction) isInstrument() {}
func (FixedAnnuity) isInstrument()    {}
func (IborAnnuity) isInstrument()     {}
func (Bond) isInstrument()            {}
func (BondTransaction) isInstrument() {}
func (FixedIborSwap) isInstrument()   {}
func (CMSCoupon) isInstrument()       {}
func (CMSCapFloor) isInstrument()     {}
func (Annuity) isInstrument()         {}
