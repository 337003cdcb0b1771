package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/pvollan/rateslib/calendar"
	"github.com/pvollan/rateslib/curve"
	"github.com/pvollan/rateslib/daycount"
	"github.com/pvollan/rateslib/derivative"
	"github.com/pvollan/rateslib/instrument"
	"github.com/pvollan/rateslib/money"
	"github.com/pvollan/rateslib/pricing"
	"github.com/pvollan/rateslib/sabr"
)

const (
	fundingName = "Funding"
	forwardName = "Forward"
)

// demoFlags are the shared market and trade inputs of the pricing commands.
type demoFlags struct {
	valuation   string
	fundingRate float64
	forwardRate float64
	alpha       float64
	beta        float64
	rho         float64
	nu          float64
	notional    float64
	strike      float64
	floor       bool
	swapTenor   int
	startYears  int
}

func (d *demoFlags) register(f *flag.FlagSet) {
	f.StringVar(&d.valuation, "asof", "", "Valuation date (YYYY-MM-DD, default today).")
	f.Float64Var(&d.fundingRate, "funding", 0.05, "Flat funding zero rate.")
	f.Float64Var(&d.forwardRate, "forward", 0.045, "Flat forward zero rate.")
	f.Float64Var(&d.alpha, "alpha", 0.05, "SABR alpha.")
	f.Float64Var(&d.beta, "beta", 0.5, "SABR beta.")
	f.Float64Var(&d.rho, "rho", -0.25, "SABR rho.")
	f.Float64Var(&d.nu, "nu", 0.5, "SABR nu.")
	f.Float64Var(&d.notional, "notional", 10_000_000, "Trade notional.")
	f.Float64Var(&d.strike, "strike", 0.02, "Cap/floor strike.")
	f.BoolVar(&d.floor, "floor", false, "Price a floor instead of a cap.")
	f.IntVar(&d.swapTenor, "tenor", 5, "Underlying swap tenor in years.")
	f.IntVar(&d.startYears, "start", 1, "Years from valuation to the accrual start.")
}

func (d *demoFlags) valuationDate() (time.Time, error) {
	if d.valuation == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", d.valuation)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing -asof: %w", err)
	}
	return t, nil
}

func (d *demoFlags) market() pricing.Market {
	curves := curve.NewBundle().
		Set(fundingName, curve.ConstantYield(d.fundingRate)).
		Set(forwardName, curve.ConstantYield(d.forwardRate))
	return pricing.Market{
		Curves: curves,
		SABR:   sabr.ConstantSurface(sabr.Parameters{Alpha: d.alpha, Beta: d.beta, Rho: d.rho, Nu: d.nu}),
	}
}

func (d *demoFlags) index() instrument.CMSIndex {
	ibor := instrument.IborIndex{
		Name:        "DEMO-IBOR-3M",
		Currency:    money.USD,
		TenorMonths: 3,
		SpotLagDays: 2,
		DayCount:    daycount.Act360,
		Calendar:    calendar.Weekdays{},
	}
	return instrument.CMSIndex{
		TenorYears:        d.swapTenor,
		FixedPeriodMonths: 6,
		FixedDayCount:     daycount.Thirty360,
		Ibor:              ibor,
	}
}

// capFloor builds the trade and converts it relative to the valuation date.
func (d *demoFlags) capFloor(valuation time.Time) (derivative.Instrument, error) {
	index := d.index()
	start := valuation.AddDate(d.startYears, 0, 0)
	end := daycount.AddMonths(start, 3)
	fixing := calendar.AddBusinessDays(index.Ibor.Calendar, start, -index.Ibor.SpotLagDays)
	coupon, err := instrument.NewCMSCoupon(end, start, end,
		index.Ibor.DayCount.YearFraction(start, end), d.notional, fixing, index)
	if err != nil {
		return nil, err
	}
	def := instrument.CapFloorFrom(coupon, d.strike, !d.floor)
	return instrument.ToDerivative(def, valuation, instrument.CurveNames{Funding: fundingName, Forward: forwardName})
}
