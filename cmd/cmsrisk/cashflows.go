package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/pvollan/rateslib/calendar"
	"github.com/pvollan/rateslib/daycount"
	"github.com/pvollan/rateslib/instrument"
	"github.com/pvollan/rateslib/money"
)

type cashflowsCmd struct {
	logger *zap.Logger

	valuation string
	maturity  string
	rate      float64
	months    int
}

func (*cashflowsCmd) Name() string     { return "cashflows" }
func (*cashflowsCmd) Synopsis() string { return "list the remaining fixed cash flows of a bond" }
func (*cashflowsCmd) Usage() string {
	return `cmsrisk cashflows -maturity <date> [-asof <date>] [-rate <c>] [-freq <months>]

  Generates a unit-notional bullet bond and prints its payments still due
  after the valuation date.
`
}

func (c *cashflowsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.valuation, "asof", "", "Valuation date (YYYY-MM-DD, default today).")
	f.StringVar(&c.maturity, "maturity", "", "Bond maturity (YYYY-MM-DD, required).")
	f.Float64Var(&c.rate, "rate", 0.03, "Annual coupon rate.")
	f.IntVar(&c.months, "freq", 6, "Coupon period in months.")
}

func (c *cashflowsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.maturity == "" {
		fmt.Fprintln(os.Stderr, "cashflows: -maturity is required")
		return subcommands.ExitUsageError
	}
	maturity, err := time.Parse("2006-01-02", c.maturity)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cashflows: parsing -maturity:", err)
		return subcommands.ExitUsageError
	}
	asOf := time.Now().UTC()
	if c.valuation != "" {
		if asOf, err = time.Parse("2006-01-02", c.valuation); err != nil {
			fmt.Fprintln(os.Stderr, "cashflows: parsing -asof:", err)
			return subcommands.ExitUsageError
		}
	}

	firstAccrual := maturity
	for firstAccrual.After(asOf) {
		firstAccrual = daycount.AddMonths(firstAccrual, -c.months)
	}
	bond, err := instrument.NewBond(money.USD, firstAccrual, maturity, c.months, c.rate,
		daycount.Thirty360, calendar.Weekdays{})
	if err != nil {
		c.logger.Error("building bond", zap.Error(err))
		return subcommands.ExitFailure
	}
	flows, err := instrument.FixedCashFlows(bond, asOf)
	if err != nil {
		c.logger.Error("cash flows", zap.Error(err))
		return subcommands.ExitFailure
	}

	dates := make([]time.Time, 0, len(flows))
	for d := range flows {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for _, d := range dates {
		fmt.Printf("%s  %s\n", d.Format("2006-01-02"), flows[d])
	}
	return subcommands.ExitSuccess
}
