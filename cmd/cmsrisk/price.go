package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pvollan/rateslib/money"
	"github.com/pvollan/rateslib/pricing"
)

type priceCmd struct {
	logger *zap.Logger
	flags  demoFlags
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "price a CMS cap or floor and its curve deltas" }
func (*priceCmd) Usage() string {
	return `cmsrisk price [-asof <date>] [-strike <k>] [-floor] [market flags]

  Prices a single CMS caplet (or floorlet) on a flat demo market and prints
  the present value and the zero-rate sensitivity per curve node.
`
}

func (p *priceCmd) SetFlags(f *flag.FlagSet) { p.flags.register(f) }

func (p *priceCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	valuation, err := p.flags.valuationDate()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	trade, err := p.flags.capFloor(valuation)
	if err != nil {
		p.logger.Error("building trade", zap.Error(err))
		return subcommands.ExitFailure
	}
	market := p.flags.market()

	pv, err := pricing.PresentValue(trade, market)
	if err != nil {
		p.logger.Error("pricing", zap.Error(err))
		return subcommands.ExitFailure
	}
	sens, err := pricing.PresentValueCurveSensitivity(trade, market)
	if err != nil {
		p.logger.Error("curve sensitivity", zap.Error(err))
		return subcommands.ExitFailure
	}
	p.logger.Debug("priced", zap.String("asof", valuation.Format("2006-01-02")),
		zap.Float64("strike", p.flags.strike), zap.Bool("floor", p.flags.floor))

	fmt.Printf("pv %s %s\n", money.USD, round(pv.Get(money.USD)))
	cleaned := sens.Cleaned()
	names := make([]string, 0, len(cleaned))
	for name := range cleaned {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, node := range cleaned[name] {
			fmt.Printf("delta %-8s t=%7.4f  %s\n", name, node.T, round(node.Value))
		}
	}
	return subcommands.ExitSuccess
}

// round snaps a float to cents for display.
func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
